package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-fetcher/internal/metrics"
	"github.com/i474232898/weather-fetcher/internal/weather"
	"github.com/i474232898/weather-fetcher/internal/weather/providers"
)

// fakeGateway returns a canned Result and counts calls.
type fakeGateway struct {
	result weather.Result
	calls  atomic.Int32
	cities []string
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Current(_ context.Context, q weather.Query) weather.Result {
	g.calls.Add(1)
	g.cities = append(g.cities, q.City)
	return g.result
}

func newTestApp(gw weather.Gateway) *fiber.App {
	return NewApp(weather.NewService(gw), metrics.New())
}

func do(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestWeatherMissingCity(t *testing.T) {
	for _, target := range []string{"/weather", "/weather?city=", "/weather?town=London"} {
		t.Run(target, func(t *testing.T) {
			gw := &fakeGateway{}
			app := newTestApp(gw)

			status, body := do(t, app, target)
			if status != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, status)
			}
			if want := `{"error":"City name is required!"}`; body != want {
				t.Fatalf("expected body %s, got %s", want, body)
			}
			if n := gw.calls.Load(); n != 0 {
				t.Fatalf("expected no gateway call, got %d", n)
			}
		})
	}
}

func TestWeatherSuccess(t *testing.T) {
	gw := &fakeGateway{result: weather.Success(weather.Report{
		City:        "London",
		Temperature: 15.2,
		Description: "light rain",
		Humidity:    70,
		WindSpeed:   4.1,
	})}
	app := newTestApp(gw)

	status, body := do(t, app, "/weather?city=London")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	want := `{"city":"London","temperature":15.2,"description":"light rain","humidity":70,"windSpeed":4.1}`
	if body != want {
		t.Fatalf("expected body %s, got %s", want, body)
	}
	if n := gw.calls.Load(); n != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", n)
	}
	if gw.cities[0] != "London" {
		t.Fatalf("expected city London, got %q", gw.cities[0])
	}
}

func TestWeatherUpstreamErrorPassThrough(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusNotFound, "city not found"},
		{http.StatusUnauthorized, "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."},
		{http.StatusTooManyRequests, "rate limited"},
		{http.StatusBadGateway, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			app := newTestApp(&fakeGateway{result: weather.Rejected(tt.status, tt.message)})

			status, body := do(t, app, "/weather?city=Nowhereland")
			if status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, status)
			}

			var got errorResponse
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatalf("decode body %q: %v", body, err)
			}
			if got.Error != tt.message {
				t.Fatalf("expected error %q, got %q", tt.message, got.Error)
			}
		})
	}
}

func TestWeatherTransportError(t *testing.T) {
	for _, cause := range []error{weather.ErrTransport, weather.ErrMalformedPayload, weather.ErrMissingCredential} {
		t.Run(cause.Error(), func(t *testing.T) {
			app := newTestApp(&fakeGateway{result: weather.Failed(cause)})

			status, body := do(t, app, "/weather?city=London")
			if status != http.StatusInternalServerError {
				t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, status)
			}
			if want := `{"error":"An error occurred while fetching weather data."}`; body != want {
				t.Fatalf("expected body %s, got %s", want, body)
			}
			if strings.Contains(body, cause.Error()) {
				t.Fatalf("underlying cause leaked to caller: %s", body)
			}
		})
	}
}

func TestWeatherIdempotent(t *testing.T) {
	app := newTestApp(&fakeGateway{result: weather.Rejected(http.StatusNotFound, "city not found")})

	s1, b1 := do(t, app, "/weather?city=Nowhereland")
	s2, b2 := do(t, app, "/weather?city=Nowhereland")
	if s1 != s2 || b1 != b2 {
		t.Fatalf("responses differ: (%d %s) vs (%d %s)", s1, b1, s2, b2)
	}
}

func TestStatusForIsTotal(t *testing.T) {
	tests := []struct {
		name   string
		res    weather.Result
		status int
	}{
		{"ok", weather.Success(weather.Report{City: "Oslo"}), http.StatusOK},
		{"upstream", weather.Rejected(http.StatusNotFound, "city not found"), http.StatusNotFound},
		{"transport", weather.Failed(errors.New("dial tcp: connection refused")), http.StatusInternalServerError},
		{"nil cause", weather.Failed(nil), http.StatusInternalServerError},
		{"unknown kind", weather.Result{Kind: weather.ResultKind(42)}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := StatusFor(tt.res)
			if status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, status)
			}
			if body == nil {
				t.Fatalf("expected a body")
			}
		})
	}
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	app := newTestApp(&fakeGateway{})

	status, body := do(t, app, "/nope")
	if status != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, status)
	}
	if want := `{"error":"Cannot GET /nope"}`; body != want {
		t.Fatalf("expected body %s, got %s", want, body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(&fakeGateway{result: weather.Success(weather.Report{City: "Oslo"})})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/weather?city=Oslo", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if id := resp.Header.Get(fiber.HeaderXRequestID); len(id) != 36 {
		t.Fatalf("expected a uuid request id, got %q", id)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(&fakeGateway{result: weather.Success(weather.Report{City: "Oslo"})})

	status, body := do(t, app, "/health")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("unexpected health body %s", body)
	}

	do(t, app, "/weather?city=Oslo")
	do(t, app, "/weather")

	status, body = do(t, app, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	for _, want := range []string{
		`weather_fetcher_requests_total{outcome="ok"} 1`,
		`weather_fetcher_requests_total{outcome="invalid"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in metrics:\n%s", want, body)
		}
	}
}

// TestEndToEndWithMockProvider runs the real OpenWeatherMap gateway against
// a mocked provider.
func TestEndToEndWithMockProvider(t *testing.T) {
	var upstreamCalls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "London":
			fmt.Fprint(w, `{"name":"London","main":{"temp":15.2,"humidity":70},"weather":[{"description":"light rain"}],"wind":{"speed":4.1}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
		}
	}))
	defer upstream.Close()

	gw := providers.NewOpenWeatherProvider(upstream.Client(), "test-key", providers.WithBaseURL(upstream.URL))
	app := newTestApp(gw)

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/weather?city=London", http.StatusOK, `{"city":"London","temperature":15.2,"description":"light rain","humidity":70,"windSpeed":4.1}`},
		{"/weather?city=Nowhereland", http.StatusNotFound, `{"error":"city not found"}`},
		{"/weather", http.StatusBadRequest, `{"error":"City name is required!"}`},
	}

	for _, tt := range tests {
		status, body := do(t, app, tt.target)
		if status != tt.status {
			t.Fatalf("%s: expected status %d, got %d", tt.target, tt.status, status)
		}
		if body != tt.body {
			t.Fatalf("%s: expected body %s, got %s", tt.target, tt.body, body)
		}
	}

	if n := upstreamCalls.Load(); n != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", n)
	}
}

func TestEndToEndProviderUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	gw := providers.NewOpenWeatherProvider(http.DefaultClient, "test-key", providers.WithBaseURL(url))
	app := newTestApp(gw)

	status, body := do(t, app, "/weather?city=London")
	if status != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, status)
	}
	if want := `{"error":"An error occurred while fetching weather data."}`; body != want {
		t.Fatalf("expected body %s, got %s", want, body)
	}
}
