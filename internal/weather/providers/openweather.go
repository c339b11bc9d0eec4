package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-fetcher/internal/weather"
)

// DefaultOpenWeatherURL is the OpenWeatherMap current-weather-by-name endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Gateway interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name       string
	apiKey     string
	baseURL    string
	client     *http.Client
	logPayload bool
}

// Option customizes an OpenWeatherProvider.
type Option func(*OpenWeatherProvider)

// WithBaseURL points the provider at a different endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(p *OpenWeatherProvider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithPayloadLogging logs every raw provider body at DEBUG.
func WithPayloadLogging(enabled bool) Option {
	return func(p *OpenWeatherProvider) {
		p.logPayload = enabled
	}
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: DefaultOpenWeatherURL,
		client:  client,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Current fetches the current weather for q.City. The city is sent as-is;
// whatever OpenWeatherMap answers for it is authoritative.
func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query) weather.Result {
	if p.apiKey == "" {
		return weather.Failed(weather.ErrMissingCredential)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", q.City)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	status, body, err := doRequest(ctx, p.client, buildRequest)
	if err != nil {
		return weather.Failed(fmt.Errorf("%w: %v", weather.ErrTransport, err))
	}

	if p.logPayload {
		log.Printf("DEBUG: [%s] %s response status=%d body=%s", weather.RequestID(ctx), p.name, status, body)
	}

	if status < 200 || status >= 300 {
		return weather.Rejected(status, errorMessage(status, body))
	}

	report, err := decodeCurrent(body)
	if err != nil {
		return weather.Failed(err)
	}
	return weather.Success(report)
}

// currentPayload mirrors the subset of the OpenWeatherMap response we map.
// Pointers distinguish absent fields from zero values.
type currentPayload struct {
	Name *string `json:"name"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

func decodeCurrent(body []byte) (weather.Report, error) {
	var payload currentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Report{}, fmt.Errorf("%w: %v", weather.ErrMalformedPayload, err)
	}

	missing := func(field string) (weather.Report, error) {
		return weather.Report{}, fmt.Errorf("%w: missing %s", weather.ErrMalformedPayload, field)
	}

	switch {
	case payload.Name == nil:
		return missing("name")
	case payload.Main == nil || payload.Main.Temp == nil:
		return missing("main.temp")
	case payload.Main.Humidity == nil:
		return missing("main.humidity")
	case len(payload.Weather) == 0 || payload.Weather[0].Description == nil:
		return missing("weather[0].description")
	case payload.Wind == nil || payload.Wind.Speed == nil:
		return missing("wind.speed")
	}

	return weather.Report{
		City:        *payload.Name,
		Temperature: *payload.Main.Temp,
		Description: *payload.Weather[0].Description,
		Humidity:    *payload.Main.Humidity,
		WindSpeed:   *payload.Wind.Speed,
	}, nil
}

// errorMessage extracts the "message" field of an OpenWeatherMap error body,
// e.g. {"cod":"404","message":"city not found"}. Bodies without one fall
// back to the standard status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != nil {
		return *payload.Message
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("upstream status %d", status)
}
