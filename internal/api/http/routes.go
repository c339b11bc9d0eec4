package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/i474232898/weather-fetcher/internal/metrics"
	"github.com/i474232898/weather-fetcher/internal/weather"
)

const (
	msgCityRequired = "City name is required!"
	msgFetchFailed  = "An error occurred while fetching weather data."
)

var validate = validator.New()

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// rec may be nil, in which case /metrics is not served.
func RegisterRoutes(app *fiber.App, service *weather.Service, rec *metrics.Recorder) {
	app.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			rec.ObserveRequest(metrics.OutcomeInvalid)
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msgCityRequired})
		}

		ctx := weather.WithRequestID(c.UserContext(), requestID(c))

		start := time.Now()
		res := service.Current(ctx, q)
		rec.ObserveUpstream(res.Kind.String(), time.Since(start))

		status, body := StatusFor(res)
		return c.Status(status).JSON(body)
	})

	if rec != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rec.Handler()))
	}
}

// StatusFor maps a gateway Result to the response status and JSON body.
// It is total over ResultKind: anything not OK or provider-reported is a 500.
func StatusFor(res weather.Result) (int, any) {
	switch res.Kind {
	case weather.ResultOK:
		return fiber.StatusOK, res.Report
	case weather.ResultUpstreamError:
		return res.Upstream.StatusCode, errorResponse{Error: res.Upstream.Message}
	default:
		return fiber.StatusInternalServerError, errorResponse{Error: msgFetchFailed}
	}
}

// ErrorHandler renders errors escaping handlers and middleware (unknown
// routes, recovered panics) in the same {"error": ...} shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: msgFetchFailed})
}

func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	q := weather.Query{
		City: c.Query("city"),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
