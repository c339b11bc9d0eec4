package weather

import "fmt"

// Query identifies the city a caller asked about. It lives for one request.
type Query struct {
	City string `json:"city" validate:"required"`
}

// Report is the simplified current-weather view returned to callers.
// Every field is copied from the provider payload without conversion.
type Report struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"` // °C
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"` // %
	WindSpeed   float64 `json:"windSpeed"`
}

// UpstreamError is a failure reported by the provider itself: a non-2xx
// status together with the message from its error body.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}
