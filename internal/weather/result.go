package weather

import "errors"

var (
	// ErrTransport marks outbound calls that never produced a response.
	ErrTransport = errors.New("weather provider unreachable")
	// ErrMalformedPayload marks 2xx responses that could not be mapped to a Report.
	ErrMalformedPayload = errors.New("malformed weather provider payload")
	// ErrMissingCredential is returned when the gateway has no API key.
	ErrMissingCredential = errors.New("weather provider api key is not configured")
)

// ResultKind tags the outcome of a single gateway call.
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultUpstreamError
	ResultTransportError
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultUpstreamError:
		return "upstream_error"
	case ResultTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is what a Gateway returns instead of panicking or writing a response.
// Exactly one of Report, Upstream or Err is meaningful, selected by Kind.
type Result struct {
	Kind     ResultKind
	Report   Report
	Upstream UpstreamError
	Err      error
}

// Success wraps a mapped report.
func Success(r Report) Result {
	return Result{Kind: ResultOK, Report: r}
}

// Rejected wraps a provider-reported failure.
func Rejected(statusCode int, message string) Result {
	return Result{
		Kind:     ResultUpstreamError,
		Upstream: UpstreamError{StatusCode: statusCode, Message: message},
	}
}

// Failed wraps any failure that is not the provider's own answer:
// network errors, timeouts, undecodable or incomplete payloads.
func Failed(err error) Result {
	if err == nil {
		err = ErrTransport
	}
	return Result{Kind: ResultTransportError, Err: err}
}

// AsError returns nil for ResultOK and the underlying failure otherwise.
func (r Result) AsError() error {
	switch r.Kind {
	case ResultOK:
		return nil
	case ResultUpstreamError:
		return r.Upstream
	default:
		return r.Err
	}
}
