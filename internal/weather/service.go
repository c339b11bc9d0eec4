package weather

import (
	"context"
	"errors"
	"log"
)

var errNoGateway = errors.New("no weather gateway configured")

// Service is the single entry point the HTTP layer uses to look up current weather.
type Service struct {
	gateway Gateway
}

// NewService creates a new Service.
func NewService(gateway Gateway) *Service {
	return &Service{
		gateway: gateway,
	}
}

// Current performs one provider lookup for q and logs failures.
// The Result is returned untouched so the caller can map it to a response.
func (s *Service) Current(ctx context.Context, q Query) Result {
	reqID := RequestID(ctx)

	if s.gateway == nil {
		log.Printf("ERROR: [%s] %v", reqID, errNoGateway)
		return Failed(errNoGateway)
	}

	log.Printf("DEBUG: [%s] current weather requested for %q via %s", reqID, q.City, s.gateway.Name())

	res := s.gateway.Current(ctx, q)
	switch res.Kind {
	case ResultUpstreamError:
		log.Printf("INFO: [%s] provider %s rejected %q: %v", reqID, s.gateway.Name(), q.City, res.Upstream)
	case ResultTransportError:
		log.Printf("ERROR: [%s] provider %s fetch failed for %q: %v", reqID, s.gateway.Name(), q.City, res.Err)
	}
	return res
}
