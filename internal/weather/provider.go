package weather

import "context"

// Gateway abstracts the third-party current-weather provider
// (e.g. OpenWeatherMap). Implementations make exactly one outbound call
// per Current invocation and never write HTTP responses themselves.
type Gateway interface {
	Name() string
	Current(ctx context.Context, q Query) Result
}
