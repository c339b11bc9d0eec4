package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeInvalid labels requests rejected before any provider call.
const OutcomeInvalid = "invalid"

// Recorder counts /weather outcomes and times provider calls.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	upstream *prometheus.HistogramVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weather_fetcher",
		Name:      "requests_total",
		Help:      "Weather lookups by outcome.",
	}, []string{"outcome"})

	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "weather_fetcher",
		Name:      "upstream_duration_seconds",
		Help:      "Latency of weather provider calls by outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	reg.MustRegister(
		requests,
		upstream,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{
		registry: reg,
		requests: requests,
		upstream: upstream,
	}
}

// ObserveRequest counts one request that ended with outcome.
func (r *Recorder) ObserveRequest(outcome string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(outcome).Inc()
}

// ObserveUpstream counts one provider call and records its latency.
func (r *Recorder) ObserveUpstream(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(outcome).Inc()
	r.upstream.WithLabelValues(outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
