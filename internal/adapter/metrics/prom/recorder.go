package prom

import (
	"net/http"

	"waypoint/internal/app/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "waypoint"

type Recorder struct {
	gatherer      prometheus.Gatherer
	discoveries   prometheus.Counter
	failures      prometheus.Counter
	travel        *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewRecorder registers the discovery counters on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := newRecorder(reg)
	r.gatherer = reg
	return r
}

func newRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		discoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discoveries_total",
			Help:      "Regions discovered by players.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_failures_total",
			Help:      "Discoveries skipped because the store failed.",
		}),
		travel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "travel_requests_total",
			Help:      "Fast-travel resolutions by outcome.",
		}, []string{"outcome"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_invalidations_total",
			Help:      "Wholesale discovery index invalidations by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(r.discoveries, r.failures, r.travel, r.invalidations)
	return r
}

func (r *Recorder) RecordDiscovery()        { r.discoveries.Inc() }
func (r *Recorder) RecordDiscoveryFailure() { r.failures.Inc() }

func (r *Recorder) RecordTravel(outcome string) {
	r.travel.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordInvalidation(reason string) {
	r.invalidations.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

var _ ports.DiscoveryMetrics = (*Recorder)(nil)
