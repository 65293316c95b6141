package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeReplayed = "replayed"
)

// Gateway holds the orchestration instruments.
type Gateway struct {
	requests       *prometheus.CounterVec
	modelDuration  *prometheus.HistogramVec
	recordFailures prometheus.Counter
}

// New registers the gateway instruments on reg.
func New(reg prometheus.Registerer) *Gateway {
	g := &Gateway{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_gateway_requests_total",
			Help: "Generation requests by kind and outcome (success, replayed, or error kind).",
		}, []string{"kind", "outcome"}),
		modelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ai_gateway_model_duration_seconds",
			Help:    "Duration of successful model calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 15, 20, 25, 30},
		}, []string{"kind"}),
		recordFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ai_gateway_record_failures_total",
			Help: "Interaction records that failed to persist after a successful model call.",
		}),
	}
	if reg != nil {
		reg.MustRegister(g.requests, g.modelDuration, g.recordFailures)
	}
	return g
}

func (g *Gateway) Request(kind, outcome string) {
	if g == nil {
		return
	}
	g.requests.WithLabelValues(kind, outcome).Inc()
}

func (g *Gateway) ModelDuration(kind string, d time.Duration) {
	if g == nil {
		return
	}
	g.modelDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (g *Gateway) RecordFailure() {
	if g == nil {
		return
	}
	g.recordFailures.Inc()
}
