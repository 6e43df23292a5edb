package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCacheHit = "cache_hit"
)

// Selection actions.
const (
	ActionSelect   = "select"
	ActionDeselect = "deselect"
)

// Collector is safe for concurrent use. A nil *Collector records nothing.
type Collector struct {
	fetchTotal     *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	selectionTotal *prometheus.CounterVec
	continueTotal  prometheus.Counter
}

func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skipselector_fetch_total",
				Help: "Skip list fetches by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skipselector_fetch_duration_seconds",
				Help:    "Duration of skip list fetches including the retry",
				Buckets: prometheus.DefBuckets,
			},
		),
		selectionTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skipselector_selection_total",
				Help: "Card toggles by resulting action",
			},
			[]string{"action"},
		),
		continueTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "skipselector_continue_total",
				Help: "Continue to Booking activations",
			},
		),
	}
}

func (c *Collector) RecordFetch(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.fetchTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeCacheHit {
		c.fetchDuration.Observe(d.Seconds())
	}
}

func (c *Collector) RecordToggle(selected bool) {
	if c == nil {
		return
	}
	action := ActionDeselect
	if selected {
		action = ActionSelect
	}
	c.selectionTotal.WithLabelValues(action).Inc()
}

func (c *Collector) RecordContinue() {
	if c == nil {
		return
	}
	c.continueTotal.Inc()
}
