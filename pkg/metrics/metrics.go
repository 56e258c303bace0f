// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets are latency buckets in seconds.
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Resolution outcomes.
const (
	OutcomeResolved = "resolved"
	OutcomeEmpty    = "empty_input"
	OutcomeNoMatch  = "no_match"
)

// Download tiers.
const (
	TierDirect   = "direct"
	TierFallback = "fallback"
)

// Metrics groups the application's collectors.
type Metrics struct {
	Resolutions   *prometheus.CounterVec
	Downloads     *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xhs_resolver",
			Name:      "resolutions_total",
			Help:      "Resolve attempts by outcome.",
		}, []string{"outcome"}),
		Downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xhs_resolver",
			Name:      "downloads_total",
			Help:      "Downloads by serving tier (direct or fallback redirect).",
		}, []string{"tier"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "xhs_resolver",
			Name:      "image_fetch_duration_seconds",
			Help:      "Time spent fetching images from the CDN.",
			Buckets:   DefaultBuckets,
		}, []string{"fetcher", "result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Resolutions, m.Downloads, m.FetchDuration)
	}
	return m
}

// RegisterLogDrops exposes the logger's overflow counter.
func RegisterLogDrops(reg prometheus.Registerer, dropped func() int64) {
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "xhs_resolver",
		Name:      "log_entries_dropped_total",
		Help:      "Log entries discarded because the async buffer was full.",
	}, func() float64 { return float64(dropped()) }))
}

// RegisterSessions exposes the number of live sessions.
func RegisterSessions(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "xhs_resolver",
		Name:      "sessions",
		Help:      "Live resolver sessions.",
	}, func() float64 { return float64(count()) }))
}
