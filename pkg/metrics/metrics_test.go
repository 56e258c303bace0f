package metrics_test

import (
	"testing"

	"xhs-resolver/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Resolutions.WithLabelValues(metrics.OutcomeResolved).Inc()
	m.Downloads.WithLabelValues(metrics.TierFallback).Add(2)

	if got := testutil.ToFloat64(m.Resolutions.WithLabelValues(metrics.OutcomeResolved)); got != 1 {
		t.Errorf("resolutions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Downloads.WithLabelValues(metrics.TierFallback)); got != 2 {
		t.Errorf("downloads = %v, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) < 2 {
		t.Errorf("families = %d, want at least 2", len(families))
	}
}

func TestNew_NilRegisterer_DoesNotPanic(t *testing.T) {
	m := metrics.New(nil)
	m.FetchDuration.WithLabelValues("http", "ok").Observe(0.2)

	if got := testutil.CollectAndCount(m.FetchDuration); got != 1 {
		t.Errorf("histograms = %d, want 1", got)
	}
}

func TestRegisterSessions_ReadsCallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.RegisterSessions(reg, func() int { return 3 })

	n, err := testutil.GatherAndCount(reg, "xhs_resolver_sessions")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestRegisterLogDrops_ReadsCallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.RegisterLogDrops(reg, func() int64 { return 7 })

	n, err := testutil.GatherAndCount(reg, "xhs_resolver_log_entries_dropped_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
