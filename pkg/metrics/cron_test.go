package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCronJobMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveDuration("item-expiry-scan", 2*time.Second)
	m.IncSuccess("item-expiry-scan")
	m.IncFailure("invite-purge")

	if got := testutil.ToFloat64(m.success.WithLabelValues("item-expiry-scan")); got != 1 {
		t.Fatalf("expected success counter 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("invite-purge")); got != 1 {
		t.Fatalf("expected failure counter 1, got %v", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.ObserveDuration("job", time.Second)
	m.IncSuccess("job")
	m.IncFailure("job")

	empty := NewCronJobMetrics(nil)
	empty.ObserveDuration("", time.Second)
	empty.IncSuccess("")
	empty.IncFailure("")
}
