package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestWebhookMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)
	m.ObserveInbound("new_booking", "success")
	m.ObserveInbound("cita_eliminada", "ignored")
	m.ObserveLatency("new_booking", 0.5)
	m.ObserveCalendarFailure()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(families))
	}
}

func TestWebhookMetricsNilSafe(t *testing.T) {
	var m *WebhookMetrics
	m.ObserveInbound("event", "outcome")
	m.ObserveLatency("event", 0.1)
	m.ObserveCalendarFailure()
}
