package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for the Nubimed webhook flows.
type WebhookMetrics struct {
	inboundTotal     *prometheus.CounterVec
	webhookLatency   *prometheus.HistogramVec
	calendarFailures prometheus.Counter
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nubimed",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound Nubimed webhooks",
		}, []string{"event", "outcome"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nubimed",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of Nubimed webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),
		calendarFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nubimed",
			Subsystem: "webhook",
			Name:      "calendar_sync_failures_total",
			Help:      "Calendar syncs that failed inside the webhook isolation boundary",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.webhookLatency, m.calendarFailures)
	return m
}

func (m *WebhookMetrics) ObserveInbound(event, outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(event, outcome).Inc()
}

func (m *WebhookMetrics) ObserveLatency(event string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(event).Observe(seconds)
}

func (m *WebhookMetrics) ObserveCalendarFailure() {
	if m == nil {
		return
	}
	m.calendarFailures.Inc()
}
