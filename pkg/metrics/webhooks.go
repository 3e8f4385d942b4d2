package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records provider callback processing outcomes.
type WebhookMetrics struct {
	duration  *prometheus.HistogramVec
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	ignored   *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_duration_seconds",
		Help:    "Duration of webhook processing in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_processed",
		Help: "Webhook events that mutated payment state.",
	}, []string{"provider", "event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_failed",
		Help: "Webhook events that ended in an error response.",
	}, []string{"provider"})
	ignored := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_ignored",
		Help: "Webhook events acknowledged without mutation.",
	}, []string{"provider", "event_type"})
	reg.MustRegister(duration, processed, failed, ignored)
	return &WebhookMetrics{
		duration:  duration,
		processed: processed,
		failed:    failed,
		ignored:   ignored,
	}
}

// ObserveDuration records the processing duration for the named provider.
func (m *WebhookMetrics) ObserveDuration(provider string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(provider)).Observe(duration.Seconds())
}

// IncProcessed increments the processed counter for a provider/event pair.
func (m *WebhookMetrics) IncProcessed(provider, eventType string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(normalizeLabel(provider), normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failure counter for the named provider.
func (m *WebhookMetrics) IncFailed(provider string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncIgnored increments the ignored counter for a provider/event pair.
func (m *WebhookMetrics) IncIgnored(provider, eventType string) {
	if m == nil || m.ignored == nil {
		return
	}
	m.ignored.WithLabelValues(normalizeLabel(provider), normalizeLabel(eventType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
