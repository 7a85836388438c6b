package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records reconciliation runs and upstream API calls.
type StorefrontMetrics struct {
	reconcileDuration *prometheus.HistogramVec
	reconcileOutcome  *prometheus.CounterVec
	upstreamCalls     *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_reconcile_duration_seconds",
		Help:    "Duration of pre-checkout stock reconciliation runs.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reconcile_total",
		Help: "Reconciliation runs by final state.",
	}, []string{"outcome"})
	upstream := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_api_requests_total",
		Help: "Upstream shop API requests by endpoint and result.",
	}, []string{"endpoint", "result"})
	reg.MustRegister(duration, outcome, upstream)
	return &StorefrontMetrics{
		reconcileDuration: duration,
		reconcileOutcome:  outcome,
		upstreamCalls:     upstream,
	}
}

// ObserveReconcile records one reconciliation run.
func (m *StorefrontMetrics) ObserveReconcile(outcome string, duration time.Duration) {
	if m == nil || m.reconcileDuration == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.reconcileDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.reconcileOutcome.WithLabelValues(label).Inc()
}

// IncUpstream counts one upstream call.
func (m *StorefrontMetrics) IncUpstream(endpoint, result string) {
	if m == nil || m.upstreamCalls == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
