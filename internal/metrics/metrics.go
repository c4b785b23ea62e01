package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Set struct {
	received    *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	downgrades  *prometheus.CounterVec
}

var (
	once     sync.Once
	registry *Set
)

// Default returns the process-wide webhook metric set, registering it on
// first use.
func Default() *Set {
	once.Do(func() {
		registry = &Set{
			received: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paygate",
				Subsystem: "webhook",
				Name:      "received_total",
				Help:      "Total webhook deliveries received, per vendor.",
			}, []string{"vendor"}),
			rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paygate",
				Subsystem: "webhook",
				Name:      "rejected_total",
				Help:      "Total webhook deliveries rejected before any state change.",
			}, []string{"vendor", "reason"}),
			transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paygate",
				Subsystem: "payment",
				Name:      "status_transitions_total",
				Help:      "Total status values applied to payment records.",
			}, []string{"status"}),
			downgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "paygate",
				Subsystem: "payment",
				Name:      "downgrades_blocked_total",
				Help:      "Total stale failure-class updates ignored on paid records.",
			}, []string{"vendor"}),
		}
		prometheus.MustRegister(
			registry.received,
			registry.rejected,
			registry.transitions,
			registry.downgrades,
		)
	})
	return registry
}

func (s *Set) WebhookReceived(vendor string) {
	s.received.WithLabelValues(vendor).Inc()
}

func (s *Set) WebhookRejected(vendor, reason string) {
	s.rejected.WithLabelValues(vendor, reason).Inc()
}

func (s *Set) StatusApplied(status string) {
	s.transitions.WithLabelValues(status).Inc()
}

func (s *Set) DowngradeBlocked(vendor string) {
	s.downgrades.WithLabelValues(vendor).Inc()
}
