// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "budgetwise"

// Metrics groups every collector the server records. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	ledgerMutations *prometheus.CounterVec
	lockedMutations *prometheus.CounterVec
	aiFailures      *prometheus.CounterVec
	sessions        *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Total number of RPC requests by procedure and result code",
			},
			[]string{"procedure", "code"},
		),
		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "RPC handling latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"procedure"},
		),
		ledgerMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_mutations_total",
				Help:      "Total number of successful ledger writes by operation",
			},
			[]string{"operation"}, // add_transaction, delete_transaction, set_budget, add_category, import
		),
		lockedMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guest_locked_mutations_total",
				Help:      "Total number of mutations refused for guest sessions",
			},
			[]string{"operation"},
		),
		aiFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_failures_total",
				Help:      "Total number of generative AI calls that degraded to an empty result",
			},
			[]string{"flow"}, // categorize, receipt, suggestions
		),
		sessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_issued_total",
				Help:      "Total number of session cookies issued by kind",
			},
			[]string{"kind"}, // user, guest
		),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// LedgerMutation counts a successful ledger write.
func (m *Metrics) LedgerMutation(operation string) {
	if m == nil {
		return
	}
	m.ledgerMutations.WithLabelValues(operation).Inc()
}

// LockedMutation counts a write refused for a guest.
func (m *Metrics) LockedMutation(operation string) {
	if m == nil {
		return
	}
	m.lockedMutations.WithLabelValues(operation).Inc()
}

// AIFailure counts an AI call that degraded.
func (m *Metrics) AIFailure(flow string) {
	if m == nil {
		return
	}
	m.aiFailures.WithLabelValues(flow).Inc()
}

// SessionIssued counts a new session cookie.
func (m *Metrics) SessionIssued(guest bool) {
	if m == nil {
		return
	}
	kind := "user"
	if guest {
		kind = "guest"
	}
	m.sessions.WithLabelValues(kind).Inc()
}
