// Package metrics exposes the ledger's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds every ledger collector plus the Go runtime collectors.
	Registry = prometheus.NewRegistry()

	TransactionsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinewallet",
		Subsystem: "ledger",
		Name:      "transactions_recorded_total",
		Help:      "Transactions written to the ledger, by kind and owner type.",
	}, []string{"kind", "owner_type"})

	TransactionsArchived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinewallet",
		Subsystem: "ledger",
		Name:      "transactions_archived_total",
		Help:      "Transactions reversed by archiving, by kind.",
	}, []string{"kind"})

	Settlements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dinewallet",
		Subsystem: "ledger",
		Name:      "settlements_total",
		Help:      "Settlement decisions taken for reservations, by action.",
	}, []string{"action"})

	ConsistencyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dinewallet",
		Subsystem: "ledger",
		Name:      "consistency_failures_total",
		Help:      "Atomic units aborted because a stored balance disagreed with the written final balance.",
	})

	ReconciliationMismatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dinewallet",
		Subsystem: "ledger",
		Name:      "reconciliation_mismatched_wallets",
		Help:      "Wallets whose balance differs from the sum of their active transactions at the last reconciliation run.",
	})

	InvoicesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dinewallet",
		Subsystem: "billing",
		Name:      "invoices_created_total",
		Help:      "Invoices persisted for restaurants.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		TransactionsRecorded,
		TransactionsArchived,
		Settlements,
		ConsistencyFailures,
		ReconciliationMismatches,
		InvoicesCreated,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
