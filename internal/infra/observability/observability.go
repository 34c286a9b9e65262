// Package observability holds the Prometheus collectors for the economy
// engine. Collectors are package-level promauto vars registered against the
// default registry; the API server exposes them on /metrics when enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// TransactionsTotal counts ledger entries by kind (EARN or SPEND).
var TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pocketbank",
	Subsystem: "ledger",
	Name:      "transactions_total",
	Help:      "Total ledger entries appended, by kind.",
}, []string{"kind"})

// TokensMoved counts absolute token volume through the ledger by kind.
var TokensMoved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pocketbank",
	Subsystem: "ledger",
	Name:      "tokens_moved_total",
	Help:      "Total absolute token amount moved through the ledger, by kind.",
}, []string{"kind"})

// ─── Approval Pipeline Metrics ──────────────────────────────────────────────

// ApprovalsTotal counts approvals by pipeline (quiz or expense).
var ApprovalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pocketbank",
	Subsystem: "approvals",
	Name:      "approved_total",
	Help:      "Total approval decisions, by pipeline.",
}, []string{"pipeline"})

// RejectionsTotal counts rejections by pipeline.
var RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pocketbank",
	Subsystem: "approvals",
	Name:      "rejected_total",
	Help:      "Total rejection decisions, by pipeline.",
}, []string{"pipeline"})

// OpenApprovals tracks items currently awaiting an adult decision.
var OpenApprovals = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "pocketbank",
	Subsystem: "approvals",
	Name:      "open",
	Help:      "Items currently awaiting review, by pipeline.",
}, []string{"pipeline"})

// ─── Concurrency Metrics ────────────────────────────────────────────────────

// WriteConflicts counts mutations lost to a concurrent writer.
var WriteConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pocketbank",
	Subsystem: "store",
	Name:      "write_conflicts_total",
	Help:      "Total conditional writes that lost a race and were rolled back.",
})

// ─── Streak Metrics ─────────────────────────────────────────────────────────

// StreakExchanges counts completed streak-for-bonus exchanges.
var StreakExchanges = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pocketbank",
	Subsystem: "streak",
	Name:      "exchanges_total",
	Help:      "Total streak credits exchanged for a balance bonus.",
})

// PerfectWeeks counts recorded perfect weeks.
var PerfectWeeks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pocketbank",
	Subsystem: "streak",
	Name:      "perfect_weeks_total",
	Help:      "Total perfect weeks recorded across all accounts.",
})
