// Package metrics holds the Prometheus collectors of the ledger service.
// Collectors register on the default registry, served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── RPC ────────────────────────────────────────────────────────────────────

// RPCDuration observes every unary RPC by procedure and Connect code.
var RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "lessmo",
	Subsystem: "rpc",
	Name:      "duration_seconds",
	Help:      "Duration of unary RPCs.",
	Buckets:   prometheus.DefBuckets,
}, []string{"procedure", "code"})

// ─── Ledger ─────────────────────────────────────────────────────────────────

// BalanceRecomputations counts ledger recomputations by result
// ("ok", "invalid", "inconsistent", "error").
var BalanceRecomputations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lessmo",
	Subsystem: "ledger",
	Name:      "balance_recomputations_total",
	Help:      "Balance recomputations from the expense ledger.",
}, []string{"result"})

// SettlementTransactions observes how many transfers an optimized plan needs.
var SettlementTransactions = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "lessmo",
	Subsystem: "ledger",
	Name:      "settlement_transactions",
	Help:      "Number of transactions in computed settlement plans.",
	Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
})

// CachedBalanceDrift counts participants whose cached balance disagreed with
// the recomputed one and had to be rewritten.
var CachedBalanceDrift = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lessmo",
	Subsystem: "ledger",
	Name:      "cached_balance_drift_total",
	Help:      "Cached participant balances rewritten after recomputation.",
})

// Recomputation results.
const (
	ResultOK           = "ok"
	ResultInvalid      = "invalid"
	ResultInconsistent = "inconsistent"
	ResultError        = "error"
)
