// Package metrics defines and registers the custom Prometheus metrics of the
// network service. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package initialisation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "network"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOpDuration measures entity store operations end to end, including
// the index round trips they trigger.
// Labels:
//   - entity: "user", "project", "collaboration", "task", "request"
//   - op: "create", "get", "update", "list", "search"
//   - outcome: "ok", "not_found", "error"
var StoreOpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_op_duration_seconds",
		Help:      "Duration of entity store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"entity", "op", "outcome"},
)

// IndexDriftTotal counts index members skipped because their entity is gone.
// Label:
//   - index: the index name (e.g. "tasks_by_project")
var IndexDriftTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_drift_total",
		Help:      "Index members that did not resolve to an entity at read time.",
	},
	[]string{"index"},
)

// UniqueConflictsTotal counts writes rejected by a unique user index.
var UniqueConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unique_conflicts_total",
		Help:      "Writes rejected because a unique value belongs to another user.",
	},
	[]string{"index"},
)

// ReconcileEvictedTotal counts entries removed by the index reconciler.
var ReconcileEvictedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_evicted_total",
		Help:      "Dangling index entries evicted by the reconciler.",
	},
	[]string{"index"},
)

// ── Match metrics ─────────────────────────────────────────────────────────────

// MatchesComputedTotal counts candidate scores produced by the match engine.
var MatchesComputedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_computed_total",
		Help:      "Total number of candidate match scores computed.",
	},
)

// MatchCacheLookupsTotal counts cache reads.
// Label:
//   - result: "hit" (at least one cached score) or "miss"
var MatchCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_cache_lookups_total",
		Help:      "Match cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ObserveStoreOp records the duration of a store operation started at start.
func ObserveStoreOp(entity, op, outcome string, start time.Time) {
	StoreOpDuration.WithLabelValues(entity, op, outcome).Observe(time.Since(start).Seconds())
}
