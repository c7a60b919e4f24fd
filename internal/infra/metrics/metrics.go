// Package metrics provides Prometheus metrics for lingo: XP awards, resource
// pools, allocation changes, draws, persistence fallbacks, HTTP and health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── XP & Levels ────────────────────────────────────────────────────────────

// XPAwarded tracks XP granted, by strategy ("ranked", "legacy", "manual").
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
}, []string{"strategy"})

// LevelUps counts level transitions.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "level_ups_total",
	Help:      "Total level-ups.",
})

// CurrentLevel tracks the learner's level.
var CurrentLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "lingo",
	Name:      "current_level",
	Help:      "Current level derived from cumulative XP.",
})

// SessionXP tracks XP per completed session.
var SessionXP = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "lingo",
	Name:      "session_xp",
	Help:      "XP awarded per completed session.",
	Buckets:   []float64{5, 10, 25, 50, 100, 200, 400, 800},
}, []string{"strategy"})

// ─── Resources ──────────────────────────────────────────────────────────────

// ResourceConsumed tracks spend attempts by pool and result ("ok", "empty").
var ResourceConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "resource_consumed_total",
	Help:      "Resource spend attempts by pool and result.",
}, []string{"pool", "result"})

// ResourceCurrent tracks the current value of each pool.
var ResourceCurrent = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "lingo",
	Name:      "resource_current",
	Help:      "Current units in each resource pool.",
}, []string{"pool"})

// ─── Allocation & Draws ─────────────────────────────────────────────────────

// AllocationUpdates tracks allocation changes by result ("ok", "rejected").
var AllocationUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "allocation_updates_total",
	Help:      "Status allocation updates by result.",
}, []string{"result"})

// RankDraws tracks question ranks drawn.
var RankDraws = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "rank_draws_total",
	Help:      "Question ranks drawn.",
}, []string{"rank"})

// SkillDraws tracks practice fields drawn.
var SkillDraws = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "skill_draws_total",
	Help:      "Skill fields drawn.",
}, []string{"field"})

// ─── Persistence ────────────────────────────────────────────────────────────

// SnapshotRestoreFallbacks counts restores that fell back to defaults.
var SnapshotRestoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "snapshot_restore_fallbacks_total",
	Help:      "Snapshot restores that replaced some or all fields with defaults.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// RequestLatency tracks API request duration in seconds.
var RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "lingo",
	Name:      "http_request_duration_seconds",
	Help:      "API request duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
}, []string{"method", "route", "status"})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "lingo",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})

// HealthRecoveries tracks auto-recovery attempts.
var HealthRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lingo",
	Name:      "health_recoveries_total",
	Help:      "Total auto-recovery attempts per check.",
}, []string{"check"})
