// Package metrics provides Prometheus metrics for Konekt.
// Counters, gauges and histograms for snapshots, activity, unlocks and
// registrations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Snapshots ──────────────────────────────────────────────────────────────

// SnapshotsComputed tracks gamification snapshots derived from storage.
var SnapshotsComputed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "snapshots_computed_total",
	Help:      "Total gamification snapshots computed.",
})

// SnapshotLatency tracks snapshot computation time including storage reads.
var SnapshotLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "konekt",
	Name:      "snapshot_latency_seconds",
	Help:      "Snapshot computation duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
})

// SnapshotCache tracks snapshot cache lookups by result.
var SnapshotCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "snapshot_cache_total",
	Help:      "Snapshot cache lookups by result (hit, miss).",
}, []string{"result"})

// ─── Activity ───────────────────────────────────────────────────────────────

// ActivityRecorded tracks stat increments by metric.
var ActivityRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "activity_recorded_total",
	Help:      "Total stat units recorded per metric.",
}, []string{"metric"})

// LoginsRecorded tracks recorded login days.
var LoginsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "logins_recorded_total",
	Help:      "Total login events recorded.",
})

// ─── Progression ────────────────────────────────────────────────────────────

// AchievementsUnlocked tracks unlocks by rarity.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked by rarity.",
}, []string{"rarity"})

// LevelUps tracks level transitions observed by snapshots.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "level_ups_total",
	Help:      "Total level-ups observed.",
})

// ChallengesCompleted tracks completed daily challenges by task.
var ChallengesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "challenges_completed_total",
	Help:      "Total daily challenges completed by task.",
}, []string{"task"})

// ─── Registration ───────────────────────────────────────────────────────────

// RegistrationSteps tracks accepted wizard steps by stage.
var RegistrationSteps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "registration_steps_total",
	Help:      "Total accepted registration steps by stage.",
}, []string{"stage"})

// RegistrationsCompleted tracks finished registrations.
var RegistrationsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "konekt",
	Name:      "registrations_completed_total",
	Help:      "Total completed registrations.",
})
