// Package domain holds the Konekt gamification types.
// Stats are the durable record; levels, achievements, streaks and daily
// challenges are derived views recomputed from them.
package domain

import "time"

// ─── Stats ──────────────────────────────────────────────────────────────────

// Metric names a single stat counter.
type Metric string

const (
	MetricConnections  Metric = "connections"
	MetricMessages     Metric = "messages"
	MetricProjects     Metric = "projects"
	MetricEvents       Metric = "events"
	MetricProfileViews Metric = "profile_views"
)

// AllMetrics lists every stat counter in display order.
func AllMetrics() []Metric {
	return []Metric{MetricConnections, MetricMessages, MetricProjects, MetricEvents, MetricProfileViews}
}

// Valid reports whether m names a known counter.
func (m Metric) Valid() bool {
	for _, known := range AllMetrics() {
		if m == known {
			return true
		}
	}
	return false
}

// MaxStatValue bounds every stat counter.
const MaxStatValue int64 = 1_000_000_000_000

// MaxXP caps total XP. Level thresholds up to MaxXP fit in an int64.
const MaxXP int64 = 1 << 62

// Stats are a user's raw activity counters. Monotonically non-decreasing,
// each within [0, MaxStatValue].
type Stats struct {
	ConnectionsCount int64 `json:"connections_count" toml:"connections" validate:"gte=0,lte=1000000000000"`
	MessagesSent     int64 `json:"messages_sent" toml:"messages" validate:"gte=0,lte=1000000000000"`
	ProjectsCreated  int64 `json:"projects_created" toml:"projects" validate:"gte=0,lte=1000000000000"`
	EventsAttended   int64 `json:"events_attended" toml:"events" validate:"gte=0,lte=1000000000000"`
	ProfileViews     int64 `json:"profile_views" toml:"profile_views" validate:"gte=0,lte=1000000000000"`
}

// Value returns the counter tracked by m (0 for unknown metrics).
func (s Stats) Value(m Metric) int64 {
	switch m {
	case MetricConnections:
		return s.ConnectionsCount
	case MetricMessages:
		return s.MessagesSent
	case MetricProjects:
		return s.ProjectsCreated
	case MetricEvents:
		return s.EventsAttended
	case MetricProfileViews:
		return s.ProfileViews
	}
	return 0
}

// With returns a copy of s with delta added to the counter tracked by m.
func (s Stats) With(m Metric, delta int64) Stats {
	switch m {
	case MetricConnections:
		s.ConnectionsCount += delta
	case MetricMessages:
		s.MessagesSent += delta
	case MetricProjects:
		s.ProjectsCreated += delta
	case MetricEvents:
		s.EventsAttended += delta
	case MetricProfileViews:
		s.ProfileViews += delta
	}
	return s
}

// Flags are boolean facts about a user that feed flat XP bonuses and
// flag-triggered achievements.
type Flags struct {
	EarlyAdopter    bool `json:"early_adopter"`
	ProfileComplete bool `json:"profile_complete"`
}

// ─── Level ──────────────────────────────────────────────────────────────────

// Level is the user's level derived from total XP.
// Invariant: (Level-1)^2*100 <= XP < Level^2*100.
type Level struct {
	Level         int    `json:"level"`
	XP            int64  `json:"xp"`
	XPToNextLevel int64  `json:"xp_to_next_level"`
	Title         string `json:"title"`
}

// ─── Achievements ───────────────────────────────────────────────────────────

// Rarity grades how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Trigger names an external fact that unlocks a target-less achievement.
type Trigger string

const (
	TriggerNone            Trigger = ""
	TriggerEarlyAdopter    Trigger = "early_adopter"
	TriggerProfileComplete Trigger = "profile_complete"
)

// Achievement is a catalog entry merged with the user's progress on it.
// Target and Progress are nil for flag-triggered achievements.
// Invariant: 0 <= *Progress <= *Target; Unlocked implies *Progress == *Target.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Rarity      Rarity     `json:"rarity"`
	Metric      Metric     `json:"metric,omitempty"`
	Trigger     Trigger    `json:"trigger,omitempty"`
	Unlocked    bool       `json:"unlocked"`
	Progress    *int64     `json:"progress,omitempty"`
	Target      *int64     `json:"target,omitempty"`
	XPReward    int64      `json:"xp_reward"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// HasTarget reports whether progress toward this achievement is numeric.
func (a Achievement) HasTarget() bool {
	return a.Target != nil
}

// ProgressPct returns completion percentage (0-100).
func (a Achievement) ProgressPct() float64 {
	if a.Unlocked {
		return 100.0
	}
	if a.Target == nil || a.Progress == nil || *a.Target <= 0 {
		return 0
	}
	return float64(*a.Progress) / float64(*a.Target) * 100.0
}

// UnlockRecord is a persisted achievement unlock.
type UnlockRecord struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ─── Streak ─────────────────────────────────────────────────────────────────

// Streak is derived from login history.
// Invariant: Longest >= Current >= 0.
type Streak struct {
	Current       int         `json:"current"`
	Longest       int         `json:"longest"`
	LastLoginDate time.Time   `json:"last_login_date"`
	LoginHistory  []time.Time `json:"login_history"`
}

// ─── Daily Challenges ───────────────────────────────────────────────────────

// DailyChallenge is one task of the day.
// Invariant: Completed <=> Progress >= Target.
type DailyChallenge struct {
	ID          string `json:"id"`
	Task        string `json:"task"`
	Description string `json:"description"`
	Metric      Metric `json:"metric"`
	Progress    int64  `json:"progress"`
	Target      int64  `json:"target"`
	XPReward    int64  `json:"xp_reward"`
	Completed   bool   `json:"completed"`
}

// ProgressPct returns completion percentage (0-100).
func (c DailyChallenge) ProgressPct() float64 {
	if c.Target <= 0 {
		return 100.0
	}
	pct := float64(c.Progress) / float64(c.Target) * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}

// ChallengeTemplate is a catalog entry for daily challenges.
type ChallengeTemplate struct {
	Task        string `json:"task"`
	Description string `json:"description"`
	Metric      Metric `json:"metric"`
	Target      int64  `json:"target"`
	XPReward    int64  `json:"xp_reward"`
}

// ChallengeSet is the list of challenges generated for one calendar day.
// It expires at the next local midnight and is never reused afterwards.
type ChallengeSet struct {
	Day        string           `json:"day"` // "2006-01-02"
	ExpiresAt  time.Time        `json:"expires_at"`
	Challenges []DailyChallenge `json:"challenges"`
}

// DayFormat is the calendar-day layout used for persisted dates.
const DayFormat = "2006-01-02"

// ValidOn reports whether the set belongs to t's calendar day.
func (s ChallengeSet) ValidOn(t time.Time) bool {
	return s.Day != "" && s.Day == t.Format(DayFormat)
}

// ─── Aggregate ──────────────────────────────────────────────────────────────

// UserGamification is an immutable snapshot derived from Stats.
// A new snapshot is produced whenever stats change.
type UserGamification struct {
	Stats           Stats            `json:"stats"`
	Flags           Flags            `json:"flags"`
	Level           Level            `json:"level"`
	Achievements    []Achievement    `json:"achievements"`
	Streak          Streak           `json:"streak"`
	DailyChallenges []DailyChallenge `json:"daily_challenges"`
}

// UnlockedCount returns how many achievements are unlocked.
func (g UserGamification) UnlockedCount() int {
	n := 0
	for _, a := range g.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	XP     int64  `json:"xp"`
	Level  int    `json:"level"`
	Title  string `json:"title"`
}
