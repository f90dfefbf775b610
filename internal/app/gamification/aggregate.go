// Package gamification implements Konekt's scoring engine: XP and levels,
// achievement progress, login streaks and daily challenges.
//
// The functions in this package are pure: they derive a UserGamification
// snapshot from stats already loaded by the caller. Service adds storage,
// caching and metrics around them.
package gamification

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/konekt-network/konekt/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Weights are the XP awarded per stat unit and the flat bonuses.
type Weights struct {
	Connection      int64 `toml:"connection" json:"connection" validate:"gte=0"`
	Message         int64 `toml:"message" json:"message" validate:"gte=0"`
	Project         int64 `toml:"project" json:"project" validate:"gte=0"`
	Event           int64 `toml:"event" json:"event" validate:"gte=0"`
	ProfileView     int64 `toml:"profile_view" json:"profile_view" validate:"gte=0"`
	StreakDay       int64 `toml:"streak_day" json:"streak_day" validate:"gte=0"`
	ProfileComplete int64 `toml:"profile_complete" json:"profile_complete" validate:"gte=0"`
	EarlyAdopter    int64 `toml:"early_adopter" json:"early_adopter" validate:"gte=0"`
}

// DefaultWeights returns the standard Konekt XP table.
func DefaultWeights() Weights {
	return Weights{
		Connection:      20,
		Message:         5,
		Project:         30,
		Event:           25,
		ProfileView:     3,
		StreakDay:       10,
		ProfileComplete: 50,
		EarlyAdopter:    100,
	}
}

// IsZero reports whether no weight is set. Services treat zero Weights as
// DefaultWeights; configuration rejects an all-zero table.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate rejects negative weights and a table with every weight zero.
func (w Weights) Validate() error {
	if w.IsZero() {
		return fmt.Errorf("every weight is zero")
	}
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("negative weight: %w", err)
	}
	return nil
}

// TotalXP is the weighted sum of stat counters, streak days and flag bonuses.
// Negative terms contribute nothing and the sum saturates at domain.MaxXP.
func TotalXP(stats domain.Stats, streakDays int, flags domain.Flags, w Weights) int64 {
	xp := addXP(0, mulXP(stats.ConnectionsCount, w.Connection))
	xp = addXP(xp, mulXP(stats.MessagesSent, w.Message))
	xp = addXP(xp, mulXP(stats.ProjectsCreated, w.Project))
	xp = addXP(xp, mulXP(stats.EventsAttended, w.Event))
	xp = addXP(xp, mulXP(stats.ProfileViews, w.ProfileView))
	xp = addXP(xp, mulXP(int64(streakDays), w.StreakDay))
	if flags.ProfileComplete {
		xp = addXP(xp, w.ProfileComplete)
	}
	if flags.EarlyAdopter {
		xp = addXP(xp, w.EarlyAdopter)
	}
	return xp
}

func mulXP(n, weight int64) int64 {
	if n <= 0 || weight <= 0 {
		return 0
	}
	if n > domain.MaxXP/weight {
		return domain.MaxXP
	}
	return n * weight
}

func addXP(xp, term int64) int64 {
	if term <= 0 {
		return xp
	}
	if xp > domain.MaxXP-term {
		return domain.MaxXP
	}
	return xp + term
}

// ValidateStats rejects negative counters.
func ValidateStats(stats domain.Stats) error {
	if err := validate.Struct(stats); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidStats, err)
	}
	return nil
}

// Options are the non-stat inputs to GenerateUserGamification.
type Options struct {
	Flags        domain.Flags
	LoginHistory []time.Time

	// Today anchors streaks, challenges and unlock timestamps.
	// Zero means time.Now().
	Today time.Time

	// Achievements is the current achievement state. Nil means
	// DefaultCatalog(). Passing a prior snapshot's achievements keeps their
	// UnlockedAt.
	Achievements []domain.Achievement

	// Weights of zero value means DefaultWeights().
	Weights Weights

	// ChallengeSet is reused when it belongs to Today; otherwise a new set
	// is generated.
	ChallengeSet *domain.ChallengeSet
	Challenges   *ChallengeGenerator

	// Rand seeds demo challenge progress. Nil keeps the output deterministic.
	Rand Rand
}

// GenerateUserGamification derives the full snapshot for one user.
func GenerateUserGamification(stats domain.Stats, opts Options) (domain.UserGamification, error) {
	if err := ValidateStats(stats); err != nil {
		return domain.UserGamification{}, err
	}

	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	weights := opts.Weights
	if weights.IsZero() {
		weights = DefaultWeights()
	}
	catalog := opts.Achievements
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	streak := ComputeStreak(opts.LoginHistory, today)
	xp := TotalXP(stats, streak.Current, opts.Flags, weights)

	achievements := UpdateAchievementProgress(catalog, stats, today)
	achievements = ApplyTriggers(achievements, opts.Flags, today)

	var set domain.ChallengeSet
	if opts.ChallengeSet != nil && opts.ChallengeSet.ValidOn(today) {
		set = *opts.ChallengeSet
	} else {
		gen := opts.Challenges
		if gen == nil {
			gen = DefaultChallengeGenerator()
		}
		set = gen.Generate(today, opts.Rand)
	}
	challenges := make([]domain.DailyChallenge, len(set.Challenges))
	copy(challenges, set.Challenges)

	return domain.UserGamification{
		Stats:           stats,
		Flags:           opts.Flags,
		Level:           CalculateLevel(xp),
		Achievements:    achievements,
		Streak:          streak,
		DailyChallenges: challenges,
	}, nil
}
