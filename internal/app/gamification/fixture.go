package gamification

import (
	"time"

	"github.com/konekt-network/konekt/internal/domain"
)

// DemoStats are the counters of the showcase profile.
func DemoStats() domain.Stats {
	return domain.Stats{
		ConnectionsCount: 23,
		MessagesSent:     156,
		ProjectsCreated:  3,
		EventsAttended:   5,
		ProfileViews:     89,
	}
}

// DemoFlags are the flags of the showcase profile.
func DemoFlags() domain.Flags {
	return domain.Flags{EarlyAdopter: true, ProfileComplete: true}
}

// ConsecutiveLogins returns days consecutive login days ending at today.
// The streak is then derived from this history, never fabricated.
func ConsecutiveLogins(today time.Time, days int) []time.Time {
	end := civilDay(today, today.Location())
	history := make([]time.Time, 0, days)
	for i := days - 1; i >= 0; i-- {
		history = append(history, end.AddDate(0, 0, -i))
	}
	return history
}
