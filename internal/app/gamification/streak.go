package gamification

import (
	"sort"
	"time"

	"github.com/konekt-network/konekt/internal/domain"
)

// ComputeStreak derives the login streak from history as of today.
//
// Days are calendar days in today's location. Current is the run of
// consecutive days ending today, or ending yesterday when today's login has
// not been recorded yet; any older gap resets it to 0. Longest is the
// longest run anywhere in history. Days after today are ignored.
func ComputeStreak(history []time.Time, today time.Time) domain.Streak {
	loc := today.Location()
	todayDay := civilDay(today, loc)

	seen := make(map[time.Time]bool, len(history))
	days := make([]time.Time, 0, len(history))
	for _, t := range history {
		d := civilDay(t, loc)
		if d.After(todayDay) || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	streak := domain.Streak{LoginHistory: days}
	if len(days) == 0 {
		return streak
	}

	run := 0
	for i, d := range days {
		if i > 0 && nextDay(days[i-1]).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > streak.Longest {
			streak.Longest = run
		}
	}

	last := days[len(days)-1]
	streak.LastLoginDate = last
	if last.Equal(todayDay) || nextDay(last).Equal(todayDay) {
		streak.Current = run
	}
	return streak
}

// civilDay truncates t to midnight of its calendar day in loc.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// nextDay returns midnight of the following calendar day. AddDate keeps
// wall-clock midnight across DST changes.
func nextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}
