package gamification

import (
	"math"

	"github.com/konekt-network/konekt/internal/domain"
)

// XPForLevel returns the cumulative XP required to reach a given level.
// Quadratic curve: (level-1)^2 * 100.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return n * n * 100
}

// LevelForXP returns the greatest level whose threshold is <= xp.
// Negative XP is treated as 0.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	// (L-1)^2 <= xp/100 < L^2, and both bounds are integers, so flooring
	// xp/100 before the square root loses nothing.
	return int(isqrt(xp/100)) + 1
}

// CalculateLevel maps total XP to a level, the XP left until the next
// level, and the level's title. XP is clamped to [0, domain.MaxXP].
func CalculateLevel(xp int64) domain.Level {
	xp = min(max(xp, 0), domain.MaxXP)
	level := LevelForXP(xp)
	return domain.Level{
		Level:         level,
		XP:            xp,
		XPToNextLevel: XPForLevel(level+1) - xp,
		Title:         TitleForLevel(level),
	}
}

// ProgressPct returns progress percentage toward the next level (0.0–100.0).
func ProgressPct(l domain.Level) float64 {
	thisLevel := XPForLevel(l.Level)
	span := XPForLevel(l.Level+1) - thisLevel
	if span <= 0 {
		return 100.0
	}
	progress := float64(l.XP-thisLevel) / float64(span) * 100.0
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return progress
}

// levelTitles maps inclusive level ranges to display titles.
var levelTitles = []struct {
	maxLevel int
	title    string
}{
	{3, "Newcomer"},
	{10, "Builder"},
	{20, "Connector"},
	{35, "Influencer"},
	{50, "Visionary"},
}

// TitleForLevel returns the title for a level. Levels past the table are "Legend".
func TitleForLevel(level int) string {
	for _, t := range levelTitles {
		if level <= t.maxLevel {
			return t.title
		}
	}
	return "Legend"
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
