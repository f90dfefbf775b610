package cli

import (
	"fmt"
	"strings"

	"github.com/konekt-network/konekt/internal/app/gamification"
	"github.com/konekt-network/konekt/internal/domain"
)

// ─── Progress Bar ───────────────────────────────────────────────────────────
// Renders level and challenge progress in the terminal:
// [============>.................]  42%

const barWidth = 30 // Characters for the progress bar

func renderBar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	var bar string
	if filled == barWidth {
		bar = strings.Repeat("=", filled)
	} else if filled > 0 {
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", empty)
	} else {
		bar = strings.Repeat(".", barWidth)
	}
	return fmt.Sprintf("[%s] %3.0f%%", bar, pct)
}

// levelLine formats a level for display, e.g.
// "Level 5 Builder  [====>....]  44%  (508 XP to level 6)".
func levelLine(l domain.Level) string {
	return fmt.Sprintf("Level %d %s  %s  (%d XP to level %d)",
		l.Level, l.Title, renderBar(gamification.ProgressPct(l)), l.XPToNextLevel, l.Level+1)
}
