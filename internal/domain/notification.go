package domain

import (
	"fmt"
	"time"
)

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes notifications.
type NotificationType string

const (
	NotifyAchievement       NotificationType = "achievement"
	NotifyLevelUp           NotificationType = "level_up"
	NotifyChallengeComplete NotificationType = "challenge_complete"
)

// Notification is a user-facing message.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy governs how often notifications are sent.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day" toml:"max_per_day"`
	QuietStart string `json:"quiet_start" toml:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end" toml:"quiet_end"`     // "08:00"
}

// DefaultNotificationPolicy allows three notifications a day outside 22:00–08:00.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  3,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}

// Validate rejects a negative daily cap and malformed quiet hours. Quiet
// hours are either both empty (disabled) or both "HH:MM".
func (p NotificationPolicy) Validate() error {
	if p.MaxPerDay < 0 {
		return fmt.Errorf("max_per_day must be >= 0, got %d", p.MaxPerDay)
	}
	if (p.QuietStart == "") != (p.QuietEnd == "") {
		return fmt.Errorf("quiet_start and quiet_end must be set together")
	}
	if p.QuietStart == "" {
		return nil
	}
	if _, err := ParseClock(p.QuietStart); err != nil {
		return fmt.Errorf("quiet_start: %w", err)
	}
	if _, err := ParseClock(p.QuietEnd); err != nil {
		return fmt.Errorf("quiet_end: %w", err)
	}
	return nil
}

// ParseClock parses a 24-hour "HH:MM" time of day into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
