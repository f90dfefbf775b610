package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/konekt-network/konekt/internal/domain"
)

// NotificationService manages gamification notifications.
//   - At most MaxPerDay notifications per user per local day
//   - None between QuietStart and QuietEnd
//   - Only for: achievement unlocked, level up, daily challenge completed
type NotificationService struct {
	store  domain.NotificationStore
	policy domain.NotificationPolicy
}

// NewNotificationService creates a notification service with default policy.
func NewNotificationService(store domain.NotificationStore) *NotificationService {
	return &NotificationService{
		store:  store,
		policy: domain.DefaultNotificationPolicy(),
	}
}

// NewNotificationServiceWithPolicy creates a notification service with custom policy.
func NewNotificationServiceWithPolicy(store domain.NotificationStore, policy domain.NotificationPolicy) *NotificationService {
	return &NotificationService{store: store, policy: policy}
}

// Create stores a notification if policy allows it.
// Returns the notification ID (0 if suppressed by policy) and any error.
func (n *NotificationService) Create(ctx context.Context, notif domain.Notification) (int64, error) {
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	if n.isQuietHour(notif.CreatedAt) {
		return 0, nil
	}

	dayStart := civilDay(notif.CreatedAt, notif.CreatedAt.Location())
	count, err := n.store.NotificationCountSince(ctx, notif.UserID, dayStart)
	if err != nil {
		return 0, fmt.Errorf("count today: %w", err)
	}
	if count >= n.policy.MaxPerDay {
		return 0, nil
	}

	notif.Shown = false
	id, err := n.store.InsertNotification(ctx, notif)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// Pending returns a user's unshown notifications.
func (n *NotificationService) Pending(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return n.store.ListPendingNotifications(ctx, userID, limit)
}

// MarkShown marks a notification as shown.
func (n *NotificationService) MarkShown(ctx context.Context, userID string, id int64) error {
	return n.store.MarkNotificationShown(ctx, userID, id)
}

// Policy returns the current notification policy.
func (n *NotificationService) Policy() domain.NotificationPolicy {
	return n.policy
}

func achievementNotification(userID string, a domain.Achievement, at time.Time) domain.Notification {
	return domain.Notification{
		UserID:    userID,
		Type:      domain.NotifyAchievement,
		Title:     fmt.Sprintf("%s %s unlocked", a.Icon, a.Title),
		Body:      a.Description,
		CreatedAt: at,
	}
}

func levelUpNotification(userID string, l domain.Level, at time.Time) domain.Notification {
	return domain.Notification{
		UserID:    userID,
		Type:      domain.NotifyLevelUp,
		Title:     fmt.Sprintf("Level %d reached", l.Level),
		Body:      fmt.Sprintf("You are now a %s. %d XP to the next level.", l.Title, l.XPToNextLevel),
		CreatedAt: at,
	}
}

func challengeNotification(userID string, c domain.DailyChallenge, at time.Time) domain.Notification {
	return domain.Notification{
		UserID:    userID,
		Type:      domain.NotifyChallengeComplete,
		Title:     "Daily challenge complete",
		Body:      c.Description,
		CreatedAt: at,
	}
}

// isQuietHour returns true if the given time falls within quiet hours.
// Unset or malformed bounds disable quiet hours.
func (n *NotificationService) isQuietHour(t time.Time) bool {
	startMinutes, err := domain.ParseClock(n.policy.QuietStart)
	if err != nil {
		return false
	}
	endMinutes, err := domain.ParseClock(n.policy.QuietEnd)
	if err != nil {
		return false
	}
	timeMinutes := t.Hour()*60 + t.Minute()

	if startMinutes == endMinutes {
		return false
	}
	if startMinutes > endMinutes {
		// Wraps midnight: e.g., 22:00 – 08:00
		return timeMinutes >= startMinutes || timeMinutes < endMinutes
	}
	return timeMinutes >= startMinutes && timeMinutes < endMinutes
}
