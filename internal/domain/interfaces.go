package domain

import (
	"context"
	"time"
)

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// GamificationStore persists the durable gamification record: stats,
// login days, flags, achievement unlocks and the current challenge set.
type GamificationStore interface {
	// EnsureUser creates an empty record for userID if none exists.
	EnsureUser(ctx context.Context, userID string) error

	// GetStats returns ErrUserNotFound for unknown users.
	GetStats(ctx context.Context, userID string) (Stats, error)

	// IncrementStat adds delta to one counter and returns the new stats.
	// Returns ErrStatOverflow when the counter would exceed MaxStatValue.
	IncrementStat(ctx context.Context, userID string, metric Metric, delta int64) (Stats, error)

	// AddLogin records a login on the given calendar day. Idempotent per day.
	AddLogin(ctx context.Context, userID string, day time.Time) error

	// LoginHistory returns every recorded login day in ascending order.
	LoginHistory(ctx context.Context, userID string) ([]time.Time, error)

	GetFlags(ctx context.Context, userID string) (Flags, error)
	SetFlags(ctx context.Context, userID string, flags Flags) error

	// LastLevel is the highest level reached (1 for new users).
	LastLevel(ctx context.Context, userID string) (int, error)
	// RaiseLastLevel stores level when it exceeds LastLevel and reports
	// whether it did.
	RaiseLastLevel(ctx context.Context, userID string, level int) (bool, error)

	// SaveUnlocks records unlocks and returns the IDs stored for the first
	// time. Existing records keep their timestamp.
	SaveUnlocks(ctx context.Context, userID string, unlocks []UnlockRecord) ([]string, error)
	ListUnlocks(ctx context.Context, userID string) ([]UnlockRecord, error)

	// GetChallengeSet returns nil when no set has been stored.
	GetChallengeSet(ctx context.Context, userID string) (*ChallengeSet, error)
	SaveChallengeSet(ctx context.Context, userID string, set ChallengeSet) error

	// ListUserIDs returns all known users in ascending order.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// DraftStore persists registration drafts. It replaces ambient auto-save
// state with an explicit load/save contract.
type DraftStore interface {
	// LoadDraft returns ErrDraftNotFound for unknown IDs.
	LoadDraft(ctx context.Context, id string) (Draft, error)
	SaveDraft(ctx context.Context, draft Draft) error
}

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	InsertNotification(ctx context.Context, n Notification) (int64, error)

	// NotificationCountSince counts a user's notifications created at or after since.
	NotificationCountSince(ctx context.Context, userID string, since time.Time) (int, error)

	ListPendingNotifications(ctx context.Context, userID string, limit int) ([]Notification, error)
	// MarkNotificationShown returns ErrNotificationNotFound when userID has
	// no notification with that id.
	MarkNotificationShown(ctx context.Context, userID string, id int64) error
}
