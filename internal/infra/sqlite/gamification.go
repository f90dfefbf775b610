package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/konekt-network/konekt/internal/domain"
)

// ─── Users & Stats ──────────────────────────────────────────────────────────

// EnsureUser creates an empty record for userID if none exists.
func (d *DB) EnsureUser(ctx context.Context, userID string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, created_at) VALUES (?, ?)`,
		userID, time.Now().Unix(),
	)
	return err
}

// GetStats returns a user's counters.
func (d *DB) GetStats(ctx context.Context, userID string) (domain.Stats, error) {
	var s domain.Stats
	err := d.db.QueryRowContext(ctx,
		`SELECT connections, messages, projects, events, profile_views FROM users WHERE id = ?`,
		userID,
	).Scan(&s.ConnectionsCount, &s.MessagesSent, &s.ProjectsCreated, &s.EventsAttended, &s.ProfileViews)
	if errors.Is(err, sql.ErrNoRows) {
		return s, domain.ErrUserNotFound
	}
	return s, err
}

// IncrementStat adds delta to one counter and returns the new stats.
func (d *DB) IncrementStat(ctx context.Context, userID string, metric domain.Metric, delta int64) (domain.Stats, error) {
	col, ok := metricColumn(metric)
	if !ok {
		return domain.Stats{}, domain.ErrUnknownMetric
	}
	if delta > domain.MaxStatValue {
		return domain.Stats{}, domain.ErrStatOverflow
	}

	// col comes from a fixed whitelist, never from input. The guard keeps
	// the column an INTEGER within MaxStatValue.
	result, err := d.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %[1]s = %[1]s + ? WHERE id = ? AND %[1]s <= ? - ?`, col),
		delta, userID, domain.MaxStatValue, delta,
	)
	if err != nil {
		return domain.Stats{}, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := d.GetStats(ctx, userID); err != nil {
			return domain.Stats{}, err
		}
		return domain.Stats{}, domain.ErrStatOverflow
	}
	return d.GetStats(ctx, userID)
}

// SetStats overwrites all counters (fixtures and imports).
func (d *DB) SetStats(ctx context.Context, userID string, s domain.Stats) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE users SET connections = ?, messages = ?, projects = ?, events = ?, profile_views = ?
		 WHERE id = ?`,
		s.ConnectionsCount, s.MessagesSent, s.ProjectsCreated, s.EventsAttended, s.ProfileViews, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListUserIDs returns all known users in ascending order.
func (d *DB) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func metricColumn(m domain.Metric) (string, bool) {
	switch m {
	case domain.MetricConnections:
		return "connections", true
	case domain.MetricMessages:
		return "messages", true
	case domain.MetricProjects:
		return "projects", true
	case domain.MetricEvents:
		return "events", true
	case domain.MetricProfileViews:
		return "profile_views", true
	}
	return "", false
}

// ─── Flags & Level ──────────────────────────────────────────────────────────

// GetFlags returns a user's flags.
func (d *DB) GetFlags(ctx context.Context, userID string) (domain.Flags, error) {
	var f domain.Flags
	err := d.db.QueryRowContext(ctx,
		`SELECT early_adopter, profile_complete FROM users WHERE id = ?`, userID,
	).Scan(&f.EarlyAdopter, &f.ProfileComplete)
	if errors.Is(err, sql.ErrNoRows) {
		return f, domain.ErrUserNotFound
	}
	return f, err
}

// SetFlags replaces a user's flags.
func (d *DB) SetFlags(ctx context.Context, userID string, f domain.Flags) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE users SET early_adopter = ?, profile_complete = ? WHERE id = ?`,
		f.EarlyAdopter, f.ProfileComplete, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// LastLevel returns the highest level the user has reached.
func (d *DB) LastLevel(ctx context.Context, userID string) (int, error) {
	var level int
	err := d.db.QueryRowContext(ctx, `SELECT last_level FROM users WHERE id = ?`, userID).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	return level, err
}

// RaiseLastLevel stores level if it is above the highest level reached so
// far and reports whether it was. Concurrent callers raise a level once.
func (d *DB) RaiseLastLevel(ctx context.Context, userID string, level int) (bool, error) {
	result, err := d.db.ExecContext(ctx,
		`UPDATE users SET last_level = ? WHERE id = ? AND last_level < ?`, level, userID, level,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// ─── Logins ─────────────────────────────────────────────────────────────────

// AddLogin records a login on day's calendar day. Idempotent per day.
func (d *DB) AddLogin(ctx context.Context, userID string, day time.Time) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO logins (user_id, day) VALUES (?, ?)`,
		userID, day.Format(domain.DayFormat),
	)
	return err
}

// LoginHistory returns login days in ascending order as local midnights.
func (d *DB) LoginHistory(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT day FROM logins WHERE user_id = ? ORDER BY day ASC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		t, err := time.ParseInLocation(domain.DayFormat, s, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse login day %q: %w", s, err)
		}
		days = append(days, t)
	}
	return days, rows.Err()
}

// ─── Achievements ───────────────────────────────────────────────────────────

// SaveUnlocks records unlocks and returns the IDs that were not stored
// before. Existing records keep their original timestamp.
func (d *DB) SaveUnlocks(ctx context.Context, userID string, unlocks []domain.UnlockRecord) ([]string, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var inserted []string
	for _, u := range unlocks {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO achievement_unlocks (user_id, achievement_id, unlocked_at) VALUES (?, ?, ?)`,
			userID, u.ID, u.UnlockedAt.Unix(),
		)
		if err != nil {
			return nil, fmt.Errorf("unlock %s: %w", u.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, err
		} else if n > 0 {
			inserted = append(inserted, u.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// ListUnlocks returns a user's unlocks, oldest first.
func (d *DB) ListUnlocks(ctx context.Context, userID string) ([]domain.UnlockRecord, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT achievement_id, unlocked_at FROM achievement_unlocks
		 WHERE user_id = ? ORDER BY unlocked_at ASC, achievement_id ASC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []domain.UnlockRecord
	for rows.Next() {
		var u domain.UnlockRecord
		var at int64
		if err := rows.Scan(&u.ID, &at); err != nil {
			return nil, err
		}
		u.UnlockedAt = time.Unix(at, 0)
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

// ─── Daily Challenges ───────────────────────────────────────────────────────

// GetChallengeSet returns the stored set, or nil when none exists.
func (d *DB) GetChallengeSet(ctx context.Context, userID string) (*domain.ChallengeSet, error) {
	var set domain.ChallengeSet
	var expiresAt int64
	var payload string
	err := d.db.QueryRowContext(ctx,
		`SELECT day, expires_at, challenges FROM challenge_sets WHERE user_id = ?`, userID,
	).Scan(&set.Day, &expiresAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &set.Challenges); err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}
	set.ExpiresAt = time.Unix(expiresAt, 0)
	return &set, nil
}

// SaveChallengeSet replaces the user's stored set.
func (d *DB) SaveChallengeSet(ctx context.Context, userID string, set domain.ChallengeSet) error {
	payload, err := json.Marshal(set.Challenges)
	if err != nil {
		return fmt.Errorf("encode challenges: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO challenge_sets (user_id, day, expires_at, challenges) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			day=excluded.day,
			expires_at=excluded.expires_at,
			challenges=excluded.challenges`,
		userID, set.Day, set.ExpiresAt.Unix(), string(payload),
	)
	return err
}

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification.
func (d *DB) InsertNotification(ctx context.Context, n domain.Notification) (int64, error) {
	result, err := d.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// NotificationCountSince counts a user's notifications created at or after since.
func (d *DB) NotificationCountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND created_at >= ?`,
		userID, since.Unix(),
	).Scan(&count)
	return count, err
}

// ListPendingNotifications returns a user's unshown notifications, newest first.
func (d *DB) ListPendingNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, body, created_at, shown
		 FROM notifications WHERE user_id = ? AND shown = 0
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifs = append(notifs, *n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a user's notification as shown.
func (d *DB) MarkNotificationShown(ctx context.Context, userID string, id int64) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE notifications SET shown = 1 WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func scanNotification(s scanner) (*domain.Notification, error) {
	var n domain.Notification
	var createdAt int64
	if err := s.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &createdAt, &n.Shown); err != nil {
		return nil, err
	}
	n.CreatedAt = time.Unix(createdAt, 0)
	return &n, nil
}
