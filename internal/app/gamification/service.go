package gamification

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/konekt-network/konekt/internal/domain"
	"github.com/konekt-network/konekt/internal/infra/metrics"
	"github.com/konekt-network/konekt/internal/logger"
)

// ServiceConfig tunes a Service. Zero values fall back to defaults.
type ServiceConfig struct {
	Weights    Weights
	Challenges *ChallengeGenerator
	CacheSize  int
	CacheTTL   time.Duration

	// Notifications is optional; nil disables notifications.
	Notifications *NotificationService

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Service keeps stats durable and recomputes snapshots from them.
type Service struct {
	store         domain.GamificationStore
	weights       Weights
	challenges    *ChallengeGenerator
	notifications *NotificationService
	now           func() time.Time
	cache         *expirable.LRU[string, cachedSnapshot]

	// mu guards gens and orders cache fills after invalidations.
	mu   sync.Mutex
	gens map[string]uint64
}

type cachedSnapshot struct {
	day  string
	snap domain.UserGamification
}

// NewService creates a gamification service over store.
func NewService(store domain.GamificationStore, cfg ServiceConfig) *Service {
	if cfg.Weights.IsZero() {
		cfg.Weights = DefaultWeights()
	}
	if cfg.Challenges == nil {
		cfg.Challenges = DefaultChallengeGenerator()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Service{
		store:         store,
		weights:       cfg.Weights,
		challenges:    cfg.Challenges,
		notifications: cfg.Notifications,
		now:           cfg.Clock,
		cache:         expirable.NewLRU[string, cachedSnapshot](cfg.CacheSize, nil, cfg.CacheTTL),
		gens:          make(map[string]uint64),
	}
}

// Weights returns the XP weights in use.
func (s *Service) Weights() Weights {
	return s.weights
}

// Notifications returns the notification service (nil if disabled).
func (s *Service) Notifications() *NotificationService {
	return s.notifications
}

// RecordActivity adds delta to one stat counter and advances today's
// matching daily challenges. Returns the updated stats.
func (s *Service) RecordActivity(ctx context.Context, userID string, metric domain.Metric, delta int64) (domain.Stats, error) {
	if err := checkUserID(userID); err != nil {
		return domain.Stats{}, err
	}
	if !metric.Valid() {
		return domain.Stats{}, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, metric)
	}
	if delta <= 0 {
		return domain.Stats{}, fmt.Errorf("%w: got %d", domain.ErrInvalidDelta, delta)
	}
	if delta > domain.MaxStatValue {
		return domain.Stats{}, fmt.Errorf("%w: delta %d", domain.ErrStatOverflow, delta)
	}

	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return domain.Stats{}, fmt.Errorf("ensure user: %w", err)
	}
	stats, err := s.store.IncrementStat(ctx, userID, metric, delta)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("increment %s: %w", metric, err)
	}
	metrics.ActivityRecorded.WithLabelValues(string(metric)).Add(float64(delta))

	now := s.now()
	set, err := s.currentChallengeSet(ctx, userID, now)
	if err != nil {
		return domain.Stats{}, err
	}
	set, completed := AdvanceChallenges(set, metric, delta)
	if err := s.store.SaveChallengeSet(ctx, userID, set); err != nil {
		return domain.Stats{}, fmt.Errorf("save challenges: %w", err)
	}
	for _, c := range completed {
		metrics.ChallengesCompleted.WithLabelValues(c.Task).Inc()
		s.notify(ctx, challengeNotification(userID, c, now))
	}

	s.invalidate(userID)
	logger.FromContext(ctx).Debug("activity recorded",
		"user_id", userID, "metric", metric, "delta", delta, "challenges_completed", len(completed))
	return stats, nil
}

// RecordLogin records a login on at's calendar day.
func (s *Service) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	if at.IsZero() {
		at = s.now()
	}
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	if err := s.store.AddLogin(ctx, userID, at); err != nil {
		return fmt.Errorf("add login: %w", err)
	}
	metrics.LoginsRecorded.Inc()
	s.invalidate(userID)
	return nil
}

// SetFlags replaces the user's flags.
func (s *Service) SetFlags(ctx context.Context, userID string, flags domain.Flags) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	if err := s.store.SetFlags(ctx, userID, flags); err != nil {
		return fmt.Errorf("set flags: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// MarkProfileComplete sets the profile-complete flag, keeping other flags.
func (s *Service) MarkProfileComplete(ctx context.Context, userID string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	flags, err := s.store.GetFlags(ctx, userID)
	if err != nil {
		return fmt.Errorf("get flags: %w", err)
	}
	if flags.ProfileComplete {
		return nil
	}
	flags.ProfileComplete = true
	return s.SetFlags(ctx, userID, flags)
}

// Snapshot returns the user's current gamification snapshot. Newly unlocked
// achievements are persisted so their UnlockedAt stays stable.
func (s *Service) Snapshot(ctx context.Context, userID string) (domain.UserGamification, error) {
	if err := checkUserID(userID); err != nil {
		return domain.UserGamification{}, err
	}
	now := s.now()
	day := now.Format(domain.DayFormat)

	if c, ok := s.cache.Get(userID); ok && c.day == day {
		metrics.SnapshotCache.WithLabelValues("hit").Inc()
		return c.snap, nil
	}
	metrics.SnapshotCache.WithLabelValues("miss").Inc()
	gen := s.generation(userID)

	// The store keeps unlock times in whole seconds.
	now = now.Truncate(time.Second)

	start := time.Now()
	defer func() { metrics.SnapshotLatency.Observe(time.Since(start).Seconds()) }()

	stats, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return domain.UserGamification{}, fmt.Errorf("get stats: %w", err)
	}
	history, err := s.store.LoginHistory(ctx, userID)
	if err != nil {
		return domain.UserGamification{}, fmt.Errorf("login history: %w", err)
	}
	flags, err := s.store.GetFlags(ctx, userID)
	if err != nil {
		return domain.UserGamification{}, fmt.Errorf("get flags: %w", err)
	}
	unlocks, err := s.store.ListUnlocks(ctx, userID)
	if err != nil {
		return domain.UserGamification{}, fmt.Errorf("list unlocks: %w", err)
	}
	set, err := s.currentChallengeSet(ctx, userID, now)
	if err != nil {
		return domain.UserGamification{}, err
	}

	base := WithUnlocks(DefaultCatalog(), unlocks)
	snap, err := GenerateUserGamification(stats, Options{
		Flags:        flags,
		LoginHistory: history,
		Today:        now,
		Achievements: base,
		Weights:      s.weights,
		ChallengeSet: &set,
		Challenges:   s.challenges,
	})
	if err != nil {
		return domain.UserGamification{}, err
	}
	metrics.SnapshotsComputed.Inc()

	if err := s.recordProgress(ctx, userID, base, snap, now); err != nil {
		return domain.UserGamification{}, err
	}

	s.fill(userID, gen, cachedSnapshot{day: day, snap: snap})
	return snap, nil
}

// DailyChallenges returns today's challenge set, generating it if needed.
func (s *Service) DailyChallenges(ctx context.Context, userID string) (domain.ChallengeSet, error) {
	if err := checkUserID(userID); err != nil {
		return domain.ChallengeSet{}, err
	}
	if _, err := s.store.GetStats(ctx, userID); err != nil {
		return domain.ChallengeSet{}, fmt.Errorf("get stats: %w", err)
	}
	return s.currentChallengeSet(ctx, userID, s.now())
}

// Leaderboard ranks all users by total XP (descending, ties by user ID).
// limit <= 0 returns every user.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Snapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID: id,
			XP:     snap.Level.XP,
			Level:  snap.Level.Level,
			Title:  snap.Level.Title,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// currentChallengeSet loads the stored set, replacing it when it belongs to
// another day.
func (s *Service) currentChallengeSet(ctx context.Context, userID string, now time.Time) (domain.ChallengeSet, error) {
	stored, err := s.store.GetChallengeSet(ctx, userID)
	if err != nil {
		return domain.ChallengeSet{}, fmt.Errorf("get challenges: %w", err)
	}
	if stored != nil && stored.ValidOn(now) {
		return *stored, nil
	}

	set := s.challenges.Generate(now, nil)
	if err := s.store.SaveChallengeSet(ctx, userID, set); err != nil {
		return domain.ChallengeSet{}, fmt.Errorf("save challenges: %w", err)
	}
	return set, nil
}

// recordProgress persists new unlocks and the observed level, emitting
// metrics and notifications for each transition.
func (s *Service) recordProgress(ctx context.Context, userID string, before []domain.Achievement, snap domain.UserGamification, now time.Time) error {
	log := logger.FromContext(ctx)

	fresh := NewlyUnlocked(before, snap.Achievements)
	if len(fresh) > 0 {
		records := make([]domain.UnlockRecord, 0, len(fresh))
		for _, a := range fresh {
			records = append(records, domain.UnlockRecord{ID: a.ID, UnlockedAt: *a.UnlockedAt})
		}
		inserted, err := s.store.SaveUnlocks(ctx, userID, records)
		if err != nil {
			return fmt.Errorf("save unlocks: %w", err)
		}
		// A concurrent snapshot may have stored some of these first.
		for _, a := range fresh {
			if !slices.Contains(inserted, a.ID) {
				continue
			}
			metrics.AchievementsUnlocked.WithLabelValues(string(a.Rarity)).Inc()
			log.Info("achievement unlocked", "user_id", userID, "achievement", a.ID, "rarity", a.Rarity)
			s.notify(ctx, achievementNotification(userID, a, now))
		}
	}

	// last_level is the highest level ever reached, so dropping below it
	// and climbing back is not announced again.
	raised, err := s.store.RaiseLastLevel(ctx, userID, snap.Level.Level)
	if err != nil {
		return fmt.Errorf("save level: %w", err)
	}
	if raised {
		metrics.LevelUps.Inc()
		log.Info("level up", "user_id", userID, "to", snap.Level.Level, "xp", snap.Level.XP)
		s.notify(ctx, levelUpNotification(userID, snap.Level, now))
	}
	return nil
}

// invalidate drops the cached snapshot and bumps the user's generation so
// a snapshot computed before this write is never cached.
func (s *Service) invalidate(userID string) {
	s.mu.Lock()
	s.gens[userID]++
	s.cache.Remove(userID)
	s.mu.Unlock()
}

func (s *Service) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[userID]
}

// fill caches c unless a write landed since gen was read.
func (s *Service) fill(userID string, gen uint64, c cachedSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[userID] != gen {
		return
	}
	s.cache.Add(userID, c)
}

// notify delivers best-effort; failures are logged, not returned.
func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Create(ctx, n); err != nil {
		logger.FromContext(ctx).Warn("notification failed", "user_id", n.UserID, "type", n.Type, "error", err)
	}
}

func checkUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrInvalidUserID
	}
	return nil
}
