package gamification_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/konekt-network/konekt/internal/app/gamification"
	"github.com/konekt-network/konekt/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func findAchievement(t *testing.T, list []domain.Achievement, id string) domain.Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not found", id)
	return domain.Achievement{}
}

// ═══════════════════════════════════════════════════════════════════════════
// Level Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestCalculateLevel_Thresholds(t *testing.T) {
	tests := []struct {
		xp        int64
		level     int
		toNext    int64
		wantTitle string
	}{
		{0, 1, 100, "Newcomer"},
		{99, 1, 1, "Newcomer"},
		{100, 2, 300, "Newcomer"},
		{399, 2, 1, "Newcomer"},
		{400, 3, 500, "Newcomer"},
		{900, 4, 700, "Builder"},
		{1992, 5, 508, "Builder"},
		{8100, 10, 1900, "Builder"},
		{10000, 11, 2100, "Connector"},
		{240100, 50, 9900, "Visionary"},
		{250000, 51, 10100, "Legend"},
	}
	for _, tt := range tests {
		got := gamification.CalculateLevel(tt.xp)
		if got.Level != tt.level {
			t.Errorf("CalculateLevel(%d).Level = %d, want %d", tt.xp, got.Level, tt.level)
		}
		if got.XPToNextLevel != tt.toNext {
			t.Errorf("CalculateLevel(%d).XPToNextLevel = %d, want %d", tt.xp, got.XPToNextLevel, tt.toNext)
		}
		if got.Title != tt.wantTitle {
			t.Errorf("CalculateLevel(%d).Title = %q, want %q", tt.xp, got.Title, tt.wantTitle)
		}
		if got.XP != tt.xp {
			t.Errorf("CalculateLevel(%d).XP = %d", tt.xp, got.XP)
		}
	}
}

func TestCalculateLevel_Invariants(t *testing.T) {
	for xp := int64(0); xp <= 50_000; xp += 37 {
		l := gamification.CalculateLevel(xp)
		if gamification.XPForLevel(l.Level) > xp {
			t.Fatalf("xp %d: threshold(%d) = %d exceeds xp", xp, l.Level, gamification.XPForLevel(l.Level))
		}
		if l.XPToNextLevel <= 0 {
			t.Fatalf("xp %d: XPToNextLevel = %d, want > 0", xp, l.XPToNextLevel)
		}
		if l.XP+l.XPToNextLevel != gamification.XPForLevel(l.Level+1) {
			t.Fatalf("xp %d: xp + toNext != threshold(level+1)", xp)
		}
	}
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	prev := gamification.CalculateLevel(0).Level
	for xp := int64(1); xp <= 20_000; xp++ {
		l := gamification.CalculateLevel(xp).Level
		if l < prev {
			t.Fatalf("level decreased at xp %d: %d -> %d", xp, prev, l)
		}
		prev = l
	}
}

func TestCalculateLevel_NegativeClamped(t *testing.T) {
	l := gamification.CalculateLevel(-250)
	if l.Level != 1 || l.XP != 0 || l.XPToNextLevel != 100 {
		t.Errorf("CalculateLevel(-250) = %+v, want level 1 with 0 XP", l)
	}
}

func TestCalculateLevel_HugeXPClamped(t *testing.T) {
	l := gamification.CalculateLevel(math.MaxInt64)
	if l.XP != domain.MaxXP {
		t.Errorf("XP = %d, want clamp to %d", l.XP, domain.MaxXP)
	}
	if l.XPToNextLevel <= 0 {
		t.Errorf("XPToNextLevel = %d, want positive", l.XPToNextLevel)
	}
	if l.Title != "Legend" {
		t.Errorf("Title = %q, want Legend", l.Title)
	}
	if gamification.XPForLevel(l.Level) > l.XP {
		t.Errorf("threshold %d above XP %d", gamification.XPForLevel(l.Level), l.XP)
	}
}

func TestTitleForLevel_Boundaries(t *testing.T) {
	tests := map[int]string{
		1: "Newcomer", 3: "Newcomer",
		4: "Builder", 10: "Builder",
		11: "Connector", 20: "Connector",
		21: "Influencer", 35: "Influencer",
		36: "Visionary", 50: "Visionary",
		51: "Legend", 400: "Legend",
	}
	for level, want := range tests {
		if got := gamification.TitleForLevel(level); got != want {
			t.Errorf("TitleForLevel(%d) = %q, want %q", level, got, want)
		}
	}
}

func TestProgressPct(t *testing.T) {
	// Level 2 spans 100..400
	pct := gamification.ProgressPct(gamification.CalculateLevel(250))
	if pct != 50 {
		t.Errorf("expected 50%%, got %.1f%%", pct)
	}
	if pct := gamification.ProgressPct(gamification.CalculateLevel(0)); pct != 0 {
		t.Errorf("expected 0%%, got %.1f%%", pct)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// XP Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestTotalXP_Weights(t *testing.T) {
	w := gamification.DefaultWeights()
	tests := []struct {
		name   string
		stats  domain.Stats
		streak int
		flags  domain.Flags
		want   int64
	}{
		{"zero", domain.Stats{}, 0, domain.Flags{}, 0},
		{"one connection", domain.Stats{ConnectionsCount: 1}, 0, domain.Flags{}, 20},
		{"one message", domain.Stats{MessagesSent: 1}, 0, domain.Flags{}, 5},
		{"one project", domain.Stats{ProjectsCreated: 1}, 0, domain.Flags{}, 30},
		{"one event", domain.Stats{EventsAttended: 1}, 0, domain.Flags{}, 25},
		{"one view", domain.Stats{ProfileViews: 1}, 0, domain.Flags{}, 3},
		{"streak", domain.Stats{}, 4, domain.Flags{}, 40},
		{"profile complete", domain.Stats{}, 0, domain.Flags{ProfileComplete: true}, 50},
		{"early adopter", domain.Stats{}, 0, domain.Flags{EarlyAdopter: true}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gamification.TotalXP(tt.stats, tt.streak, tt.flags, w); got != tt.want {
				t.Errorf("TotalXP() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotalXP_Saturates(t *testing.T) {
	maxed := domain.Stats{
		ConnectionsCount: domain.MaxStatValue,
		MessagesSent:     domain.MaxStatValue,
		ProjectsCreated:  domain.MaxStatValue,
		EventsAttended:   domain.MaxStatValue,
		ProfileViews:     domain.MaxStatValue,
	}
	all := domain.Flags{EarlyAdopter: true, ProfileComplete: true}

	// Default weights stay well inside the cap
	want := domain.MaxStatValue*(20+5+30+25+3) + 10*365 + 150
	if got := gamification.TotalXP(maxed, 365, all, gamification.DefaultWeights()); got != want {
		t.Errorf("TotalXP(max stats) = %d, want %d", got, want)
	}

	huge := gamification.Weights{Connection: math.MaxInt64, Message: math.MaxInt64, EarlyAdopter: math.MaxInt64}
	if got := gamification.TotalXP(maxed, 0, all, huge); got != domain.MaxXP {
		t.Errorf("TotalXP(huge weights) = %d, want %d", got, domain.MaxXP)
	}

	negative := gamification.Weights{Connection: -20, Message: 5}
	if got := gamification.TotalXP(domain.Stats{ConnectionsCount: 3, MessagesSent: 2}, 0, domain.Flags{}, negative); got != 10 {
		t.Errorf("TotalXP(negative weight) = %d, want 10", got)
	}
}

func TestGenerateUserGamification_DemoProfile(t *testing.T) {
	today := day(2026, 3, 12)
	snap, err := gamification.GenerateUserGamification(gamification.DemoStats(), gamification.Options{
		Flags:        gamification.DemoFlags(),
		LoginHistory: gamification.ConsecutiveLogins(today, 12),
		Today:        today,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if snap.Streak.Current != 12 {
		t.Errorf("streak = %d, want 12", snap.Streak.Current)
	}
	if snap.Level.XP != 1992 {
		t.Errorf("XP = %d, want 1992", snap.Level.XP)
	}
	if snap.Level.Level != 5 || snap.Level.XPToNextLevel != 508 || snap.Level.Title != "Builder" {
		t.Errorf("level = %+v, want level 5 Builder with 508 to next", snap.Level)
	}
}

func TestGenerateUserGamification_ZeroStatsProfileComplete(t *testing.T) {
	today := day(2026, 3, 12)
	snap, err := gamification.GenerateUserGamification(domain.Stats{}, gamification.Options{
		Flags: domain.Flags{ProfileComplete: true},
		Today: today,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if snap.Level.XP != 50 || snap.Level.Level != 1 || snap.Level.XPToNextLevel != 50 {
		t.Errorf("level = %+v, want 50 XP at level 1", snap.Level)
	}
	if !findAchievement(t, snap.Achievements, "profile-complete").Unlocked {
		t.Error("profile-complete should unlock from its flag")
	}
	if findAchievement(t, snap.Achievements, "first-connection").Unlocked {
		t.Error("first-connection should stay locked at zero stats")
	}
}

func TestGenerateUserGamification_RejectsNegativeStats(t *testing.T) {
	_, err := gamification.GenerateUserGamification(domain.Stats{MessagesSent: -1}, gamification.Options{})
	if !errors.Is(err, domain.ErrInvalidStats) {
		t.Errorf("error = %v, want ErrInvalidStats", err)
	}
}

func TestGenerateUserGamification_RejectsCountersPastMax(t *testing.T) {
	_, err := gamification.GenerateUserGamification(domain.Stats{ConnectionsCount: domain.MaxStatValue + 1}, gamification.Options{})
	if !errors.Is(err, domain.ErrInvalidStats) {
		t.Errorf("error = %v, want ErrInvalidStats", err)
	}

	snap, err := gamification.GenerateUserGamification(domain.Stats{ConnectionsCount: domain.MaxStatValue}, gamification.Options{})
	if err != nil {
		t.Fatalf("generate at max: %v", err)
	}
	if snap.Level.XP != domain.MaxStatValue*20 || snap.Level.Level <= 1 {
		t.Errorf("level = %+v, want XP %d", snap.Level, domain.MaxStatValue*20)
	}
}

func TestGenerateUserGamification_ReusesChallengeSetForToday(t *testing.T) {
	today := day(2026, 3, 12)
	set := gamification.GenerateDailyChallenges(today, nil)
	set.Challenges[0].Progress = 1

	snap, err := gamification.GenerateUserGamification(domain.Stats{}, gamification.Options{
		Today:        today,
		ChallengeSet: &set,
	})
	if err != nil {
		t.Fatal(err)
	}
	if snap.DailyChallenges[0].Progress != 1 {
		t.Error("today's stored set should be reused")
	}

	snap, _ = gamification.GenerateUserGamification(domain.Stats{}, gamification.Options{
		Today:        today.AddDate(0, 0, 1),
		ChallengeSet: &set,
	})
	for _, c := range snap.DailyChallenges {
		if c.Progress != 0 {
			t.Errorf("yesterday's set must not be reused, got progress %d on %s", c.Progress, c.Task)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestComputeStreak(t *testing.T) {
	today := day(2026, 3, 12)
	d := func(n int) time.Time { return time.Date(2026, 3, n, 9, 30, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		history []time.Time
		current int
		longest int
	}{
		{"empty", nil, 0, 0},
		{"today only", []time.Time{d(12)}, 1, 1},
		{"run ending today", []time.Time{d(10), d(11), d(12)}, 3, 3},
		{"run ending yesterday", []time.Time{d(9), d(10), d(11)}, 3, 3},
		{"gap resets current", []time.Time{d(5), d(6), d(7), d(8)}, 0, 4},
		{"new run after gap", []time.Time{d(5), d(6), d(7), d(8), d(11)}, 1, 4},
		{"duplicates count once", []time.Time{d(11), d(11), d(12), d(12)}, 2, 2},
		{"unsorted input", []time.Time{d(12), d(10), d(11)}, 3, 3},
		{"future days ignored", []time.Time{d(12), d(13), d(14)}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := gamification.ComputeStreak(tt.history, today)
			if s.Current != tt.current {
				t.Errorf("Current = %d, want %d", s.Current, tt.current)
			}
			if s.Longest != tt.longest {
				t.Errorf("Longest = %d, want %d", s.Longest, tt.longest)
			}
			if s.Current > s.Longest {
				t.Errorf("Current %d exceeds Longest %d", s.Current, s.Longest)
			}
		})
	}
}

func TestComputeStreak_LastLoginDate(t *testing.T) {
	today := day(2026, 3, 12)
	s := gamification.ComputeStreak([]time.Time{day(2026, 3, 3), day(2026, 3, 7)}, today)
	want := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	if !s.LastLoginDate.Equal(want) {
		t.Errorf("LastLoginDate = %v, want %v", s.LastLoginDate, want)
	}
	if len(s.LoginHistory) != 2 {
		t.Errorf("LoginHistory = %d days, want 2", len(s.LoginHistory))
	}
}

func TestComputeStreak_AcrossMonthBoundary(t *testing.T) {
	today := day(2026, 3, 1)
	history := []time.Time{day(2026, 2, 27), day(2026, 2, 28), day(2026, 3, 1)}
	if s := gamification.ComputeStreak(history, today); s.Current != 3 {
		t.Errorf("Current = %d, want 3", s.Current)
	}
}

func TestConsecutiveLogins(t *testing.T) {
	today := day(2026, 3, 12)
	history := gamification.ConsecutiveLogins(today, 12)
	if len(history) != 12 {
		t.Fatalf("len = %d, want 12", len(history))
	}
	s := gamification.ComputeStreak(history, today)
	if s.Current != 12 || s.Longest != 12 {
		t.Errorf("streak = %+v, want 12/12", s)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestUpdateAchievementProgress_UnlocksAtTarget(t *testing.T) {
	now := day(2026, 3, 12)
	out := gamification.UpdateAchievementProgress(gamification.DefaultCatalog(),
		domain.Stats{ConnectionsCount: 3}, now)

	first := findAchievement(t, out, "first-connection")
	if !first.Unlocked || first.UnlockedAt == nil || !first.UnlockedAt.Equal(now) {
		t.Errorf("first-connection = %+v, want unlocked at %v", first, now)
	}
	if *first.Progress != 1 {
		t.Errorf("progress = %d, want capped at target 1", *first.Progress)
	}

	five := findAchievement(t, out, "connections-5")
	if five.Unlocked || *five.Progress != 3 {
		t.Errorf("connections-5 = unlocked %v progress %d, want locked at 3", five.Unlocked, *five.Progress)
	}
	if five.ProgressPct() != 60 {
		t.Errorf("ProgressPct = %.1f, want 60", five.ProgressPct())
	}
}

func TestUpdateAchievementProgress_DoesNotMutateInput(t *testing.T) {
	catalog := gamification.DefaultCatalog()
	gamification.UpdateAchievementProgress(catalog, domain.Stats{ConnectionsCount: 100}, day(2026, 3, 12))

	for _, a := range catalog {
		if a.Unlocked {
			t.Fatalf("input %s was mutated", a.ID)
		}
		if a.Progress != nil && *a.Progress != 0 {
			t.Fatalf("input %s progress mutated to %d", a.ID, *a.Progress)
		}
	}
}

func TestUpdateAchievementProgress_Idempotent(t *testing.T) {
	now := day(2026, 3, 12)
	stats := gamification.DemoStats()

	once := gamification.UpdateAchievementProgress(gamification.DefaultCatalog(), stats, now)
	twice := gamification.UpdateAchievementProgress(once, stats, now)
	if !reflect.DeepEqual(once, twice) {
		t.Error("applying the same stats twice should not change the result")
	}
}

func TestUpdateAchievementProgress_KeepsUnlockedAt(t *testing.T) {
	first := day(2026, 3, 1)
	later := day(2026, 3, 12)

	out := gamification.UpdateAchievementProgress(gamification.DefaultCatalog(),
		domain.Stats{ProjectsCreated: 1}, first)
	out = gamification.UpdateAchievementProgress(out, domain.Stats{ProjectsCreated: 2}, later)

	a := findAchievement(t, out, "first-project")
	if !a.UnlockedAt.Equal(first) {
		t.Errorf("UnlockedAt = %v, want original %v", a.UnlockedAt, first)
	}
}

func TestUpdateAchievementProgress_UnlocksArePermanent(t *testing.T) {
	now := day(2026, 3, 12)
	out := gamification.UpdateAchievementProgress(gamification.DefaultCatalog(),
		domain.Stats{MessagesSent: 60}, now)
	out = gamification.UpdateAchievementProgress(out, domain.Stats{MessagesSent: 10}, now)

	a := findAchievement(t, out, "messages-50")
	if !a.Unlocked || *a.Progress != *a.Target {
		t.Errorf("messages-50 = unlocked %v progress %d, want unlocked at target", a.Unlocked, *a.Progress)
	}
}

func TestUpdateAchievementProgress_IgnoresFlagAchievements(t *testing.T) {
	out := gamification.UpdateAchievementProgress(gamification.DefaultCatalog(),
		gamification.DemoStats(), day(2026, 3, 12))
	for _, id := range []string{"profile-complete", "early-adopter"} {
		if findAchievement(t, out, id).Unlocked {
			t.Errorf("%s must only unlock through its flag", id)
		}
	}
}

func TestApplyTriggers(t *testing.T) {
	now := day(2026, 3, 12)
	out := gamification.ApplyTriggers(gamification.DefaultCatalog(), domain.Flags{EarlyAdopter: true}, now)

	if a := findAchievement(t, out, "early-adopter"); !a.Unlocked || !a.UnlockedAt.Equal(now) {
		t.Errorf("early-adopter = %+v, want unlocked", a)
	}
	if findAchievement(t, out, "profile-complete").Unlocked {
		t.Error("profile-complete should stay locked")
	}

	// Clearing the flag does not revoke
	out = gamification.ApplyTriggers(out, domain.Flags{}, now.Add(time.Hour))
	if a := findAchievement(t, out, "early-adopter"); !a.Unlocked || !a.UnlockedAt.Equal(now) {
		t.Errorf("early-adopter after clearing flag = %+v", a)
	}
}

func TestWithUnlocks_RestoresTimestamps(t *testing.T) {
	at := day(2026, 2, 1)
	out := gamification.WithUnlocks(gamification.DefaultCatalog(), []domain.UnlockRecord{
		{ID: "connections-25", UnlockedAt: at},
		{ID: "retired-badge", UnlockedAt: at},
	})

	a := findAchievement(t, out, "connections-25")
	if !a.Unlocked || !a.UnlockedAt.Equal(at) || *a.Progress != 25 {
		t.Errorf("connections-25 = %+v, want restored unlock", a)
	}
	if len(out) != len(gamification.DefaultCatalog()) {
		t.Error("unknown unlock IDs must not add achievements")
	}
}

func TestNewlyUnlocked(t *testing.T) {
	now := day(2026, 3, 12)
	before := gamification.UpdateAchievementProgress(gamification.DefaultCatalog(),
		domain.Stats{ConnectionsCount: 1}, now)
	after := gamification.UpdateAchievementProgress(before, domain.Stats{ConnectionsCount: 5}, now)

	fresh := gamification.NewlyUnlocked(before, after)
	if len(fresh) != 1 || fresh[0].ID != "connections-5" {
		t.Errorf("fresh = %v, want [connections-5]", fresh)
	}
}

func TestDefaultCatalog_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range gamification.DefaultCatalog() {
		if seen[a.ID] {
			t.Errorf("duplicate achievement ID %q", a.ID)
		}
		seen[a.ID] = true
		if a.HasTarget() == (a.Trigger != domain.TriggerNone) {
			t.Errorf("%s must have exactly one of target or trigger", a.ID)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Daily Challenge Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestGenerateDailyChallenges_Deterministic(t *testing.T) {
	today := day(2026, 3, 12)
	a := gamification.GenerateDailyChallenges(today, nil)
	b := gamification.GenerateDailyChallenges(today.Add(5*time.Hour), nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("same calendar day should produce the same set")
	}
}

func TestGenerateDailyChallenges_Shape(t *testing.T) {
	start := day(2026, 1, 1)
	for i := 0; i < 60; i++ {
		today := start.AddDate(0, 0, i)
		set := gamification.GenerateDailyChallenges(today, nil)

		if n := len(set.Challenges); n < 3 || n > 4 {
			t.Fatalf("%s: %d challenges, want 3-4", set.Day, n)
		}
		if set.Day != today.Format(domain.DayFormat) {
			t.Fatalf("Day = %q", set.Day)
		}
		wantExpiry := time.Date(today.Year(), today.Month(), today.Day()+1, 0, 0, 0, 0, time.UTC)
		if !set.ExpiresAt.Equal(wantExpiry) {
			t.Fatalf("ExpiresAt = %v, want %v", set.ExpiresAt, wantExpiry)
		}

		tasks := make(map[string]bool)
		for _, c := range set.Challenges {
			if tasks[c.Task] {
				t.Fatalf("%s: duplicate task %s", set.Day, c.Task)
			}
			tasks[c.Task] = true
			if c.Progress != 0 || c.Completed {
				t.Fatalf("%s: %s has progress %d without a random source", set.Day, c.Task, c.Progress)
			}
		}
	}
}

func TestGenerateDailyChallenges_IDsNotReused(t *testing.T) {
	seen := make(map[string]string)
	start := day(2026, 1, 1)
	for i := 0; i < 30; i++ {
		set := gamification.GenerateDailyChallenges(start.AddDate(0, 0, i), nil)
		for _, c := range set.Challenges {
			if prev, ok := seen[c.ID]; ok {
				t.Fatalf("challenge ID %s reused on %s (first %s)", c.ID, set.Day, prev)
			}
			seen[c.ID] = set.Day
		}
	}
}

func TestGenerateDailyChallenges_RandomProgress(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	set := gamification.GenerateDailyChallenges(day(2026, 3, 12), rnd)
	for _, c := range set.Challenges {
		if c.Progress < 0 || c.Progress > c.Target {
			t.Errorf("%s: progress %d outside [0, %d]", c.Task, c.Progress, c.Target)
		}
		if c.Completed != (c.Progress >= c.Target) {
			t.Errorf("%s: Completed = %v with progress %d/%d", c.Task, c.Completed, c.Progress, c.Target)
		}
	}
}

func TestChallengeGenerator_Bounds(t *testing.T) {
	g := &gamification.ChallengeGenerator{
		Pool:      gamification.DefaultChallengeGenerator().Pool[:2],
		MinPerDay: 3,
		MaxPerDay: 5,
	}
	set := g.Generate(day(2026, 3, 12), nil)
	if len(set.Challenges) != 2 {
		t.Errorf("got %d challenges, want pool size 2", len(set.Challenges))
	}
}

func TestAdvanceChallenges(t *testing.T) {
	set := domain.ChallengeSet{
		Day: "2026-03-12",
		Challenges: []domain.DailyChallenge{
			{ID: "a", Task: "make-connections", Metric: domain.MetricConnections, Target: 3},
			{ID: "b", Task: "send-messages", Metric: domain.MetricMessages, Target: 10},
		},
	}

	updated, completed := gamification.AdvanceChallenges(set, domain.MetricConnections, 2)
	if len(completed) != 0 || updated.Challenges[0].Progress != 2 {
		t.Fatalf("after 2 connections: %+v, completed %v", updated.Challenges[0], completed)
	}
	if set.Challenges[0].Progress != 0 {
		t.Error("input set was mutated")
	}

	updated, completed = gamification.AdvanceChallenges(updated, domain.MetricConnections, 5)
	if len(completed) != 1 || completed[0].ID != "a" {
		t.Fatalf("completed = %v, want [a]", completed)
	}
	if c := updated.Challenges[0]; c.Progress != 3 || !c.Completed {
		t.Errorf("challenge a = %+v, want capped at 3 and completed", c)
	}
	if updated.Challenges[1].Progress != 0 {
		t.Error("other metrics must not advance")
	}

	// Completed challenges do not complete again
	_, completed = gamification.AdvanceChallenges(updated, domain.MetricConnections, 1)
	if len(completed) != 0 {
		t.Errorf("completed again: %v", completed)
	}
}
