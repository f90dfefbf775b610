package gamification

import (
	"time"

	"github.com/konekt-network/konekt/internal/domain"
)

// UpdateAchievementProgress merges current stats into the achievement list.
//
// For every achievement with a target, progress becomes min(stat, target)
// and the achievement unlocks when progress reaches the target. The first
// unlock records UnlockedAt = now; an existing UnlockedAt is never replaced.
// Unlocks are permanent, so an unlocked achievement keeps progress at its
// target. Flag-triggered achievements are left untouched (see ApplyTriggers).
// The input slice is not modified.
func UpdateAchievementProgress(catalog []domain.Achievement, stats domain.Stats, now time.Time) []domain.Achievement {
	out := make([]domain.Achievement, len(catalog))
	for i, a := range catalog {
		a = cloneAchievement(a)
		if a.Target != nil && a.Metric != "" {
			target := *a.Target
			progress := min(max(stats.Value(a.Metric), 0), target)
			if a.Unlocked {
				progress = target
			}
			a.Progress = &progress
			if progress == target && !a.Unlocked {
				a.Unlocked = true
				at := now
				a.UnlockedAt = &at
			}
		}
		out[i] = a
	}
	return out
}

// ApplyTriggers unlocks flag-triggered achievements whose flag is set.
// Clearing a flag never revokes an unlock.
func ApplyTriggers(achievements []domain.Achievement, flags domain.Flags, now time.Time) []domain.Achievement {
	out := make([]domain.Achievement, len(achievements))
	for i, a := range achievements {
		a = cloneAchievement(a)
		if !a.Unlocked && triggerSet(a.Trigger, flags) {
			a.Unlocked = true
			at := now
			a.UnlockedAt = &at
		}
		out[i] = a
	}
	return out
}

// WithUnlocks restores persisted unlocks onto a catalog.
func WithUnlocks(catalog []domain.Achievement, unlocks []domain.UnlockRecord) []domain.Achievement {
	byID := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		byID[u.ID] = u.UnlockedAt
	}

	out := make([]domain.Achievement, len(catalog))
	for i, a := range catalog {
		a = cloneAchievement(a)
		if at, ok := byID[a.ID]; ok {
			a.Unlocked = true
			a.UnlockedAt = &at
			if a.Target != nil {
				progress := *a.Target
				a.Progress = &progress
			}
		}
		out[i] = a
	}
	return out
}

// NewlyUnlocked returns achievements unlocked in after but not in before.
func NewlyUnlocked(before, after []domain.Achievement) []domain.Achievement {
	was := make(map[string]bool, len(before))
	for _, a := range before {
		if a.Unlocked {
			was[a.ID] = true
		}
	}
	var fresh []domain.Achievement
	for _, a := range after {
		if a.Unlocked && !was[a.ID] {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

func triggerSet(t domain.Trigger, flags domain.Flags) bool {
	switch t {
	case domain.TriggerEarlyAdopter:
		return flags.EarlyAdopter
	case domain.TriggerProfileComplete:
		return flags.ProfileComplete
	}
	return false
}

// cloneAchievement copies pointer fields so results never alias inputs.
func cloneAchievement(a domain.Achievement) domain.Achievement {
	if a.Progress != nil {
		v := *a.Progress
		a.Progress = &v
	}
	if a.Target != nil {
		v := *a.Target
		a.Target = &v
	}
	if a.UnlockedAt != nil {
		v := *a.UnlockedAt
		a.UnlockedAt = &v
	}
	return a
}

// ─── Achievement Catalog ────────────────────────────────────────────────────

// DefaultCatalog returns the Konekt achievement catalog with no progress.
func DefaultCatalog() []domain.Achievement {
	return []domain.Achievement{
		// ── Connections ────────────────────────────────────────────────
		counted("first-connection", "First Handshake", "Make your first connection", "🤝",
			domain.RarityCommon, domain.MetricConnections, 1, 10),
		counted("connections-5", "Networker", "Make 5 connections", "🔗",
			domain.RarityCommon, domain.MetricConnections, 5, 25),
		counted("connections-25", "Super Connector", "Make 25 connections", "🌐",
			domain.RarityRare, domain.MetricConnections, 25, 100),
		counted("connections-100", "Social Butterfly", "Make 100 connections", "🦋",
			domain.RarityEpic, domain.MetricConnections, 100, 300),

		// ── Messages ───────────────────────────────────────────────────
		counted("messages-50", "Conversationalist", "Send 50 messages", "💬",
			domain.RarityCommon, domain.MetricMessages, 50, 25),
		counted("messages-500", "Chatterbox", "Send 500 messages", "📣",
			domain.RarityRare, domain.MetricMessages, 500, 150),

		// ── Projects ───────────────────────────────────────────────────
		counted("first-project", "Maker", "Create your first project", "🛠️",
			domain.RarityCommon, domain.MetricProjects, 1, 30),
		counted("projects-5", "Serial Builder", "Create 5 projects", "🏗️",
			domain.RarityRare, domain.MetricProjects, 5, 150),

		// ── Events ─────────────────────────────────────────────────────
		counted("first-event", "Show Up", "Attend your first event", "🎟️",
			domain.RarityCommon, domain.MetricEvents, 1, 20),
		counted("events-10", "Regular", "Attend 10 events", "📅",
			domain.RarityEpic, domain.MetricEvents, 10, 200),

		// ── Profile views ──────────────────────────────────────────────
		counted("views-100", "Rising Profile", "Reach 100 profile views", "👀",
			domain.RarityRare, domain.MetricProfileViews, 100, 50),
		counted("views-1000", "Famous", "Reach 1000 profile views", "⭐",
			domain.RarityLegendary, domain.MetricProfileViews, 1000, 500),

		// ── Flag-triggered ─────────────────────────────────────────────
		{
			ID: "profile-complete", Title: "All Set", Description: "Complete your profile",
			Icon: "✅", Rarity: domain.RarityCommon, Trigger: domain.TriggerProfileComplete, XPReward: 50,
		},
		{
			ID: "early-adopter", Title: "Early Adopter", Description: "Joined Konekt during the beta",
			Icon: "🚀", Rarity: domain.RarityLegendary, Trigger: domain.TriggerEarlyAdopter, XPReward: 100,
		},
	}
}

func counted(id, title, desc, icon string, rarity domain.Rarity, metric domain.Metric, target, reward int64) domain.Achievement {
	progress := int64(0)
	return domain.Achievement{
		ID:          id,
		Title:       title,
		Description: desc,
		Icon:        icon,
		Rarity:      rarity,
		Metric:      metric,
		Progress:    &progress,
		Target:      &target,
		XPReward:    reward,
	}
}
