package gamification

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/konekt-network/konekt/internal/domain"
)

// Rand is the random source used to seed demo progress.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// challengeNamespace scopes the UUIDv5 challenge IDs.
var challengeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://konekt.app/daily-challenges"))

// challengePool is the fixed catalog of daily tasks.
var challengePool = []domain.ChallengeTemplate{
	{Task: "make-connections", Description: "Connect with 3 new people", Metric: domain.MetricConnections, Target: 3, XPReward: 30},
	{Task: "start-conversations", Description: "Send 3 messages", Metric: domain.MetricMessages, Target: 3, XPReward: 15},
	{Task: "send-messages", Description: "Send 10 messages", Metric: domain.MetricMessages, Target: 10, XPReward: 25},
	{Task: "attend-event", Description: "Attend an event", Metric: domain.MetricEvents, Target: 1, XPReward: 40},
	{Task: "ship-project", Description: "Create a project", Metric: domain.MetricProjects, Target: 1, XPReward: 35},
	{Task: "get-noticed", Description: "Get 5 profile views", Metric: domain.MetricProfileViews, Target: 5, XPReward: 15},
}

// ChallengeGenerator picks each day's challenges from a template pool.
// The subset and its size depend only on the calendar day.
type ChallengeGenerator struct {
	Pool      []domain.ChallengeTemplate
	MinPerDay int
	MaxPerDay int
}

// DefaultChallengeGenerator returns a generator over the built-in pool
// producing 3–4 challenges per day.
func DefaultChallengeGenerator() *ChallengeGenerator {
	return &ChallengeGenerator{Pool: challengePool, MinPerDay: 3, MaxPerDay: 4}
}

// GenerateDailyChallenges builds day's challenges with the default generator.
func GenerateDailyChallenges(day time.Time, rnd Rand) domain.ChallengeSet {
	return DefaultChallengeGenerator().Generate(day, rnd)
}

// Generate builds the challenge set for day's calendar day in day's location.
// Progress starts at zero unless rnd is non-nil, in which case it is seeded
// from rnd (demo data only).
func (g *ChallengeGenerator) Generate(day time.Time, rnd Rand) domain.ChallengeSet {
	today := civilDay(day, day.Location())
	dayKey := today.Format(domain.DayFormat)

	selected := g.pick(daySeed(today))

	challenges := make([]domain.DailyChallenge, 0, len(selected))
	for _, tmpl := range selected {
		c := domain.DailyChallenge{
			ID:          uuid.NewSHA1(challengeNamespace, []byte(dayKey+"/"+tmpl.Task)).String(),
			Task:        tmpl.Task,
			Description: tmpl.Description,
			Metric:      tmpl.Metric,
			Target:      tmpl.Target,
			XPReward:    tmpl.XPReward,
		}
		if rnd != nil && tmpl.Target > 0 {
			c.Progress = int64(rnd.IntN(int(tmpl.Target) + 1))
		}
		c.Completed = c.Progress >= c.Target
		challenges = append(challenges, c)
	}

	return domain.ChallengeSet{
		Day:        dayKey,
		ExpiresAt:  nextDay(today),
		Challenges: challenges,
	}
}

// pick selects the day's templates, keeping pool order for stable display.
func (g *ChallengeGenerator) pick(seed uint64) []domain.ChallengeTemplate {
	n := len(g.Pool)
	lo, hi := g.MinPerDay, g.MaxPerDay
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	if lo < 0 {
		lo = 0
	}

	r := rand.New(rand.NewPCG(seed, seed^0x6b6f6e656b74))
	size := lo
	if hi > lo {
		size += r.IntN(hi - lo + 1)
	}

	idx := r.Perm(n)[:size]
	sort.Ints(idx)

	out := make([]domain.ChallengeTemplate, 0, size)
	for _, i := range idx {
		out = append(out, g.Pool[i])
	}
	return out
}

// AdvanceChallenges applies activity on metric to the set's open challenges.
// Progress is capped at the target. Returns the updated set and the
// challenges completed by this call.
func AdvanceChallenges(set domain.ChallengeSet, metric domain.Metric, delta int64) (domain.ChallengeSet, []domain.DailyChallenge) {
	updated := set
	updated.Challenges = make([]domain.DailyChallenge, len(set.Challenges))

	var completed []domain.DailyChallenge
	for i, c := range set.Challenges {
		if c.Metric == metric && !c.Completed && delta > 0 {
			c.Progress = min(c.Progress+delta, c.Target)
			c.Completed = c.Progress >= c.Target
			if c.Completed {
				completed = append(completed, c)
			}
		}
		updated.Challenges[i] = c
	}
	return updated, completed
}

// daySeed encodes a calendar day as yyyymmdd.
func daySeed(day time.Time) uint64 {
	y, m, d := day.Date()
	return uint64(y*10000 + int(m)*100 + d)
}
