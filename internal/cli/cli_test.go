package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konekt-network/konekt/internal/app/gamification"
	"github.com/konekt-network/konekt/internal/app/registration"
	"github.com/konekt-network/konekt/internal/domain"
	"github.com/konekt-network/konekt/internal/infra/sqlite"
)

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(".", barWidth)+"]   0%", renderBar(0))
	assert.Equal(t, "["+strings.Repeat("=", barWidth)+"] 100%", renderBar(100))
	assert.Equal(t, renderBar(0), renderBar(-5))
	assert.Equal(t, renderBar(100), renderBar(250))

	half := renderBar(50)
	assert.Contains(t, half, ">")
	assert.True(t, strings.HasSuffix(half, " 50%"))
}

func TestLevelLine(t *testing.T) {
	line := levelLine(gamification.CalculateLevel(1992))
	assert.True(t, strings.HasPrefix(line, "Level 5 Builder"), line)
	assert.Contains(t, line, "(508 XP to level 6)")
}

func TestParseMetric(t *testing.T) {
	assert.Equal(t, domain.MetricProfileViews, parseMetric("Profile-Views"))
	assert.Equal(t, domain.MetricConnections, parseMetric(" connections "))
	assert.False(t, parseMetric("likes").Valid())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Profile Views", metricLabel(domain.MetricProfileViews))
	assert.Equal(t, "Legendary", rarityLabel(domain.RarityLegendary))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "sql"}, splitList(" go, ,sql "))
	assert.Nil(t, splitList(""))
}

type profileRecorder struct{ users []string }

func (p *profileRecorder) MarkProfileComplete(_ context.Context, userID string) error {
	p.users = append(p.users, userID)
	return nil
}

func TestCompleteDraft_RetriesInvalidStep(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	profiles := &profileRecorder{}
	wiz := registration.NewWizard(db, profiles, nil)
	ctx := context.Background()
	draft, err := wiz.Start(ctx, "ada")
	require.NoError(t, err)

	input := strings.Join([]string{
		"Ada", "not-an-email", // rejected account
		"Ada Lovelace", "ada@example.com",
		"Analyst", "", "London", "",
		"math, engines", "collaborators",
	}, "\n") + "\n"
	var out bytes.Buffer
	p := &prompter{in: newLineScanner(strings.NewReader(input)), out: &out}

	reg, err := completeDraft(ctx, wiz, draft, p)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", reg.Account.DisplayName)
	assert.Equal(t, []string{"math", "engines"}, reg.Interests.Interests)
	assert.Equal(t, []string{"ada"}, profiles.users)
	assert.Contains(t, out.String(), "failed validation")
}

func TestCompleteDraft_EOF(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wiz := registration.NewWizard(db, nil, nil)
	ctx := context.Background()
	draft, err := wiz.Start(ctx, "ada")
	require.NoError(t, err)

	p := &prompter{in: newLineScanner(strings.NewReader("Ada\n")), out: &bytes.Buffer{}}
	_, err = completeDraft(ctx, wiz, draft, p)
	assert.Error(t, err)

	saved, err := wiz.Load(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageAccount, saved.Stage)
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := []string{
		"serve", "level", "show", "activity", "login", "flags",
		"challenges", "leaderboard", "notifications", "demo", "register",
	}
	for _, name := range names {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, rootCmd.PersistentPreRunE)
}

func TestRootCommand_ExecuteLevel(t *testing.T) {
	t.Setenv("KONEKT_HOME", t.TempDir())
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"level", "1992"})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"level", "lots"})
	assert.Error(t, rootCmd.Execute())
}
