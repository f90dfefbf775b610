package cli

import (
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/app/gamification"
)

func init() {
	demoCmd.Flags().Uint64Var(&demoSeed, "seed", 0, "Seed for random challenge progress (0 keeps progress at zero)")
	demoCmd.Flags().IntVar(&demoStreak, "streak", 12, "Consecutive login days ending today")
	rootCmd.AddCommand(demoCmd)
}

var (
	demoSeed   uint64
	demoStreak int
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show the showcase profile without touching the database",
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	now := time.Now()
	opts := gamification.Options{
		Flags:        gamification.DemoFlags(),
		LoginHistory: gamification.ConsecutiveLogins(now, demoStreak),
		Today:        now,
	}
	if demoSeed != 0 {
		opts.Rand = rand.New(rand.NewPCG(demoSeed, demoSeed))
	}

	snap, err := gamification.GenerateUserGamification(gamification.DemoStats(), opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(snap)
	}
	return printSnapshot(snap)
}
