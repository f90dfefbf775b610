package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/daemon"
	"github.com/konekt-network/konekt/internal/domain"
)

func init() {
	rootCmd.AddCommand(challengesCmd)
}

var challengesCmd = &cobra.Command{
	Use:   "challenges USER",
	Short: "Show today's challenges for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runChallenges,
}

func runChallenges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	set, err := d.Gamification.DailyChallenges(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(set)
	}

	fmt.Printf("Challenges for %s (expire %s)\n\n", set.Day, set.ExpiresAt.Format("2006-01-02 15:04"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	printChallenges(w, set.Challenges)
	return w.Flush()
}

func printChallenges(w io.Writer, challenges []domain.DailyChallenge) {
	fmt.Fprintln(w, "CHALLENGE\tPROGRESS\tREWARD\tDONE")
	for _, c := range challenges {
		done := ""
		if c.Completed {
			done = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d XP\t%s\n", c.Description, renderBar(c.ProgressPct()), c.XPReward, done)
	}
}
