package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/daemon"
)

func init() {
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "Number of users to show")
	rootCmd.AddCommand(leaderboardCmd)
}

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"top"},
	Short:   "Rank users by XP",
	RunE:    runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	if leaderboardLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Gamification.Leaderboard(cmd.Context(), leaderboardLimit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No users yet. Run 'konekt activity <user> <metric> <n>' to get started.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tLEVEL\tTITLE\tXP")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\n", e.Rank, e.UserID, e.Level, e.Title, e.XP)
	}
	return w.Flush()
}
