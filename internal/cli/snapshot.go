package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/daemon"
	"github.com/konekt-network/konekt/internal/domain"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:     "show USER",
	Aliases: []string{"snapshot"},
	Short:   "Show a user's level, achievements, streak and challenges",
	Args:    cobra.ExactArgs(1),
	RunE:    runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	snap, err := d.Gamification.Snapshot(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(snap)
	}
	return printSnapshot(snap)
}

// printSnapshot renders a snapshot as human-readable text.
func printSnapshot(snap domain.UserGamification) error {
	fmt.Println(levelLine(snap.Level))
	fmt.Printf("XP:           %d\n", snap.Level.XP)
	fmt.Printf("Streak:       %d days (longest %d)\n", snap.Streak.Current, snap.Streak.Longest)
	fmt.Printf("Achievements: %d/%d unlocked\n", snap.UnlockedCount(), len(snap.Achievements))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tCOUNT")
	for _, m := range domain.AllMetrics() {
		fmt.Fprintf(w, "%s\t%d\n", metricLabel(m), snap.Stats.Value(m))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ACHIEVEMENT\tRARITY\tPROGRESS\tUNLOCKED")
	for _, a := range snap.Achievements {
		progress := "-"
		if a.HasTarget() {
			progress = fmt.Sprintf("%d/%d", *a.Progress, *a.Target)
		}
		unlocked := ""
		if a.UnlockedAt != nil {
			unlocked = a.UnlockedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", a.Icon, a.Title, rarityLabel(a.Rarity), progress, unlocked)
	}
	fmt.Fprintln(w)

	printChallenges(w, snap.DailyChallenges)
	return w.Flush()
}
