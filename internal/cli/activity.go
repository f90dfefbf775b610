package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/daemon"
	"github.com/konekt-network/konekt/internal/domain"
)

func init() {
	loginCmd.Flags().StringVar(&loginDate, "date", "", "Login day as YYYY-MM-DD (default today)")
	flagsCmd.Flags().BoolVar(&flagEarlyAdopter, "early-adopter", false, "Mark the user as an early adopter")
	flagsCmd.Flags().BoolVar(&flagProfileComplete, "profile-complete", false, "Mark the user's profile as complete")

	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(flagsCmd)
}

var (
	loginDate           string
	flagEarlyAdopter    bool
	flagProfileComplete bool
)

var activityCmd = &cobra.Command{
	Use:   "activity USER METRIC DELTA",
	Short: "Record activity (connections, messages, projects, events, profile_views)",
	Args:  cobra.ExactArgs(3),
	RunE:  runActivity,
}

var loginCmd = &cobra.Command{
	Use:   "login USER",
	Short: "Record a login and show the resulting streak",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var flagsCmd = &cobra.Command{
	Use:   "flags USER",
	Short: "Set a user's early-adopter and profile-complete flags",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlags,
}

func runActivity(cmd *cobra.Command, args []string) error {
	userID, metric := args[0], parseMetric(args[1])
	delta, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("delta must be an integer, got %q", args[2])
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if _, err := d.Gamification.RecordActivity(ctx, userID, metric, delta); err != nil {
		return err
	}
	snap, err := d.Gamification.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(snap)
	}

	fmt.Printf("%s: %s is now %d\n", userID, metricLabel(metric), snap.Stats.Value(metric))
	fmt.Println(levelLine(snap.Level))
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	var at time.Time
	if loginDate != "" {
		day, err := time.ParseInLocation(domain.DayFormat, loginDate, time.Local)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		at = day
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if err := d.Gamification.RecordLogin(ctx, args[0], at); err != nil {
		return err
	}
	snap, err := d.Gamification.Snapshot(ctx, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(snap.Streak)
	}

	fmt.Printf("Streak: %d days (longest %d)\n", snap.Streak.Current, snap.Streak.Longest)
	return nil
}

func runFlags(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	flags := domain.Flags{EarlyAdopter: flagEarlyAdopter, ProfileComplete: flagProfileComplete}
	if err := d.Gamification.SetFlags(cmd.Context(), args[0], flags); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(flags)
	}
	fmt.Printf("Early adopter:    %t\n", flags.EarlyAdopter)
	fmt.Printf("Profile complete: %t\n", flags.ProfileComplete)
	return nil
}
