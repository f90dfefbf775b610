package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/app/gamification"
)

func init() {
	rootCmd.AddCommand(levelCmd)
}

var levelCmd = &cobra.Command{
	Use:   "level XP",
	Short: "Show the level reached with a given amount of XP",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevel,
}

func runLevel(cmd *cobra.Command, args []string) error {
	xp, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || xp < 0 {
		return fmt.Errorf("xp must be a non-negative integer, got %q", args[0])
	}

	level := gamification.CalculateLevel(xp)
	if jsonOutput {
		return printJSON(level)
	}
	fmt.Println(levelLine(level))
	return nil
}
