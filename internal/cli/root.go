// Package cli implements the Konekt command-line interface using Cobra.
// Each subcommand maps to one gamification or registration capability.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/daemon"
	"github.com/konekt-network/konekt/internal/logger"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "konekt",
	Short: "Konekt: levels, achievements and streaks for professional networking",
	Long: `Konekt tracks networking activity and turns it into levels,
achievements, login streaks and daily challenges.

Run 'konekt serve' for the HTTP API or use the subcommands directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
	rootCmd.PersistentPreRunE = initLogging
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initLogging(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(logger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: "konekt",
		Version: cmd.Root().Version,
	})
	return nil
}
