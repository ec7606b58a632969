package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"civiclink/config"
)

// Shared state, populated before any subcommand runs.
var (
	cfg    config.Config
	logger *slog.Logger

	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "civiclink",
	Short: "Civic issue reporting backend",
	Long: `civiclink runs the API behind the civic issue reporting app.
Citizens report and vote on local problems, and administrators triage them
with the help of AI categorization, priority prediction and gap analysis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg = config.Load()
		logger = config.NewLogger(cfg, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}
