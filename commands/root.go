package commands

import (
	"context"
	"fmt"
	"os"

	"sjsage522/orgcrawler/config"
	"sjsage522/orgcrawler/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "orgcrawler",
	Short:         "orgcrawler builds datasets of tax-exempt organizations from the LHDN donation-approval listings.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load environment variables; a missing .env is fine
		godotenv.Load()

		cfg = config.LoadConfig()
		log = logger.New(logger.Options{
			Level:       cfg.LogLevel,
			Environment: cfg.Environment,
			Format:      cfg.LogFormat,
		})

		return cfg.Validate()
	},
}

// ExecuteContext runs the command tree and exits non-zero on error
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if log != nil {
			log.WithError(err).Error().Msg("Command failed")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
