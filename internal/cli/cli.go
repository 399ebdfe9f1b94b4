package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alhockeyfans/report-sync/internal/job"
	"github.com/alhockeyfans/report-sync/internal/logger"
	"github.com/alhockeyfans/report-sync/internal/notify"
	"github.com/alhockeyfans/report-sync/internal/report"
	"github.com/alhockeyfans/report-sync/internal/scraper"
	"github.com/alhockeyfans/report-sync/internal/store"
)

const (
	ExitSuccess        = 0
	ExitError          = 1
	ExitPartialFailure = 2
)

var (
	flagVariant     string
	flagDatabaseURL string
	flagWebhookURL  string
	flagFormat      string
	flagWindow      time.Duration
	flagConcurrency int
	flagDryRun      bool
	flagVerbose     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report-sync",
		Short: "Sync Asia League game reports into the database",
		Long: `Extracts Asia League ice hockey report pages for in-progress games
and persists them. Run with --variant live_score on a short interval while
games are underway, and --variant full_sheet on a slower interval to pick up
the official game sheets once they are published.`,
		RunE: runSync,
	}

	cmd.Flags().StringVar(&flagVariant, "variant", string(report.VariantFullSheet),
		"Report variant to extract: full_sheet or live_score")
	cmd.Flags().StringVar(&flagDatabaseURL, "database-url", "",
		"Postgres connection string (or env: DATABASE_URL)")
	cmd.Flags().StringVar(&flagWebhookURL, "slack-webhook-url", "",
		"Slack webhook for run summaries (or env: SLACK_WEBHOOK_URL, optional)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().DurationVar(&flagWindow, "window", job.DefaultWindow,
		"Trailing window of game start times to process")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", job.DefaultConcurrency,
		"Number of games processed at once")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Extract but skip all writes")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and metrics output")

	return cmd
}

// runSync is the main command logic
func runSync(cmd *cobra.Command, args []string) error {
	// Local development keeps credentials in a .env file; absent is fine.
	godotenv.Load()

	if flagDatabaseURL == "" {
		flagDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if flagWebhookURL == "" {
		flagWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}

	variant := report.Variant(strings.ToLower(strings.TrimSpace(flagVariant)))
	if variant != report.VariantFullSheet && variant != report.VariantLiveScore {
		return fmt.Errorf("invalid variant: %s (must be %s or %s)",
			flagVariant, report.VariantFullSheet, report.VariantLiveScore)
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	if flagDatabaseURL == "" {
		return fmt.Errorf("--database-url is required (or DATABASE_URL env var)")
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
	}

	st, err := store.NewStore(flagDatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	runner := &job.Runner{
		Store:       st,
		Fetcher:     scraper.NewFetcher(),
		Variant:     variant,
		Window:      flagWindow,
		Concurrency: flagConcurrency,
		DryRun:      flagDryRun,
	}

	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("running sync pass: %w", err)
	}

	if err := WriteOutput(os.Stdout, summary, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagWebhookURL != "" && !flagDryRun {
		notifier, err := notify.NewSlackNotifier(flagWebhookURL)
		if err != nil {
			return fmt.Errorf("initializing notifier: %w", err)
		}
		if err := notifier.NotifyRunSummary(summary); err != nil {
			// The run itself succeeded; a lost notification is only
			// worth a warning.
			logger.Warn("sending run summary failed", logger.Fields{"error": err.Error()})
		}
	}

	if summary.Failed > 0 {
		os.Exit(ExitPartialFailure)
	}
	os.Exit(ExitSuccess)
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
