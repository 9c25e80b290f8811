package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"weather-narrator/internal/config"
	"weather-narrator/internal/models"
	"weather-narrator/internal/services"
	"weather-narrator/pkg/logging"
	"weather-narrator/pkg/metrics"
)

var (
	jsonOutput  bool
	section     string
	logLevel    string
	payloadPath string
	nowFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "narrate [date]",
	Short: "Print a spoken-style weather report",
	Long: `narrate fetches the forecast for the configured location and prints
short natural-language sentences for the requested date.

The date may be today (default), tomorrow, YYYY-MM-DD, an RFC3339
timestamp or Unix epoch seconds.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runNarrate,
}

func init() {
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full report as JSON")
	rootCmd.Flags().StringVar(&section, "section", "", "only print one section: currently, daily or detail")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level for diagnostics written to stderr")
	rootCmd.Flags().StringVar(&payloadPath, "payload", "", "narrate a saved provider payload instead of fetching one")
	rootCmd.Flags().StringVar(&nowFlag, "now", "", "RFC3339 instant treated as the present (with --payload)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runNarrate(cmd *cobra.Command, args []string) error {
	if section != "" && !models.ValidSection(section) {
		return fmt.Errorf("unknown section %q: want currently, daily or detail", section)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewStructuredLogger("weather-narrator-cli", cfg.AppVersion, logging.ParseLevel(logLevel))
	logger.SetOutput(cmd.ErrOrStderr())

	// The CLI does not serve metrics; a private registry keeps the collector local.
	collector := metrics.NewCollector("weather_narrator", prometheus.NewRegistry())

	var date string
	if len(args) > 0 {
		date = args[0]
	}

	var report *models.Report
	if payloadPath != "" {
		report, err = replay(cmd.Context(), cfg, logger, payloadPath, nowFlag, date)
	} else {
		var svc *services.ReportService
		svc, _, err = services.NewFromConfig(cfg, logger, collector)
		if err == nil {
			report, err = svc.GetReport(cmd.Context(), date)
		}
	}
	if err != nil {
		return err
	}

	return printReport(cmd.OutOrStdout(), report, jsonOutput, section)
}
