package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lakbaycli/internal/apiclient"
	"lakbaycli/internal/config"
	"lakbaycli/internal/exporter"
	"lakbaycli/internal/infrastructure"
	"lakbaycli/internal/render"
	"lakbaycli/internal/services"
	"lakbaycli/pkg/contracts"
	"lakbaycli/pkg/contracts/domain"
)

// Root flags
var (
	configFile string // --config path to config.yaml
	apiToken   string // --token bearer token for the Lakbay API
	outDir     string // -o/--out reports directory
	logLevel   string // --log-level
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lakbay-report",
		Short: "Generate Lakbay Cavite admin reports",
		Long: `Generate the Lakbay Cavite admin reports as PDF, XLSX or CSV files.

Records are read from the Lakbay API configured by LAKBAY_API_BASE_URL
(or api.base_url in config.yaml). Reports are written to the reports
directory under their standard filename.

Examples:
  lakbay-report export users --mode all
  lakbay-report export events --mode filtered --start 2024-06-01 --end 2024-06-30
  lakbay-report export hotlines --mode filtered --category "Ambulance/ Medical" --format xlsx
  lakbay-report export users --mode current --records page.json
  lakbay-report monthly --format pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       contracts.VersionString(),
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: config.yaml if present)")
	root.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token for the Lakbay API (default: api.token)")
	root.PersistentFlags().StringVarP(&outDir, "out", "o", "", "directory reports are written to (default: reports.output_dir)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newExportCmd(), newMonthlyCmd())
	return root
}

// cliRuntime is everything a report command needs
type cliRuntime struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *apiclient.Client
	reports *services.ReportService
	saver   *exporter.FileSaver
}

func setup(cmd *cobra.Command) (*cliRuntime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		cfg.Reports.OutputDir = outDir
	}

	// Logs go to stderr; stdout carries the written report path
	logger := infrastructure.NewJSONLogger(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: levelOf(logLevel)})

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := os.MkdirAll(paths.ReportsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	client, err := apiclient.New(cfg.API, apiclient.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	if apiToken != "" {
		client = client.WithToken(apiToken)
	}

	metrics, err := infrastructure.NewExportMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create export metrics: %w", err)
	}

	reports := services.NewReportService(func(string) services.LakbayAPI { return client }, services.ReportServiceOptions{
		Settings:      exporter.SettingsFromConfig(cfg, logger),
		Render:        render.Options{ValidatePDF: cfg.Reports.ValidatePDF},
		DefaultFormat: cfg.Reports.DefaultFormat,
		Metrics:       metrics,
		Logger:        logger,
	})
	reports.AddListener(exporter.StatusListenerFunc(func(s domain.ExportStatus) {
		logger.Debug("export status",
			slog.String("record_type", string(s.RecordType)),
			slog.String("state", string(s.State)),
			slog.String("outcome", string(s.LastOutcome)))
	}))

	return &cliRuntime{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		reports: reports,
		saver:   exporter.NewFileSaver(paths, logger),
	}, nil
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}

func levelOf(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// printArtifact reports where an artifact was written
func (rt *cliRuntime) printArtifact(cmd *cobra.Command, artifact *domain.ExportArtifact) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d records)\n", rt.saver.Path(artifact.Filename), artifact.RecordCount)
}
