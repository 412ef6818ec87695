package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/digehode/wcag-zoo-runner/internal/config"
	"github.com/digehode/wcag-zoo-runner/internal/database"
	"github.com/digehode/wcag-zoo-runner/internal/django"
	"github.com/digehode/wcag-zoo-runner/internal/fetch"
	"github.com/digehode/wcag-zoo-runner/internal/log"
	"github.com/digehode/wcag-zoo-runner/internal/model"
	"github.com/digehode/wcag-zoo-runner/internal/pipeline"
	"github.com/digehode/wcag-zoo-runner/internal/report"
	"github.com/digehode/wcag-zoo-runner/internal/routes"
	"github.com/digehode/wcag-zoo-runner/internal/wcag"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Audit a Django project's pages against WCAG success criteria",
		Long: `Run performs a full accessibility audit of a Django project.

It lists the project's routes, checks that the URL plan covers them,
starts the development server, fetches every included URL, and validates
each page with the wcag-zoo checks:
- tarsier: heading hierarchy
- anteater: image text alternatives
- ayeaye: accesskey uniqueness
- molerat: colour contrast

The audit exits zero even when accessibility failures were found; a
non-zero exit means the run itself failed (a page could not be fetched,
the configuration was invalid, or a validator misbehaved).

Examples:
  # Audit the project in the current directory
  wcag-zoo-runner run

  # Audit at AA with successes shown too
  wcag-zoo-runner run --level AA -v 3

  # Audit a project elsewhere, against a server already running
  wcag-zoo-runner run --project-dir ~/src/mysite --no-server

  # Write a markdown report next to the console output
  wcag-zoo-runner run --markdown -o report.md

Configuration file (.wcagzoo) example:
  port: 8799
  level: AA
  concurrency: 4
  validators:
    - tarsier
    - molerat`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	// Server flags
	cmd.Flags().IntP("port", "p", config.DefaultPort,
		"Port to start the development server on and fetch from")
	cmd.Flags().String("project-dir", config.DefaultProjectDir,
		"Directory containing manage.py (or a subdirectory that does)")
	cmd.Flags().String("python", config.DefaultPythonBin,
		"Python interpreter used to run manage.py")
	cmd.Flags().Bool("no-server", false,
		"Do not start the development server; audit the one already running")

	// Audit behavior flags
	cmd.Flags().StringP("staticpath", "s", config.DefaultStaticPath,
		"Directory validators resolve static assets from")
	cmd.Flags().StringP("level", "l", config.DefaultLevel,
		"WCAG conformance level to check against (AA or AAA)")
	cmd.Flags().String("plan", "",
		"URL plan file path (default: wcag_zoo_runner.ini in the project directory)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of URLs audited at once (1 keeps report order)")
	cmd.Flags().Bool("fail-fast", false,
		"Abort the audit on the first URL that cannot be fetched")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wcagzoo in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Write a JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write a Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the JSON or Markdown report to this file (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Do not store the completed run in the history database")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbosity, err := model.ParseVerbosity(cfg.VerbosityLevel)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging on stderr so the report owns stdout
	logger := log.NewLogger(os.Stderr, verbosity)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, verbosity, logger)
}

// getVerbosityFlag retrieves the persistent verbosity flag, reporting
// whether the user set it explicitly so the config file keeps precedence
// over the flag's default.
func getVerbosityFlag(cmd *cobra.Command) (int, bool) {
	flags := cmd.Root().PersistentFlags()
	verbosity, err := flags.GetInt("verbosity")
	if err != nil {
		return config.DefaultVerbosity, false
	}
	return verbosity, flags.Changed("verbosity")
}

// layerConfigFile overlays the optional .wcagzoo file onto cfg.
// If the user explicitly specified a config file path, error if not found.
// If no path specified, silently use the defaults if no file is found.
func layerConfigFile(cfg *config.Config, configPath string) error {
	cfg.ConfigFilePath = configPath

	found := config.FindConfigFile(configPath)
	if found == "" {
		if configPath != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(found)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", found, err)
	}
	file.ApplyTo(cfg)
	return nil
}

// buildRunConfig creates a Config from the run command's flags layered over
// the optional .wcagzoo file: defaults first, then file values, then flags
// the user actually set.
func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if err := layerConfigFile(cfg, configPath); err != nil {
		return nil, err
	}

	if verbosity, changed := getVerbosityFlag(cmd); changed {
		cfg.VerbosityLevel = verbosity
	}

	// Flags with a .wcagzoo counterpart apply only when set, so file values
	// are not clobbered by flag defaults.
	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("project-dir") {
		if cfg.ProjectDir, err = flags.GetString("project-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("python") {
		if cfg.PythonBin, err = flags.GetString("python"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("staticpath") {
		if cfg.StaticPath, err = flags.GetString("staticpath"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("level") {
		if cfg.Level, err = flags.GetString("level"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("plan") {
		if cfg.PlanFile, err = flags.GetString("plan"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	// Flags with no file counterpart read unconditionally.
	if cfg.NoServer, err = flags.GetBool("no-server"); err != nil {
		return nil, err
	}
	if cfg.FailFast, err = flags.GetBool("fail-fast"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	return cfg, nil
}

// runAudit prepares the audit and runs it inside the development server's
// start/stop bracket. Everything that can fail on configuration alone (the
// plan file, the validator names, the route listing) fails before the
// server subprocess is touched.
func runAudit(ctx context.Context, cfg *config.Config, verbosity model.Verbosity, logger *slog.Logger) error {
	project, err := django.FindProject(cfg.ProjectDir)
	if err != nil {
		return err
	}
	logger.Info("project located", "root", project.Root)

	plan, found, err := loadPlan(cfg, project)
	if err != nil {
		return err
	}

	factories, err := wcag.FactoriesByName(cfg.Validators)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	launch := django.LaunchConfig{
		Host:                cfg.Host,
		Port:                cfg.Port,
		PythonBin:           cfg.PythonBin,
		LogFile:             cfg.ServerLogFile,
		DisableDebugToolbar: true,
	}

	source := django.NewManageSource(project, launch, django.WithManageLogger(logger))
	live, err := source.ListRoutes(ctx)
	if err != nil {
		return err
	}

	if found {
		logger.Info("plan loaded",
			"include", len(plan.Include),
			"exclude", len(plan.Exclude),
			"test", len(plan.Complex),
		)
	} else {
		plan = routes.Classify(live)
		logger.Info("plan generated from live route table",
			"routes", len(live),
			"include", len(plan.Include),
		)
	}

	gaps := routes.Verify(plan, live)

	if !cfg.NoServer {
		server := django.NewDevServer(project, launch, django.WithServerLogger(logger))
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := server.Stop(); err != nil {
				logger.Error("failed to stop development server", "error", err)
			}
		}()
	}

	return audit(ctx, cfg, verbosity, logger, factories, plan, gaps)
}

// loadPlan reads the URL plan if one exists. The boolean reports whether a
// plan file was found; a malformed plan is fatal either way, and a plan
// named explicitly must exist.
func loadPlan(cfg *config.Config, project django.Project) (model.URLPlan, bool, error) {
	path := cfg.PlanFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(project.Root, config.DefaultPlanFile)
	}

	plan, err := config.LoadPlan(path)
	if err == nil {
		return plan, true, nil
	}
	if os.IsNotExist(err) && !explicit {
		return model.URLPlan{}, false, nil
	}
	return model.URLPlan{}, false, fmt.Errorf("failed to load plan: %w", err)
}

// audit fetches and validates every included URL against the running
// server and renders, stores, and returns the outcome.
func audit(
	ctx context.Context,
	cfg *config.Config,
	verbosity model.Verbosity,
	logger *slog.Logger,
	factories []wcag.Factory,
	plan model.URLPlan,
	gaps []model.CoverageGap,
) error {
	client := &http.Client{Timeout: cfg.Timeout}
	fetcher := fetch.NewFetcher(client,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)

	runner := pipeline.NewRunner(
		wcag.Options{StaticPath: cfg.StaticPath, Level: cfg.Level},
		pipeline.WithFactories(factories...),
		pipeline.WithRunnerLogger(logger),
	)

	batch := pipeline.NewBatch(fetcher, runner,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithFailFast(cfg.FailFast),
		pipeline.WithBatchLogger(logger),
	)

	// stdout carries exactly one report. The console rendering is
	// suppressed when a structured format writes there instead.
	consoleOut := io.Writer(os.Stdout)
	if (cfg.JSONReport || cfg.MarkdownReport) && cfg.ReportFile == "" {
		consoleOut = io.Discard
	}
	console := report.NewConsoleWriter(consoleOut, report.WithConsoleVerbosity(verbosity))

	auditReport := model.NewAuditReport(cfg.BaseURL(), cfg.Level)
	auditReport.Gaps = gaps

	if _, err := console.WriteGaps(gaps); err != nil {
		return err
	}

	urls := fetchURLs(cfg.BaseURL(), plan.Include)

	// The callback streams each page as it completes; the callback runs on
	// the worker goroutine, so console access is serialized here.
	var mu sync.Mutex
	started := time.Now()
	results, err := batch.ProcessWithCallback(ctx, urls, func(result model.PageResult, _ int) {
		mu.Lock()
		defer mu.Unlock()
		if _, werr := console.WritePage(result); werr != nil {
			logger.Error("console write failed", "url", result.URL, "error", werr)
		}
	})
	auditReport.Elapsed = time.Since(started)

	for _, result := range results {
		if result.URL == "" {
			continue // slot never ran, the batch was aborted first
		}
		auditReport.AddPage(result)
	}

	if _, werr := console.WriteTotals(auditReport); werr != nil {
		logger.Error("console write failed", "error", werr)
	}

	// A terminal per-URL failure with fail-fast off still produced a
	// complete report; a schema violation or cancellation did not.
	completed := err == nil
	var schemaErr *model.KeySchemaError
	if err != nil && !cfg.FailFast && ctx.Err() == nil && !errors.As(err, &schemaErr) {
		completed = true
	}

	if completed && (cfg.JSONReport || cfg.MarkdownReport) {
		if werr := writeStructuredReport(cfg, auditReport); werr != nil {
			return werr
		}
	}

	if completed && cfg.SaveToDB {
		saveReport(ctx, cfg, auditReport, logger)
	}

	return err
}

// fetchURLs builds the absolute URLs to audit from the plan's include
// entries, in plan order.
func fetchURLs(baseURL string, include []string) []string {
	urls := make([]string, 0, len(include))
	for _, entry := range include {
		urls = append(urls, baseURL+routes.CanonicalPath(routes.Sanitise(entry)))
	}
	return urls
}

// writeStructuredReport writes the JSON or Markdown report to the
// configured file, or to stdout when no file was named.
func writeStructuredReport(cfg *config.Config, auditReport *model.AuditReport) error {
	var output io.Writer = os.Stdout
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Write errors surface from the writer
		output = f
	}

	var writer report.Writer
	if cfg.JSONReport {
		writer = report.NewJSONWriter(output, getVersion(), report.WithPrettyPrint())
	} else {
		writer = report.NewMarkdownWriter(output)
	}

	_, err := writer.Write(auditReport)
	return err
}

// saveReport stores the finished run for the history command. Failures are
// logged, not fatal; the audit itself already succeeded.
func saveReport(ctx context.Context, cfg *config.Config, auditReport *model.AuditReport, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	runID, err := db.SaveAuditReport(ctx, auditReport)
	if err != nil {
		logger.Error("failed to save audit report", "error", err)
		return
	}
	logger.Info("audit report saved", "run_id", runID, "db_dir", cfg.DBDir)
}
