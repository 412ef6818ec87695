package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/digehode/wcag-zoo-runner/internal/config"
	"github.com/digehode/wcag-zoo-runner/internal/django"
	"github.com/digehode/wcag-zoo-runner/internal/log"
	"github.com/digehode/wcag-zoo-runner/internal/model"
	"github.com/digehode/wcag-zoo-runner/internal/routes"
)

// NewRoutesCmd creates the routes command.
func NewRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the generated URL plan for the project's routes",
		Long: `Routes lists the project's routing table and classifies every route into
the sections of a URL plan, printed in the INI format the run command
consumes.

Routes under admin/, media/, static/ and __debug__/ are excluded; routes
with parameter placeholders such as products/<int:id>/ go to the [test]
section as commented entries for a human to fill in with real values;
everything else is included.

Examples:
  # Print the plan for the project in the current directory
  wcag-zoo-runner routes

  # Write it to the default plan file the run command picks up
  wcag-zoo-runner routes --output wcag_zoo_runner.ini`,
		Args: cobra.NoArgs,
		RunE: runRoutesCmd,
	}

	cmd.Flags().String("project-dir", config.DefaultProjectDir,
		"Directory containing manage.py (or a subdirectory that does)")
	cmd.Flags().String("python", config.DefaultPythonBin,
		"Python interpreter used to run manage.py")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wcagzoo in current or home directory)")
	cmd.Flags().StringP("output", "o", "",
		"Write the plan to this file instead of stdout")

	return cmd
}

// runRoutesCmd executes the routes command.
func runRoutesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRoutesConfig(cmd)
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	verbosity, err := model.ParseVerbosity(cfg.VerbosityLevel)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, verbosity)
	slog.SetDefault(logger)

	project, err := django.FindProject(cfg.ProjectDir)
	if err != nil {
		return err
	}

	launch := django.LaunchConfig{
		PythonBin:           cfg.PythonBin,
		DisableDebugToolbar: true,
	}
	source := django.NewManageSource(project, launch, django.WithManageLogger(logger))

	live, err := source.ListRoutes(context.Background())
	if err != nil {
		return err
	}

	plan := routes.Classify(live)

	if outputPath != "" {
		if err := config.SavePlan(outputPath, plan); err != nil {
			return fmt.Errorf("failed to write plan: %w", err)
		}
		fmt.Printf("Wrote plan for %d routes to %s\n", len(live), outputPath)
		return nil
	}

	return config.WritePlan(os.Stdout, plan)
}

// buildRoutesConfig creates a Config from the routes command's flags
// layered over the optional .wcagzoo file.
func buildRoutesConfig(cmd *cobra.Command) (*config.Config, error) {
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

	return cfg, nil
}
