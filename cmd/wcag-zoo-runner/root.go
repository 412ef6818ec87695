// Package main provides the entry point for the wcag-zoo-runner CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digehode/wcag-zoo-runner/internal/config"
)

// NewRootCmd creates the root command for wcag-zoo-runner.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wcag-zoo-runner",
		Short: "WCAG accessibility audit runner for Django projects",
		Long: `wcag-zoo-runner audits a Django project's pages against WCAG success
criteria. It discovers the project's routes, verifies the URL plan covers
them, starts the development server, fetches every planned URL, and runs
the wcag-zoo validators over each page.

By default the development server is started automatically and stopped
when the audit finishes. Use --no-server to audit a server you already
have running.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().IntP("verbosity", "v", config.DefaultVerbosity,
		"Report verbosity: 0 failures, 1 +warnings, 2 +skipped, 3 +successes, 4 +debug")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewRoutesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
