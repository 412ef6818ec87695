package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/digehode/wcag-zoo-runner/internal/config"
)

// TestNewRoutesCmd tests the routes command creation.
func TestNewRoutesCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRoutesCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "routes" {
			t.Errorf("expected use 'routes', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has project-dir flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("project-dir")
		if flag == nil {
			t.Fatal("expected project-dir flag")
		}
		if flag.DefValue != config.DefaultProjectDir {
			t.Errorf("expected default %q, got %q", config.DefaultProjectDir, flag.DefValue)
		}
	})

	t.Run("has python flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("python")
		if flag == nil {
			t.Fatal("expected python flag")
		}
		if flag.DefValue != config.DefaultPythonBin {
			t.Errorf("expected default %q, got %q", config.DefaultPythonBin, flag.DefValue)
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})
}

// TestBuildRoutesConfig tests configuration building for the routes command.
func TestBuildRoutesConfig(t *testing.T) {
	// Keep the home directory lookup away from any real ~/.wcagzoo.
	t.Setenv("HOME", t.TempDir())

	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewRoutesCmd()
		cfg, err := buildRoutesConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ProjectDir != config.DefaultProjectDir {
			t.Errorf("expected project dir %q, got %q", config.DefaultProjectDir, cfg.ProjectDir)
		}
		if cfg.PythonBin != config.DefaultPythonBin {
			t.Errorf("expected python %q, got %q", config.DefaultPythonBin, cfg.PythonBin)
		}
	})

	t.Run("applies config file values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".wcagzoo")
		content := []byte("project: /srv/mysite\npython: python3\n")
		if err := os.WriteFile(configPath, content, 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewRoutesCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildRoutesConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ProjectDir != "/srv/mysite" {
			t.Errorf("expected project dir '/srv/mysite' from file, got %q", cfg.ProjectDir)
		}
		if cfg.PythonBin != "python3" {
			t.Errorf("expected python 'python3' from file, got %q", cfg.PythonBin)
		}
	})

	t.Run("explicit flags override the config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".wcagzoo")
		content := []byte("project: /srv/mysite\npython: python3\n")
		if err := os.WriteFile(configPath, content, 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewRoutesCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("project-dir", "./site")
		cfg, err := buildRoutesConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ProjectDir != "./site" {
			t.Errorf("expected flag project dir './site' to win, got %q", cfg.ProjectDir)
		}
		if cfg.PythonBin != "python3" {
			t.Errorf("expected file python 'python3' to survive, got %q", cfg.PythonBin)
		}
	})

	t.Run("missing explicit config file returns error", func(t *testing.T) {
		cmd := NewRoutesCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing"))

		_, err := buildRoutesConfig(cmd)
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}
