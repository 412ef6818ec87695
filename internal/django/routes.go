package django

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// RouteSource yields the route table of the target application.
//
// Design decision: We use an interface rather than calling the manage.py
// implementation directly because:
//  1. Enables testing the commands against canned route tables
//  2. Leaves room for other sources (a fixture file, a urls.py parser)
type RouteSource interface {
	// ListRoutes returns every route the target application would route,
	// nested mounts flattened to absolute patterns.
	ListRoutes(ctx context.Context) ([]model.Route, error)
}

// routeMarker prefixes every route line the dump script prints, so route
// data survives whatever banners or warnings the project writes to stdout
// on import. The literal inside routeDumpScript must match.
const routeMarker = "WCAGZOO-ROUTE"

// routeDumpScript walks the project's own resolver, flattening nested
// includes by concatenating their pattern prefixes and qualifying route
// names with their namespace the way reverse() expects them.
const routeDumpScript = `
from django.urls import get_resolver

def walk(patterns, prefix, ns):
    for entry in patterns:
        if hasattr(entry, "url_patterns"):
            sub = ns + entry.namespace + ":" if getattr(entry, "namespace", None) else ns
            walk(entry.url_patterns, prefix + str(entry.pattern), sub)
        else:
            name = ns + entry.name if entry.name else ""
            print("WCAGZOO-ROUTE\t%s\t%s" % (prefix + str(entry.pattern), name))

walk(get_resolver().url_patterns, "", "")
`

// ManageSource extracts routes by running a resolver dump through
// manage.py shell, so the table is exactly what the project itself would
// route, custom converters and namespaced includes included.
type ManageSource struct {
	project Project
	cfg     LaunchConfig
	logger  *slog.Logger
}

// ManageSourceOption configures a ManageSource.
type ManageSourceOption func(*ManageSource)

// WithManageLogger sets a custom logger for route extraction.
func WithManageLogger(logger *slog.Logger) ManageSourceOption {
	return func(m *ManageSource) {
		m.logger = logger
	}
}

// NewManageSource creates a route source for the project. The launch
// configuration supplies the interpreter and environment; host and port
// are irrelevant here and may be zero.
func NewManageSource(project Project, cfg LaunchConfig, opts ...ManageSourceOption) *ManageSource {
	m := &ManageSource{
		project: project,
		cfg:     cfg.withDefaults(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m
}

// ListRoutes runs the resolver dump and parses the marked lines out of
// its output.
func (m *ManageSource) ListRoutes(ctx context.Context) ([]model.Route, error) {
	cmd := exec.CommandContext(ctx, m.cfg.PythonBin, m.project.ManagePy, "shell", "-c", routeDumpScript)
	cmd.Dir = m.project.Root
	cmd.Env = launchEnv(m.cfg)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("failed to list routes: %w: %s",
				err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	routes := parseRouteLines(string(output))
	m.logger.Debug("route table extracted", "routes", len(routes))
	return routes, nil
}

// parseRouteLines picks marker lines out of shell output. Everything else
// (shell banners, project print statements, warnings) is ignored.
func parseRouteLines(output string) []model.Route {
	var routes []model.Route
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, routeMarker+"\t") {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		routes = append(routes, model.Route{Pattern: fields[1], Name: fields[2]})
	}
	return routes
}
