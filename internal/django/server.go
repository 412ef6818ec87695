package django

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"
)

// LaunchConfig describes how the development server subprocess is started.
//
// Design decision: Environment adjustments are part of the launch
// configuration rather than ambient process state, so every launch names
// exactly what it changes and tests can assert on the composed
// environment.
type LaunchConfig struct {
	// Host is the interface the server binds to.
	Host string

	// Port is the TCP port the server listens on.
	Port int

	// PythonBin is the interpreter used to run manage.py.
	PythonBin string

	// LogFile receives the server's stdout and stderr, keeping Django's
	// per-request log lines out of the audit output.
	LogFile string

	// DisableDebugToolbar switches the debug toolbar overlay off in the
	// child process. Injected toolbar markup would otherwise appear in
	// every validated page and fail checks the project's own templates
	// pass.
	DisableDebugToolbar bool

	// ExtraEnv entries are appended to the inherited environment as
	// KEY=value strings.
	ExtraEnv []string
}

// withDefaults fills unset launch fields with the standard values.
func (cfg LaunchConfig) withDefaults() LaunchConfig {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8799
	}
	if cfg.PythonBin == "" {
		cfg.PythonBin = "python"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "server-wcag-zoo-log.txt"
	}
	return cfg
}

// launchEnv composes the subprocess environment from the parent's plus the
// launch configuration's adjustments.
func launchEnv(cfg LaunchConfig) []string {
	env := os.Environ()
	if cfg.DisableDebugToolbar {
		env = append(env, "DEBUG_TOOLBAR=False")
	}
	return append(env, cfg.ExtraEnv...)
}

// DevServer manages the target project's development server subprocess.
// The process is a shared resource with a single owner: started once,
// terminated exactly once, on every exit path.
type DevServer struct {
	// project is the Django project whose manage.py runs the server.
	project Project

	// cfg is the normalized launch configuration.
	cfg LaunchConfig

	// startupTimeout is the maximum time to wait for the server to
	// accept connections.
	startupTimeout time.Duration

	// stopTimeout is how long Stop waits after SIGTERM before killing.
	stopTimeout time.Duration

	// logger is used for lifecycle logging.
	logger *slog.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan error
	log  *os.File
}

// DevServerOption configures a DevServer.
type DevServerOption func(*DevServer)

// WithStartupTimeout sets the maximum time to wait for the server to
// start accepting connections.
func WithStartupTimeout(timeout time.Duration) DevServerOption {
	return func(s *DevServer) {
		s.startupTimeout = timeout
	}
}

// WithStopTimeout sets how long Stop waits for a graceful exit after
// SIGTERM before escalating to SIGKILL.
func WithStopTimeout(timeout time.Duration) DevServerOption {
	return func(s *DevServer) {
		s.stopTimeout = timeout
	}
}

// WithServerLogger sets a custom logger for server lifecycle events.
func WithServerLogger(logger *slog.Logger) DevServerOption {
	return func(s *DevServer) {
		s.logger = logger
	}
}

// NewDevServer creates a development server manager for the project.
// Call Start to actually launch the subprocess.
func NewDevServer(project Project, cfg LaunchConfig, opts ...DevServerOption) *DevServer {
	s := &DevServer{
		project:        project,
		cfg:            cfg.withDefaults(),
		startupTimeout: 30 * time.Second,
		stopTimeout:    5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Addr returns the host:port the server is configured to listen on.
func (s *DevServer) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// IsRunning reports whether the server subprocess is currently alive.
func (s *DevServer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// Start launches the development server and waits until it accepts TCP
// connections. If the process exits first, times out, or the context is
// cancelled, the subprocess is already terminated when the error returns.
func (s *DevServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return ErrServerAlreadyRunning
	}

	logFile, err := os.Create(s.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create server log file: %w", err)
	}

	addr := s.Addr()

	// --noreload keeps the server in one process; the autoreloader forks
	// a child our signals would miss.
	cmd := exec.Command(s.cfg.PythonBin, s.project.ManagePy, "runserver", addr, "--noreload")
	cmd.Dir = s.project.Root
	cmd.Env = launchEnv(s.cfg)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		_ = logFile.Close() //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to start development server: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	s.logger.Info("development server starting",
		"addr", addr,
		"pid", cmd.Process.Pid,
		"log_file", s.cfg.LogFile,
	)

	if err := s.awaitReady(ctx, addr, done); err != nil {
		if !errors.Is(err, ErrServerExited) {
			_ = cmd.Process.Kill() //nolint:errcheck // Best effort cleanup
			<-done
		}
		_ = logFile.Close() //nolint:errcheck // Best effort cleanup
		return err
	}

	s.logger.Info("development server ready", "addr", addr)

	s.cmd = cmd
	s.done = done
	s.log = logFile
	return nil
}

// awaitReady polls the address until it accepts a connection. It does not
// terminate the subprocess itself; Start owns cleanup.
func (s *DevServer) awaitReady(ctx context.Context, addr string, done chan error) error {
	deadline := time.After(s.startupTimeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			_ = conn.Close() //nolint:errcheck // Readiness probe only
			return nil
		}

		select {
		case waitErr := <-done:
			return fmt.Errorf("%w (exit: %v): see %s", ErrServerExited, waitErr, s.cfg.LogFile)
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("%w (waited %s): see %s", ErrServerStartTimeout, s.startupTimeout, s.cfg.LogFile)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Stop terminates the development server: SIGTERM first, SIGKILL if the
// process lingers past the stop timeout. It is safe to call multiple
// times and on an unstarted instance, so callers can defer it
// unconditionally.
func (s *DevServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return nil
	}

	s.logger.Info("stopping development server", "pid", s.cmd.Process.Pid)

	_ = s.cmd.Process.Signal(syscall.SIGTERM) //nolint:errcheck // Process may already be gone

	select {
	case <-s.done:
	case <-time.After(s.stopTimeout):
		s.logger.Warn("development server ignored SIGTERM, killing", "pid", s.cmd.Process.Pid)
		_ = s.cmd.Process.Kill() //nolint:errcheck // Kill guarantees the Wait below returns
		<-s.done
	}

	var closeErr error
	if s.log != nil {
		closeErr = s.log.Close()
		s.log = nil
	}
	s.cmd = nil
	s.done = nil

	s.logger.Info("development server stopped")
	return closeErr
}
