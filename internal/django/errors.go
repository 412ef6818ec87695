package django

import "errors"

// Project and server errors.
//
// Design decision: We define specific error values rather than wrapping all
// errors generically. This allows callers to handle different failure modes
// appropriately (e.g., print a hint about the project directory on
// ErrProjectNotFound, but dump the server log on ErrServerStartTimeout).
var (
	// ErrProjectNotFound is returned when no manage.py can be located at
	// or directly below the configured project directory.
	ErrProjectNotFound = errors.New("no Django project found (manage.py missing)")

	// ErrServerAlreadyRunning is returned by Start when the server
	// subprocess is already alive. A DevServer owns exactly one process.
	ErrServerAlreadyRunning = errors.New("development server is already running")

	// ErrServerStartTimeout is returned when the server process stays
	// alive but never starts accepting connections within the startup
	// timeout.
	ErrServerStartTimeout = errors.New("development server did not become ready in time")

	// ErrServerExited is returned when the server process terminates
	// before ever accepting a connection, usually a settings or port
	// problem explained in the server log.
	ErrServerExited = errors.New("development server exited during startup")
)
