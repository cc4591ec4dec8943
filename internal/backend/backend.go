// Package backend runs panel session processes and reports on them. The TUI
// never touches processes directly; everything goes through this interface so
// the workspace logic stays independent of how sessions are hosted.
package backend

// EventType identifies a backend notification.
type EventType string

const (
	// EventSessionExited fires when a session's process terminates for any
	// reason. Delivery is at-least-once: consumers must tolerate repeats and
	// ids they no longer track.
	EventSessionExited EventType = "session_exited"
)

// Event is a backend notification delivered to subscribers.
type Event struct {
	Type      EventType
	SessionID string
	ExitCode  int
}

// StartOptions configures a new session process.
type StartOptions struct {
	// Dir is the working directory. Empty means inherit.
	Dir string
	// Command is the program to run; Args are its arguments.
	Command string
	Args    []string
	// Env entries are appended to the inherited environment.
	Env []string
	// Cols and Rows set the initial PTY size. Zero means 80x24.
	Cols int
	Rows int
}

// Backend hosts session processes.
//
// Alive never returns an error: an unknown or unreachable session reads as
// not running. Probe callers rely on that.
type Backend interface {
	// Start launches a process for the given session id and returns its pid.
	Start(id string, opts StartOptions) (int, error)
	// Alive reports whether the session's process is currently running.
	Alive(id string) bool
	// Terminate asks the session's process to stop and releases its records
	// once it has.
	Terminate(id string) error
	// Write sends input bytes to the session's terminal.
	Write(id string, p []byte) error
	// Resize adjusts the session's terminal size.
	Resize(id string, cols, rows int) error
	// Tail returns up to n trailing lines of output, ANSI-stripped.
	Tail(id string, n int) []string
	// Sessions lists the ids the backend currently knows.
	Sessions() []string
	// Subscribe returns a channel of events and an unsubscribe func.
	Subscribe() (<-chan Event, func())
	// Close terminates every session and shuts the event stream.
	Close() error
}
