package backend

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

type procSession struct {
	cmd     *exec.Cmd
	ptmx    *os.File
	buf     *lineBuffer
	pid     int
	exited  bool
	code    int
	removed bool
}

// Local hosts sessions as child processes on a PTY.
type Local struct {
	mu         sync.Mutex
	sessions   map[string]*procSession
	bus        *bus
	scrollback int
	closed     bool
}

// NewLocal returns a backend keeping scrollback lines of output per session.
func NewLocal(scrollback int) *Local {
	return &Local{
		sessions:   make(map[string]*procSession),
		bus:        newBus(),
		scrollback: scrollback,
	}
}

func (l *Local) Start(id string, opts StartOptions) (int, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, fmt.Errorf("backend closed")
	}
	if _, ok := l.sessions[id]; ok {
		l.mu.Unlock()
		return 0, fmt.Errorf("session %s already running", id)
	}
	l.mu.Unlock()

	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)

	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return 0, fmt.Errorf("start session %s: %w", id, err)
	}

	s := &procSession{
		cmd:  cmd,
		ptmx: ptmx,
		buf:  newLineBuffer(l.scrollback),
		pid:  cmd.Process.Pid,
	}
	l.mu.Lock()
	l.sessions[id] = s
	l.mu.Unlock()

	// Reader drains the PTY into the preview buffer. On Linux the read
	// returns EIO once the child exits; the error is expected either way.
	go func() {
		_, _ = io.Copy(s.buf, ptmx)
	}()

	// Waiter reaps the process and publishes the exit event.
	go func() {
		err := cmd.Wait()
		code := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else if err != nil {
			code = -1
		}
		_ = ptmx.Close()

		l.mu.Lock()
		s.exited = true
		s.code = code
		if s.removed {
			delete(l.sessions, id)
		}
		l.mu.Unlock()

		l.bus.publish(Event{Type: EventSessionExited, SessionID: id, ExitCode: code})
	}()

	return s.pid, nil
}

// Alive reports whether the session's process is running. Unknown ids read
// as not running; a session whose process died but has not been reaped yet
// is caught by the zero-signal probe.
func (l *Local) Alive(id string) bool {
	l.mu.Lock()
	s, ok := l.sessions[id]
	if !ok || s.exited {
		l.mu.Unlock()
		return false
	}
	pid := s.pid
	l.mu.Unlock()

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func (l *Local) Terminate(id string) error {
	l.mu.Lock()
	s, ok := l.sessions[id]
	if !ok {
		l.mu.Unlock()
		return nil
	}
	if s.exited {
		delete(l.sessions, id)
		l.mu.Unlock()
		return nil
	}
	s.removed = true
	l.mu.Unlock()

	// TERM first, then close the PTY; losing the controlling terminal HUPs
	// shells that ignore TERM. The waiter goroutine reaps and cleans up.
	_ = s.cmd.Process.Signal(syscall.SIGTERM)
	_ = s.ptmx.Close()
	return nil
}

func (l *Local) Write(id string, p []byte) error {
	l.mu.Lock()
	s, ok := l.sessions[id]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session %s", id)
	}
	if _, err := s.ptmx.Write(p); err != nil {
		return fmt.Errorf("write session %s: %w", id, err)
	}
	return nil
}

func (l *Local) Resize(id string, cols, rows int) error {
	l.mu.Lock()
	s, ok := l.sessions[id]
	l.mu.Unlock()
	if !ok || cols <= 0 || rows <= 0 {
		return nil
	}
	return pty.Setsize(s.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func (l *Local) Tail(id string, n int) []string {
	l.mu.Lock()
	s, ok := l.sessions[id]
	l.mu.Unlock()
	if !ok {
		return nil
	}
	return s.buf.Tail(n)
}

func (l *Local) Sessions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.sessions))
	for id := range l.sessions {
		out = append(out, id)
	}
	return out
}

func (l *Local) Subscribe() (<-chan Event, func()) {
	return l.bus.subscribe()
}

func (l *Local) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	ids := make([]string, 0, len(l.sessions))
	for id := range l.sessions {
		ids = append(ids, id)
	}
	l.mu.Unlock()

	for _, id := range ids {
		_ = l.Terminate(id)
	}
	l.bus.close()
	return nil
}
