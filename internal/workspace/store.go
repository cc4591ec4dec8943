// Package workspace owns the panel/session tree and the liveness map that
// the grid renders from. All mutation happens through the Store so the
// structural invariants hold after every operation; the TUI update loop is
// the only writer.
package workspace

import (
	"path/filepath"

	"github.com/google/uuid"
)

// SplitDirection selects the axis a new panel is inserted along.
type SplitDirection int

const (
	SplitRight SplitDirection = iota
	SplitDown
)

// Orientation is the grid's split axis.
type Orientation int

const (
	Columns Orientation = iota
	Rows
)

// Session is one terminal process hosted by a panel.
type Session struct {
	ID      string
	PID     int
	Title   string
	Command string
}

// Panel holds an ordered set of sessions with one active. Shared panels live
// in the pinned dock instead of the grid.
type Panel struct {
	ID              string
	Sessions        []Session
	ActiveSessionID string
	Shared          bool
	CWD             string
}

// ActiveSession returns the active member, or nil for an empty panel.
func (p *Panel) ActiveSession() *Session {
	for i := range p.Sessions {
		if p.Sessions[i].ID == p.ActiveSessionID {
			return &p.Sessions[i]
		}
	}
	return nil
}

func (p *Panel) sessionIndex(id string) int {
	for i := range p.Sessions {
		if p.Sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// Store is the panel tree. Operations on ids that no longer exist are
// silent no-ops: UI events race with closes and must never error.
type Store struct {
	panels      []*Panel
	orientation Orientation
}

func New() *Store {
	return &Store{orientation: Columns}
}

func (s *Store) Orientation() Orientation     { return s.orientation }
func (s *Store) SetOrientation(o Orientation) { s.orientation = o }

func newSession(command string) Session {
	return Session{
		ID:      uuid.NewString(),
		Title:   filepath.Base(command),
		Command: command,
	}
}

// AddPanel creates a panel with one default session and inserts it into the
// grid sequence after the panel named by after (or at the end). A direction
// that disagrees with the current orientation flips the grid axis.
func (s *Store) AddPanel(dir SplitDirection, after, cwd, command string) *Panel {
	if dir == SplitRight && s.orientation != Columns {
		s.orientation = Columns
	}
	if dir == SplitDown && s.orientation != Rows {
		s.orientation = Rows
	}

	sess := newSession(command)
	p := &Panel{
		ID:              uuid.NewString(),
		Sessions:        []Session{sess},
		ActiveSessionID: sess.ID,
		CWD:             cwd,
	}

	pos := len(s.panels)
	for i, existing := range s.panels {
		if existing.ID == after {
			pos = i + 1
			break
		}
	}
	s.panels = append(s.panels, nil)
	copy(s.panels[pos+1:], s.panels[pos:])
	s.panels[pos] = p
	return p
}

// EnsureGridPanel bootstraps the grid: when no unshared panel exists, one is
// created so the workspace is never empty. Returns the new panel, or nil
// when the grid was already populated.
func (s *Store) EnsureGridPanel(cwd, command string) *Panel {
	if len(s.GridPanels()) > 0 {
		return nil
	}
	return s.AddPanel(SplitRight, "", cwd, command)
}

// ClosePanel removes the panel and returns its sessions so the caller can
// terminate their processes. Unknown ids return nil.
func (s *Store) ClosePanel(id string) []Session {
	for i, p := range s.panels {
		if p.ID == id {
			s.panels = append(s.panels[:i], s.panels[i+1:]...)
			return p.Sessions
		}
	}
	return nil
}

// ToggleShared flips a panel between grid and dock. Sessions and the active
// selection are untouched.
func (s *Store) ToggleShared(id string) bool {
	p := s.Panel(id)
	if p == nil {
		return false
	}
	p.Shared = !p.Shared
	return true
}

// AddSession appends a new session to the panel and makes it active.
func (s *Store) AddSession(panelID, command string) (Session, bool) {
	p := s.Panel(panelID)
	if p == nil {
		return Session{}, false
	}
	sess := newSession(command)
	p.Sessions = append(p.Sessions, sess)
	p.ActiveSessionID = sess.ID
	return sess, true
}

// CloseSession removes a session. When the active session closes, the next
// one in order is selected, else the previous; closing the last session
// closes the panel. panelClosed tells the caller the panel itself was
// removed.
func (s *Store) CloseSession(panelID, sessionID string) (closed Session, panelClosed, ok bool) {
	p := s.Panel(panelID)
	if p == nil {
		return Session{}, false, false
	}
	i := p.sessionIndex(sessionID)
	if i < 0 {
		return Session{}, false, false
	}
	closed = p.Sessions[i]
	wasActive := p.ActiveSessionID == sessionID
	p.Sessions = append(p.Sessions[:i], p.Sessions[i+1:]...)

	if len(p.Sessions) == 0 {
		s.ClosePanel(panelID)
		return closed, true, true
	}
	if wasActive {
		next := i
		if next >= len(p.Sessions) {
			next = len(p.Sessions) - 1
		}
		p.ActiveSessionID = p.Sessions[next].ID
	}
	return closed, false, true
}

// SelectSession activates a member session; non-members are a no-op.
func (s *Store) SelectSession(panelID, sessionID string) bool {
	p := s.Panel(panelID)
	if p == nil || p.sessionIndex(sessionID) < 0 {
		return false
	}
	p.ActiveSessionID = sessionID
	return true
}

// RenameSession updates presentation metadata only.
func (s *Store) RenameSession(panelID, sessionID, title string) bool {
	p := s.Panel(panelID)
	if p == nil {
		return false
	}
	i := p.sessionIndex(sessionID)
	if i < 0 {
		return false
	}
	p.Sessions[i].Title = title
	return true
}

// SetSessionPID records the backend pid once the process has started.
func (s *Store) SetSessionPID(sessionID string, pid int) bool {
	for _, p := range s.panels {
		if i := p.sessionIndex(sessionID); i >= 0 {
			p.Sessions[i].PID = pid
			return true
		}
	}
	return false
}

// Panel returns the panel with the given id, or nil.
func (s *Store) Panel(id string) *Panel {
	for _, p := range s.panels {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PanelBySession returns the panel owning the session, or nil.
func (s *Store) PanelBySession(sessionID string) *Panel {
	for _, p := range s.panels {
		if p.sessionIndex(sessionID) >= 0 {
			return p
		}
	}
	return nil
}

// Panels returns every panel in insertion order.
func (s *Store) Panels() []*Panel { return s.panels }

// GridPanels returns the unshared panels in order.
func (s *Store) GridPanels() []*Panel {
	var out []*Panel
	for _, p := range s.panels {
		if !p.Shared {
			out = append(out, p)
		}
	}
	return out
}

// SharedPanels returns the pinned panels in order.
func (s *Store) SharedPanels() []*Panel {
	var out []*Panel
	for _, p := range s.panels {
		if p.Shared {
			out = append(out, p)
		}
	}
	return out
}

// SessionIDs returns every session id across all panels; this is the
// tracked set fed to the liveness tracker.
func (s *Store) SessionIDs() []string {
	var out []string
	for _, p := range s.panels {
		for i := range p.Sessions {
			out = append(out, p.Sessions[i].ID)
		}
	}
	return out
}
