package tui

import (
	"time"

	"github.com/jwren/berth/internal/catalog"
	"github.com/jwren/berth/internal/database/repository"
	"github.com/jwren/berth/internal/nav"
)

// Messages re-entering the update loop from commands. Everything async in the
// app arrives as exactly one of these.

// tickMsg drives the liveness probe cadence.
type tickMsg time.Time

// livenessMsg carries one completed probe batch.
type livenessMsg struct {
	token   uint64
	results map[string]bool
}

// sessionExitedMsg is a backend exit event.
type sessionExitedMsg struct {
	sessionID string
	code      int
}

// eventStreamClosedMsg means the backend subscription ended; no re-arm.
type eventStreamClosedMsg struct{}

// sessionStartedMsg reports a successfully spawned process.
type sessionStartedMsg struct {
	sessionID string
	pid       int
}

// rescanTriggerMsg fires when the watcher saw the workspace root change.
type rescanTriggerMsg struct{}

type scanDoneMsg struct {
	stats catalog.ScanStats
}

type projectsMsg []repository.Project

type projectSessionsMsg struct {
	project  repository.Project
	sessions []repository.Session
}

type transcriptMsg struct {
	session     repository.Session
	projectName string
	msgs        []catalog.Message
	omitted     int
}

type itemsMsg struct {
	kind  string
	items []repository.Item
}

type searchMsg []catalog.SearchHit

// hydratedMsg is the one-shot deep-link resolution landing.
type hydratedMsg struct {
	entry nav.Entry
}

// hydrateMissMsg leaves history untouched and surfaces an inline notice.
type hydrateMissMsg struct {
	route nav.Route
}

type autoTitleMsg struct {
	panelID   string
	sessionID string
	title     string
}

type statusMsg string

type errMsg struct{ error }
