// Package tui is the berth application: a workspace surface of live terminal
// panels split between a resizable grid and a pinned dock, and a library
// surface for browsing the indexed workspace root with back/forward history.
// Every piece of core state is owned by the App model and mutated only inside
// Update; anything asynchronous re-enters as a typed message.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"golang.org/x/sync/errgroup"

	"github.com/jwren/berth/internal/backend"
	"github.com/jwren/berth/internal/catalog"
	"github.com/jwren/berth/internal/config"
	"github.com/jwren/berth/internal/layout"
	"github.com/jwren/berth/internal/llm"
	"github.com/jwren/berth/internal/nav"
	"github.com/jwren/berth/internal/prefs"
	"github.com/jwren/berth/internal/workspace"
)

// Preference keys. The store is read once in New and written on change.
const (
	prefSplitRatio    = "split_ratio"
	prefGridWeights   = "grid_weights"
	prefOrientation   = "orientation"
	prefDockCollapsed = "dock_collapsed"
	prefDockExpanded  = "dock_expanded"
	prefLastLocation  = "last_location"
)

// Mouse hit zones.
const (
	zoneTabWorkspace = "apptab-workspace"
	zoneTabLibrary   = "apptab-library"
	zoneSplitDiv     = "split-divider"
	zoneDockCollapse = "dock-collapse"
)

func zoneGridDiv(i int) string      { return "grid-div-" + strconv.Itoa(i) }
func zonePanel(id string) string    { return "panel-" + id }
func zoneDockHead(id string) string { return "dock-head-" + id }

const probeInterval = 2 * time.Second

type appTab int

const (
	tabWorkspace appTab = iota
	tabLibrary
)

// Deps bundles the collaborators the app is wired with.
type Deps struct {
	Prefs    *prefs.Store
	Backend  backend.Backend
	Catalog  *catalog.Service
	Titler   llm.Titler
	Watcher  *catalog.Watcher
	Location string
}

type startReq struct {
	sess workspace.Session
	cwd  string
}

type gridDrag struct {
	res     *layout.Resizer
	leftID  string
	rightID string
}

// App ties the surfaces together.
type App struct {
	ctx     context.Context
	cfg     config.Config
	prefs   *prefs.Store
	backend backend.Backend
	catalog *catalog.Service
	titler  llm.Titler
	watcher *catalog.Watcher

	store   *workspace.Store
	tracker *workspace.Tracker
	history *nav.History
	dock    *layout.DockState
	split   *layout.Resizer
	keys    *KeyMap

	tab       appTab
	width     int
	height    int
	focus     string
	inputMode bool
	status    string
	statusErr bool

	gridWeights map[string]float64
	drag        gridDrag

	events       <-chan backend.Event
	unsub        func()
	pendingStart []startReq

	hydrateOnce  sync.Once
	hydrateRoute nav.Route
	needsHydrate bool

	// library surface
	list           list.Model
	viewport       viewport.Model
	search         textinput.Model
	searching      bool
	lastSearch     string
	spin           spinner.Model
	scanning       bool
	notFound       string
	transcriptText string
	mdr            *glamour.TermRenderer
	mdrWidth       int
}

// New builds the app, restores persisted layout state and bootstraps the
// grid so it is never empty. The caller must have installed the global zone
// manager (zone.NewGlobal) before Run.
func New(ctx context.Context, cfg config.Config, deps Deps) *App {
	a := &App{
		ctx:         ctx,
		cfg:         cfg,
		prefs:       deps.Prefs,
		backend:     deps.Backend,
		catalog:     deps.Catalog,
		titler:      deps.Titler,
		watcher:     deps.Watcher,
		store:       workspace.New(),
		tracker:     workspace.NewTracker(),
		history:     nav.New(),
		dock:        layout.NewDockState(),
		keys:        DefaultKeyMap(),
		gridWeights: map[string]float64{},
	}

	a.split = layout.NewRatio(layout.Horizontal, 0.25, 0.85, 0.65, a.persistSplit)
	if a.prefs != nil {
		if a.prefs.String(prefOrientation, "columns") == "rows" {
			a.store.SetOrientation(workspace.Rows)
		}
		a.dock.Restore(a.prefs.Strings(prefDockExpanded), a.prefs.Bool(prefDockCollapsed, false))
		if m := a.prefs.FloatMap(prefGridWeights); m != nil {
			a.gridWeights = m
		}
		a.split.Set(a.prefs.Float(prefSplitRatio, 0.65))
	}

	// A deep link wins over the persisted location; both fall back to home.
	loc := deps.Location
	if loc == "" && a.prefs != nil {
		loc = a.prefs.String(prefLastLocation, "/projects")
	}
	route := nav.ParseLocation(loc)
	a.history.Push(nav.InitialEntry(route))
	if route.NeedsHydration() {
		a.hydrateRoute = route
		a.needsHydrate = true
	}

	if p := a.store.EnsureGridPanel("", cfg.ShellCommand()); p != nil {
		a.focus = p.ID
		a.pendingStart = append(a.pendingStart, startReq{sess: p.Sessions[0], cwd: p.CWD})
	}

	if a.backend != nil {
		a.events, a.unsub = a.backend.Subscribe()
	}

	del := list.NewDefaultDelegate()
	a.list = list.New(nil, del, 0, 0)
	a.list.SetShowTitle(false)
	a.list.SetShowHelp(false)
	a.list.SetFilteringEnabled(false)
	a.list.SetShowStatusBar(false)

	a.viewport = viewport.New(0, 0)
	a.search = textinput.New()
	a.search.Prompt = "/ "
	a.search.Placeholder = "search skills, commands, templates"
	a.search.CharLimit = 120
	a.spin = spinner.New(spinner.WithSpinner(spinner.MiniDot))
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("berth"), a.tickCmd()}
	if a.events != nil {
		cmds = append(cmds, a.waitEventCmd())
	}
	if a.watcher != nil {
		cmds = append(cmds, a.waitWatchCmd())
	}
	for _, req := range a.pendingStart {
		cmds = append(cmds, a.startSessionCmd(req.sess, req.cwd))
	}
	a.pendingStart = nil
	if cmd := a.loadEntryCmd(a.history.Current()); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if a.needsHydrate {
		cmds = append(cmds, a.hydrateCmd(a.hydrateRoute))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.syncLibrarySize()
		a.syncPTYSizes()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(m)

	case tea.MouseMsg:
		return a.handleMouse(m)

	case tea.BlurMsg:
		// an interrupted gesture must not wedge the next one
		a.split.End()
		a.endGridDrag()
		return a, nil

	case tickMsg:
		a.tracker.SetTracked(a.store.SessionIDs())
		token, ids := a.tracker.BeginBatch()
		cmds := []tea.Cmd{a.tickCmd()}
		if len(ids) > 0 {
			cmds = append(cmds, a.probeCmd(token, ids))
		}
		return a, tea.Batch(cmds...)

	case livenessMsg:
		a.tracker.CommitBatch(m.token, m.results)
		return a, nil

	case sessionExitedMsg:
		a.tracker.MarkExited(m.sessionID)
		if p := a.store.PanelBySession(m.sessionID); p != nil {
			if s := p.ActiveSession(); s != nil && s.ID == m.sessionID {
				a.setStatus(fmt.Sprintf("%s exited (%d)", s.Title, m.code), false)
			}
		}
		return a, a.waitEventCmd()

	case eventStreamClosedMsg:
		return a, nil

	case sessionStartedMsg:
		a.store.SetSessionPID(m.sessionID, m.pid)
		a.syncPTYSizes()
		return a, nil

	case rescanTriggerMsg:
		cmds := []tea.Cmd{a.rescanCmd()}
		if a.watcher != nil {
			cmds = append(cmds, a.waitWatchCmd())
		}
		if !a.scanning {
			a.scanning = true
			cmds = append(cmds, a.spin.Tick)
		}
		return a, tea.Batch(cmds...)

	case scanDoneMsg:
		a.scanning = false
		a.setStatus(fmt.Sprintf("indexed %d skills, %d commands, %d templates, %d projects",
			m.stats.Skills, m.stats.Commands, m.stats.Templates, m.stats.Projects), false)
		return a, a.loadEntryCmd(a.history.Current())

	case spinner.TickMsg:
		if !a.scanning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd

	case autoTitleMsg:
		a.store.RenameSession(m.panelID, m.sessionID, m.title)
		a.setStatus("session titled", false)
		return a, nil

	case hydratedMsg:
		return a.applyHydrated(m)

	case hydrateMissMsg:
		a.notFound = m.route.String() + " not found"
		return a, nil

	case projectsMsg, projectSessionsMsg, transcriptMsg, itemsMsg, searchMsg:
		return a.applyLibraryData(msg)

	case statusMsg:
		a.setStatus(string(m), false)
		return a, nil

	case errMsg:
		a.setStatus(m.Error(), true)
		return a, nil
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "starting…"
	}
	var body string
	if a.tab == tabWorkspace {
		body = a.renderWorkspace()
	} else {
		body = a.renderLibrary()
	}
	frame := lipgloss.JoinVertical(lipgloss.Left, a.renderTopBar(), body, a.renderStatusLine())
	return zone.Scan(frame)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.tab == tabWorkspace && a.inputMode {
		return a.handleInputKey(m)
	}
	if a.tab == tabLibrary && a.searching {
		return a.handleSearchKey(m)
	}

	scope := scopeWorkspace
	if a.tab == tabLibrary {
		scope = scopeLibrary
	}
	action, ok := a.keys.Action(m, scope)
	if !ok {
		if a.tab == tabLibrary {
			return a.updateLibraryWidget(m)
		}
		return a, nil
	}

	switch action {
	case actQuit:
		a.teardown()
		return a, tea.Quit
	case actToggleTab:
		if a.tab == tabWorkspace {
			a.tab = tabLibrary
			a.syncLibrarySize()
		} else {
			a.tab = tabWorkspace
		}
		return a, nil
	}
	if a.tab == tabWorkspace {
		return a.handleWorkspaceAction(action)
	}
	return a.handleLibraryAction(action)
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func (a *App) teardown() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
}

// renderTopBar draws the surface tabs; both are click targets.
func (a *App) renderTopBar() string {
	wsLabel, libLabel := "  workspace  ", "  library  "
	var ws, lib string
	if a.tab == tabWorkspace {
		ws = tabOnStyle.Render(wsLabel)
		lib = tabOffStyle.Render(libLabel)
	} else {
		ws = tabOffStyle.Render(wsLabel)
		lib = tabOnStyle.Render(libLabel)
	}
	bar := tabOffStyle.Render(" berth ") + zone.Mark(zoneTabWorkspace, ws) + zone.Mark(zoneTabLibrary, lib)
	if a.scanning {
		bar += statusStyle.Render(" " + a.spin.View() + " indexing")
	}
	return bar
}

func (a *App) renderStatusLine() string {
	scope := scopeWorkspace
	if a.tab == tabLibrary {
		scope = scopeLibrary
	}
	st := a.status
	style := statusStyle
	if a.statusErr {
		style = statusErrStyle
	}
	line := style.Render(st)
	legend := legendStyle.Render(a.keys.Legend(scope))
	if st == "" {
		return legend
	}
	return line + legendStyle.Render("  ·  ") + legend
}

// commands

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(probeInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// probeCmd checks every id of one batch concurrently. Alive never errors;
// the whole batch lands as a single message and commits or is discarded as
// one unit.
func (a *App) probeCmd(token uint64, ids []string) tea.Cmd {
	be := a.backend
	return func() tea.Msg {
		var mu sync.Mutex
		results := make(map[string]bool, len(ids))
		g := new(errgroup.Group)
		g.SetLimit(8)
		for _, id := range ids {
			id := id
			g.Go(func() error {
				alive := be.Alive(id)
				mu.Lock()
				results[id] = alive
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
		return livenessMsg{token: token, results: results}
	}
}

func (a *App) waitEventCmd() tea.Cmd {
	ch := a.events
	return func() tea.Msg {
		for {
			ev, ok := <-ch
			if !ok {
				return eventStreamClosedMsg{}
			}
			if ev.Type != backend.EventSessionExited {
				continue
			}
			return sessionExitedMsg{sessionID: ev.SessionID, code: ev.ExitCode}
		}
	}
}

func (a *App) waitWatchCmd() tea.Cmd {
	ch := a.watcher.C
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return rescanTriggerMsg{}
	}
}

func (a *App) startSessionCmd(sess workspace.Session, cwd string) tea.Cmd {
	be := a.backend
	return func() tea.Msg {
		pid, err := be.Start(sess.ID, backend.StartOptions{Dir: cwd, Command: sess.Command})
		if err != nil {
			return errMsg{fmt.Errorf("start %s: %w", sess.Title, err)}
		}
		return sessionStartedMsg{sessionID: sess.ID, pid: pid}
	}
}

func (a *App) terminateCmd(sessions []workspace.Session) tea.Cmd {
	be := a.backend
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return func() tea.Msg {
		for _, id := range ids {
			_ = be.Terminate(id)
		}
		return nil
	}
}

func (a *App) rescanCmd() tea.Cmd {
	svc, ctx := a.catalog, a.ctx
	return func() tea.Msg {
		stats, err := svc.Rescan(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("rescan: %w", err)}
		}
		return scanDoneMsg{stats: stats}
	}
}

// persistence hooks

func (a *App) persistSplit(v float64) {
	if a.prefs != nil {
		_ = a.prefs.SetFloat(prefSplitRatio, v)
	}
}

func (a *App) persistGridWeights() {
	if a.prefs != nil {
		_ = a.prefs.SetFloatMap(prefGridWeights, a.gridWeights)
	}
}

func (a *App) persistOrientation() {
	if a.prefs == nil {
		return
	}
	v := "columns"
	if a.store.Orientation() == workspace.Rows {
		v = "rows"
	}
	_ = a.prefs.SetString(prefOrientation, v)
}

func (a *App) persistDock() {
	if a.prefs == nil {
		return
	}
	_ = a.prefs.SetBool(prefDockCollapsed, a.dock.Collapsed)
	var ids []string
	for _, p := range a.store.SharedPanels() {
		ids = append(ids, p.ID)
	}
	_ = a.prefs.SetStrings(prefDockExpanded, a.dock.ExpandedIDs(ids))
}

func (a *App) persistLocation() {
	if a.prefs == nil {
		return
	}
	if e := a.history.Current(); e != nil {
		_ = a.prefs.SetString(prefLastLocation, e.Location())
	}
}
