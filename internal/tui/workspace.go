package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jwren/berth/internal/layout"
	"github.com/jwren/berth/internal/tui/widgets"
	"github.com/jwren/berth/internal/workspace"
)

const dockCollapsedW = 3

// wsGeometry is the computed screen layout for one frame: the grid region,
// the dock region, and per-panel rects with divider columns between them.
type wsGeometry struct {
	area      layout.Rect
	grid      layout.Rect
	dock      layout.Rect
	hasDock   bool
	gridIDs   []string
	gridRects []layout.Rect
}

func (a *App) surfaceArea() layout.Rect {
	return layout.Rect{X: 0, Y: 1, W: a.width, H: a.height - 2}
}

func (a *App) computeGeometry() wsGeometry {
	g := wsGeometry{area: a.surfaceArea()}
	gridW := g.area.W
	if len(a.store.SharedPanels()) > 0 {
		g.hasDock = true
		if a.dock.Collapsed {
			gridW = g.area.W - dockCollapsedW - 1
		} else {
			gridW = int(a.split.Value() * float64(g.area.W))
		}
		g.dock = layout.Rect{X: g.area.X + gridW + 1, Y: g.area.Y, W: g.area.W - gridW - 1, H: g.area.H}
	}
	g.grid = layout.Rect{X: g.area.X, Y: g.area.Y, W: gridW, H: g.area.H}

	panels := a.store.GridPanels()
	if len(panels) == 0 {
		return g
	}
	g.gridIDs = make([]string, len(panels))
	for i, p := range panels {
		g.gridIDs[i] = p.ID
	}

	// one divider cell between neighbours comes out of the split axis
	n := len(panels)
	inner := g.grid
	horizontal := a.store.Orientation() == workspace.Columns
	if horizontal {
		inner.W -= n - 1
	} else {
		inner.H -= n - 1
	}
	rects := layout.GridRects(inner, n, a.weightsFor(g.gridIDs), a.store.Orientation(),
		a.cfg.UI.MinPanelWidth, a.cfg.UI.MinPanelHeight)
	for i := range rects {
		if horizontal {
			rects[i].X += i
		} else {
			rects[i].Y += i
		}
	}
	g.gridRects = rects
	return g
}

func (a *App) dockBodySlots(g wsGeometry) []layout.Slot {
	if !g.hasDock || a.dock.Collapsed {
		return nil
	}
	body := layout.Rect{X: g.dock.X, Y: g.dock.Y + 1, W: g.dock.W, H: g.dock.H - 1}
	return layout.DockSlots(body, a.sharedIDs(), a.dock, 1, a.cfg.UI.MinPanelHeight)
}

// weightsFor returns persisted sizes for the given panels, or nil for an
// equal split when any panel has no recorded size yet.
func (a *App) weightsFor(ids []string) []float64 {
	out := make([]float64, len(ids))
	for i, id := range ids {
		w := a.gridWeights[id]
		if w <= 0 {
			return nil
		}
		out[i] = w
	}
	return out
}

// rendering

func (a *App) renderWorkspace() string {
	g := a.computeGeometry()
	grid := a.renderGrid(g)
	if !g.hasDock {
		return grid
	}
	div := a.renderSplitDivider(g.area.H)
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, div, a.renderDock(g))
}

func (a *App) renderGrid(g wsGeometry) string {
	panels := a.store.GridPanels()
	if len(panels) == 0 {
		hint := statusStyle.Render("everything is pinned · [s] opens a fresh panel")
		return lipgloss.Place(g.grid.W, g.grid.H, lipgloss.Center, lipgloss.Center, hint)
	}
	horizontal := a.store.Orientation() == workspace.Columns
	parts := make([]string, 0, len(panels)*2-1)
	for i, p := range panels {
		r := g.gridRects[i]
		parts = append(parts, zone.Mark(zonePanel(p.ID), a.renderPanel(p, r.W, r.H)))
		if i < len(panels)-1 {
			var div string
			if horizontal {
				div = dividerStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", g.grid.H), "\n"))
			} else {
				div = dividerStyle.Render(strings.Repeat("─", g.grid.W))
			}
			parts = append(parts, zone.Mark(zoneGridDiv(i), div))
		}
	}
	if horizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderSplitDivider(h int) string {
	col := dividerStyle.Render(strings.TrimSuffix(strings.Repeat("┃\n", h), "\n"))
	return zone.Mark(zoneSplitDiv, col)
}

func (a *App) renderDock(g wsGeometry) string {
	shared := a.store.SharedPanels()
	r := g.dock

	if a.dock.Collapsed {
		lines := make([]string, 0, r.H)
		lines = append(lines, zone.Mark(zoneDockCollapse, dockTitleStyle.Render(widgets.PadRight(" ◂ ", r.W))))
		for _, p := range shared {
			head := widgets.Header("", a.panelDot(p), false, r.W)
			lines = append(lines, zone.Mark(zoneDockHead(p.ID), head))
		}
		for len(lines) < r.H {
			lines = append(lines, strings.Repeat(" ", r.W))
		}
		return strings.Join(lines[:r.H], "\n")
	}

	title := fmt.Sprintf(" dock · %d pinned ", len(shared))
	parts := []string{zone.Mark(zoneDockCollapse, dockTitleStyle.Render(widgets.PadRight(title, r.W)))}
	slots := a.dockBodySlots(g)
	for i, slot := range slots {
		if slot.R.H <= 0 {
			continue
		}
		p := shared[i]
		head := zone.Mark(zoneDockHead(p.ID), widgets.Header(a.panelTitle(p), a.panelDot(p), slot.Expanded, r.W))
		if !slot.Expanded || slot.R.H <= 1 {
			parts = append(parts, head)
			continue
		}
		body := zone.Mark(zonePanel(p.ID), a.renderPanel(p, r.W, slot.R.H-1))
		parts = append(parts, head, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderPanel(p *workspace.Panel, w, h int) string {
	pane := widgets.Pane{
		Title:    a.panelTitle(p),
		Dot:      a.panelDot(p),
		Content:  a.panelContent(p, h),
		Selected: p.ID == a.focus,
		Focused:  p.ID == a.focus && a.inputMode,
		Pinned:   p.Shared,
	}
	if len(p.Sessions) > 1 {
		tabs := make([]widgets.Tab, len(p.Sessions))
		for i, s := range p.Sessions {
			tabs[i] = widgets.Tab{Label: s.Title, Active: s.ID == p.ActiveSessionID}
		}
		pane.Tabs = tabs
	}
	return pane.Render(w, h)
}

func (a *App) panelTitle(p *workspace.Panel) string {
	if s := p.ActiveSession(); s != nil {
		return s.Title
	}
	return "empty"
}

func (a *App) panelDot(p *workspace.Panel) widgets.Dot {
	s := p.ActiveSession()
	if s == nil {
		return widgets.DotUnknown
	}
	alive, known := a.tracker.Running(s.ID)
	switch {
	case !known:
		return widgets.DotUnknown
	case alive:
		return widgets.DotRunning
	default:
		return widgets.DotExited
	}
}

func (a *App) panelContent(p *workspace.Panel, h int) string {
	s := p.ActiveSession()
	if s == nil || a.backend == nil {
		return ""
	}
	return strings.Join(a.backend.Tail(s.ID, h), "\n")
}

// actions

func (a *App) handleWorkspaceAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case actSplitRight, actSplitDown:
		dir := workspace.SplitRight
		if action == actSplitDown {
			dir = workspace.SplitDown
		}
		cwd := ""
		if cur := a.store.Panel(a.focus); cur != nil {
			cwd = cur.CWD
		}
		p := a.store.AddPanel(dir, a.focus, cwd, a.cfg.ShellCommand())
		a.focus = p.ID
		a.persistOrientation()
		a.syncPTYSizes()
		return a, a.startSessionCmd(p.Sessions[0], p.CWD)

	case actClosePanel:
		p := a.store.Panel(a.focus)
		if p == nil {
			return a, nil
		}
		sessions := a.store.ClosePanel(p.ID)
		delete(a.gridWeights, p.ID)
		a.persistGridWeights()
		a.dock.Sync(a.sharedIDs())
		a.persistDock()
		cmds := []tea.Cmd{a.terminateCmd(sessions)}
		if np := a.store.EnsureGridPanel(p.CWD, a.cfg.ShellCommand()); np != nil {
			a.focus = np.ID
			cmds = append(cmds, a.startSessionCmd(np.Sessions[0], np.CWD))
		} else if a.store.Panel(a.focus) == nil {
			a.focusFirst()
		}
		a.syncPTYSizes()
		return a, tea.Batch(cmds...)

	case actPinPanel:
		if !a.store.ToggleShared(a.focus) {
			return a, nil
		}
		// a panel changing zones keeps no grid size
		delete(a.gridWeights, a.focus)
		a.persistGridWeights()
		a.dock.Sync(a.sharedIDs())
		a.persistDock()
		var cmds []tea.Cmd
		if np := a.store.EnsureGridPanel("", a.cfg.ShellCommand()); np != nil {
			cmds = append(cmds, a.startSessionCmd(np.Sessions[0], np.CWD))
		}
		a.syncPTYSizes()
		return a, tea.Batch(cmds...)

	case actFocusNext:
		a.cycleFocus()
		return a, nil

	case actNewSession:
		s, ok := a.store.AddSession(a.focus, a.cfg.ShellCommand())
		if !ok {
			return a, nil
		}
		cwd := ""
		if p := a.store.Panel(a.focus); p != nil {
			cwd = p.CWD
		}
		a.syncPTYSizes()
		return a, a.startSessionCmd(s, cwd)

	case actNextSession:
		a.stepSession(1)
		return a, nil

	case actPrevSession:
		a.stepSession(-1)
		return a, nil

	case actCloseSession:
		p := a.store.Panel(a.focus)
		if p == nil {
			return a, nil
		}
		active := p.ActiveSession()
		if active == nil {
			return a, nil
		}
		closed, panelClosed, ok := a.store.CloseSession(p.ID, active.ID)
		if !ok {
			return a, nil
		}
		cmds := []tea.Cmd{a.terminateCmd([]workspace.Session{closed})}
		if panelClosed {
			delete(a.gridWeights, p.ID)
			a.persistGridWeights()
			a.dock.Sync(a.sharedIDs())
			a.persistDock()
			if np := a.store.EnsureGridPanel(p.CWD, a.cfg.ShellCommand()); np != nil {
				a.focus = np.ID
				cmds = append(cmds, a.startSessionCmd(np.Sessions[0], np.CWD))
			} else if a.store.Panel(a.focus) == nil {
				a.focusFirst()
			}
		}
		a.syncPTYSizes()
		return a, tea.Batch(cmds...)

	case actInputMode:
		if p := a.store.Panel(a.focus); p != nil && p.ActiveSession() != nil {
			a.inputMode = true
		}
		return a, nil

	case actAutoTitle:
		p := a.store.Panel(a.focus)
		if p == nil {
			return a, nil
		}
		s := p.ActiveSession()
		if s == nil {
			return a, nil
		}
		if a.titler == nil {
			a.setStatus("no title provider configured", true)
			return a, nil
		}
		a.setStatus("titling "+s.Title+"…", false)
		return a, a.autoTitleCmd(p.ID, s.ID)

	case actDockCollapse:
		if len(a.store.SharedPanels()) == 0 {
			return a, nil
		}
		a.dock.Collapsed = !a.dock.Collapsed
		a.persistDock()
		a.syncPTYSizes()
		return a, nil
	}
	return a, nil
}

func (a *App) autoTitleCmd(panelID, sessionID string) tea.Cmd {
	titler, be, ctx := a.titler, a.backend, a.ctx
	return func() tea.Msg {
		transcript := strings.Join(be.Tail(sessionID, 40), "\n")
		title, err := titler.Title(ctx, transcript)
		if err != nil {
			return errMsg{fmt.Errorf("auto-title: %w", err)}
		}
		return autoTitleMsg{panelID: panelID, sessionID: sessionID, title: title}
	}
}

func (a *App) sharedIDs() []string {
	shared := a.store.SharedPanels()
	ids := make([]string, len(shared))
	for i, p := range shared {
		ids[i] = p.ID
	}
	return ids
}

func (a *App) focusFirst() {
	if gp := a.store.GridPanels(); len(gp) > 0 {
		a.focus = gp[0].ID
		return
	}
	if sp := a.store.SharedPanels(); len(sp) > 0 {
		a.focus = sp[0].ID
		return
	}
	a.focus = ""
}

func (a *App) cycleFocus() {
	var order []string
	for _, p := range a.store.GridPanels() {
		order = append(order, p.ID)
	}
	order = append(order, a.sharedIDs()...)
	if len(order) == 0 {
		return
	}
	for i, id := range order {
		if id == a.focus {
			a.focus = order[(i+1)%len(order)]
			return
		}
	}
	a.focus = order[0]
}

func (a *App) stepSession(d int) {
	p := a.store.Panel(a.focus)
	if p == nil || len(p.Sessions) < 2 {
		return
	}
	cur := -1
	for i := range p.Sessions {
		if p.Sessions[i].ID == p.ActiveSessionID {
			cur = i
			break
		}
	}
	if cur < 0 {
		return
	}
	next := (cur + d + len(p.Sessions)) % len(p.Sessions)
	a.store.SelectSession(p.ID, p.Sessions[next].ID)
	a.syncPTYSizes()
}

// terminal input passthrough

func (a *App) handleInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Type == tea.KeyEsc {
		a.inputMode = false
		return a, nil
	}
	p := a.store.Panel(a.focus)
	if p == nil {
		a.inputMode = false
		return a, nil
	}
	s := p.ActiveSession()
	if s == nil {
		return a, nil
	}
	if b := keyBytes(m); len(b) > 0 {
		if err := a.backend.Write(s.ID, b); err != nil {
			a.setStatus(err.Error(), true)
		}
	}
	return a, nil
}

// keyBytes maps a key event to the byte sequence a terminal application
// expects on stdin. Keys with no sensible mapping produce nothing.
func keyBytes(m tea.KeyMsg) []byte {
	switch m.Type {
	case tea.KeyRunes:
		b := []byte(string(m.Runes))
		if m.Alt {
			return append([]byte{0x1b}, b...)
		}
		return b
	case tea.KeySpace:
		return []byte{' '}
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyBackspace:
		return []byte{0x7f}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeyShiftTab:
		return []byte("\x1b[Z")
	case tea.KeyUp:
		return []byte("\x1b[A")
	case tea.KeyDown:
		return []byte("\x1b[B")
	case tea.KeyRight:
		return []byte("\x1b[C")
	case tea.KeyLeft:
		return []byte("\x1b[D")
	case tea.KeyHome:
		return []byte("\x1b[H")
	case tea.KeyEnd:
		return []byte("\x1b[F")
	case tea.KeyPgUp:
		return []byte("\x1b[5~")
	case tea.KeyPgDown:
		return []byte("\x1b[6~")
	case tea.KeyDelete:
		return []byte("\x1b[3~")
	case tea.KeyCtrlA:
		return []byte{0x01}
	case tea.KeyCtrlC:
		return []byte{0x03}
	case tea.KeyCtrlD:
		return []byte{0x04}
	case tea.KeyCtrlE:
		return []byte{0x05}
	case tea.KeyCtrlK:
		return []byte{0x0b}
	case tea.KeyCtrlL:
		return []byte{0x0c}
	case tea.KeyCtrlR:
		return []byte{0x12}
	case tea.KeyCtrlU:
		return []byte{0x15}
	case tea.KeyCtrlW:
		return []byte{0x17}
	case tea.KeyCtrlZ:
		return []byte{0x1a}
	}
	return nil
}

// mouse

func (a *App) handleMouse(m tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Button == tea.MouseButtonLeft && m.Action == tea.MouseActionPress {
		if zone.Get(zoneTabWorkspace).InBounds(m) {
			a.tab = tabWorkspace
			return a, nil
		}
		if zone.Get(zoneTabLibrary).InBounds(m) {
			a.tab = tabLibrary
			a.syncLibrarySize()
			return a, nil
		}
	}
	if a.tab == tabLibrary {
		return a.handleLibraryMouse(m)
	}

	switch {
	case m.Button == tea.MouseButtonLeft && m.Action == tea.MouseActionPress:
		return a.handleWorkspacePress(m)
	case m.Action == tea.MouseActionMotion:
		return a.handleWorkspaceMotion(m)
	case m.Action == tea.MouseActionRelease:
		// every release ends any gesture, even one that never moved
		a.split.End()
		a.endGridDrag()
		return a, nil
	}
	return a, nil
}

func (a *App) handleWorkspacePress(m tea.MouseMsg) (tea.Model, tea.Cmd) {
	g := a.computeGeometry()

	if g.hasDock && !a.dock.Collapsed && zone.Get(zoneSplitDiv).InBounds(m) {
		a.split.Begin(m.X, m.Y)
		return a, nil
	}
	for i := 0; i+1 < len(g.gridIDs); i++ {
		if zone.Get(zoneGridDiv(i)).InBounds(m) {
			a.beginGridDrag(g, i, m.X, m.Y)
			return a, nil
		}
	}
	if zone.Get(zoneDockCollapse).InBounds(m) {
		a.dock.Collapsed = !a.dock.Collapsed
		a.persistDock()
		a.syncPTYSizes()
		return a, nil
	}
	for _, p := range a.store.SharedPanels() {
		if zone.Get(zoneDockHead(p.ID)).InBounds(m) {
			if a.dock.Collapsed {
				a.dock.Collapsed = false
			} else {
				a.dock.Toggle(p.ID)
			}
			a.persistDock()
			a.syncPTYSizes()
			return a, nil
		}
	}
	for _, p := range a.store.Panels() {
		if zone.Get(zonePanel(p.ID)).InBounds(m) {
			a.focus = p.ID
			a.inputMode = false
			return a, nil
		}
	}
	return a, nil
}

func (a *App) handleWorkspaceMotion(m tea.MouseMsg) (tea.Model, tea.Cmd) {
	moved := false
	if a.split.Dragging() {
		moved = a.split.Move(m.X, m.Y, a.surfaceArea().W)
	} else if a.drag.res != nil && a.drag.res.Dragging() {
		moved = a.drag.res.Move(m.X, m.Y, 0)
	}
	if moved {
		a.syncPTYSizes()
	}
	return a, nil
}

// beginGridDrag starts an absolute resize of the pair of panels around
// divider i. Every panel's weight is seeded from its live size first so the
// rest of the row holds still while the pair trades cells.
func (a *App) beginGridDrag(g wsGeometry, i, x, y int) {
	horizontal := a.store.Orientation() == workspace.Columns
	for j, id := range g.gridIDs {
		if horizontal {
			a.gridWeights[id] = float64(g.gridRects[j].W)
		} else {
			a.gridWeights[id] = float64(g.gridRects[j].H)
		}
	}

	leftID, rightID := g.gridIDs[i], g.gridIDs[i+1]
	var cur, pair, minSz float64
	axis := layout.Horizontal
	if horizontal {
		cur = float64(g.gridRects[i].W)
		pair = cur + float64(g.gridRects[i+1].W)
		minSz = float64(a.cfg.UI.MinPanelWidth)
	} else {
		axis = layout.Vertical
		cur = float64(g.gridRects[i].H)
		pair = cur + float64(g.gridRects[i+1].H)
		minSz = float64(a.cfg.UI.MinPanelHeight)
	}
	maxSz := pair - minSz
	if maxSz < minSz {
		// pair too tight to trade cells; pin the divider where it is
		minSz, maxSz = cur, cur
	}

	res := layout.NewAbsolute(axis, minSz, maxSz, cur, func(v float64) {
		a.gridWeights[leftID] = v
		a.gridWeights[rightID] = pair - v
		a.persistGridWeights()
	})
	res.Begin(x, y)
	a.drag = gridDrag{res: res, leftID: leftID, rightID: rightID}
}

func (a *App) endGridDrag() {
	if a.drag.res != nil {
		a.drag.res.End()
		a.drag = gridDrag{}
	}
}

// syncPTYSizes pushes each visible panel's inner size to its active pty so
// full-screen programs reflow with the layout.
func (a *App) syncPTYSizes() {
	if a.backend == nil || a.width <= 0 || a.height <= 0 {
		return
	}
	g := a.computeGeometry()
	for i, p := range a.store.GridPanels() {
		if i >= len(g.gridRects) {
			break
		}
		a.resizeActive(p, g.gridRects[i])
	}
	shared := a.store.SharedPanels()
	for i, slot := range a.dockBodySlots(g) {
		if slot.Expanded && slot.R.H > 1 {
			a.resizeActive(shared[i], layout.Rect{W: slot.R.W, H: slot.R.H - 1})
		}
	}
}

func (a *App) resizeActive(p *workspace.Panel, r layout.Rect) {
	s := p.ActiveSession()
	if s == nil {
		return
	}
	cols, rows := r.W-4, r.H-2
	if len(p.Sessions) > 1 {
		rows--
	}
	if cols < 1 || rows < 1 {
		return
	}
	_ = a.backend.Resize(s.ID, cols, rows)
}
