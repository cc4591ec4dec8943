package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jwren/berth/internal/catalog"
	"github.com/jwren/berth/internal/database/repository"
	"github.com/jwren/berth/internal/nav"
)

// Transcript previews keep the first and last slice of long sessions.
const (
	transcriptHead = 10
	transcriptTail = 10
)

// list rows

type projectItem struct{ p repository.Project }

func (i projectItem) Title() string { return i.p.Name }
func (i projectItem) Description() string {
	return fmt.Sprintf("%d sessions · %s", i.p.SessionCount, i.p.LastActivity.Local().Format("2006-01-02 15:04"))
}
func (i projectItem) FilterValue() string { return i.p.Name }

type sessionItem struct{ s repository.Session }

func (i sessionItem) Title() string {
	if i.s.Title != "" {
		return i.s.Title
	}
	return i.s.ID
}
func (i sessionItem) Description() string {
	return fmt.Sprintf("%d messages · %s", i.s.MessageCount, i.s.LastActivity.Local().Format("2006-01-02 15:04"))
}
func (i sessionItem) FilterValue() string { return i.Title() }

type artifactItem struct{ it repository.Item }

func (i artifactItem) Title() string { return i.it.Name }
func (i artifactItem) Description() string {
	if i.it.Description != "" {
		return i.it.Description
	}
	return i.it.ID
}
func (i artifactItem) FilterValue() string { return i.it.Name + " " + i.it.ID }

type searchItem struct{ hit catalog.SearchHit }

func (i searchItem) Title() string       { return i.hit.Item.Name }
func (i searchItem) Description() string { return i.hit.Item.Kind + " · " + i.hit.Item.ID }
func (i searchItem) FilterValue() string { return i.hit.Item.Name }

// loading

func (a *App) loadEntryCmd(e nav.Entry) tea.Cmd {
	if e == nil || a.catalog == nil {
		return nil
	}
	svc, ctx := a.catalog, a.ctx
	switch e := e.(type) {
	case nav.ProjectsEntry:
		return func() tea.Msg {
			ps, err := svc.ProjectList(ctx)
			if err != nil {
				return errMsg{err}
			}
			return projectsMsg(ps)
		}
	case nav.SessionsEntry:
		p := e.Project
		return func() tea.Msg {
			ss, err := svc.SessionsFor(ctx, p.ID)
			if err != nil {
				return errMsg{err}
			}
			return projectSessionsMsg{project: p, sessions: ss}
		}
	case nav.MessagesEntry:
		sess, pname := e.Session, e.ProjectName
		return func() tea.Msg {
			msgs, err := svc.Transcript(ctx, sess.ID)
			if err != nil {
				return errMsg{err}
			}
			preview, omitted := catalog.PreviewMessages(msgs, transcriptHead, transcriptTail)
			return transcriptMsg{session: sess, projectName: pname, msgs: preview, omitted: omitted}
		}
	case nav.SkillsEntry:
		return a.loadItemsCmd(repository.KindSkill)
	case nav.CommandsEntry:
		return a.loadItemsCmd(repository.KindCommand)
	case nav.TemplatesEntry:
		return a.loadItemsCmd(repository.KindTemplate)
	case nav.SkillEntry:
		a.setDetailItem(e.Item)
	case nav.CommandEntry:
		a.setDetailItem(e.Item)
	case nav.TemplateEntry:
		a.setDetailItem(e.Item)
	}
	return nil
}

func (a *App) loadItemsCmd(kind string) tea.Cmd {
	svc, ctx := a.catalog, a.ctx
	return func() tea.Msg {
		var (
			items []repository.Item
			err   error
		)
		switch kind {
		case repository.KindSkill:
			items, err = svc.Skills(ctx)
		case repository.KindCommand:
			items, err = svc.Commands(ctx)
		default:
			items, err = svc.Templates(ctx)
		}
		if err != nil {
			return errMsg{err}
		}
		return itemsMsg{kind: kind, items: items}
	}
}

func (a *App) searchCmd(q string) tea.Cmd {
	svc, ctx := a.catalog, a.ctx
	return func() tea.Msg {
		hits, err := svc.Search(ctx, q)
		if err != nil {
			return errMsg{fmt.Errorf("search: %w", err)}
		}
		return searchMsg(hits)
	}
}

// hydrateCmd resolves a deep link's detail data in the background, at most
// once per app run. The latch means a slow lookup racing user navigation can
// never fire twice, and a second deep-link message can never double-push.
func (a *App) hydrateCmd(route nav.Route) tea.Cmd {
	return func() tea.Msg {
		var msg tea.Msg
		a.hydrateOnce.Do(func() { msg = a.hydrate(route) })
		return msg
	}
}

func (a *App) hydrate(route nav.Route) tea.Msg {
	svc, ctx := a.catalog, a.ctx
	switch route.Feature {
	case "skills", "commands", "templates":
		kind := repository.KindSkill
		switch route.Feature {
		case "commands":
			kind = repository.KindCommand
		case "templates":
			kind = repository.KindTemplate
		}
		it, err := svc.Lookup(ctx, kind, route.ID)
		if err != nil {
			return errMsg{err}
		}
		if it == nil {
			return hydrateMissMsg{route: route}
		}
		switch kind {
		case repository.KindCommand:
			return hydratedMsg{entry: nav.CommandEntry{Item: *it}}
		case repository.KindTemplate:
			return hydratedMsg{entry: nav.TemplateEntry{Item: *it}}
		default:
			return hydratedMsg{entry: nav.SkillEntry{Item: *it}}
		}
	case "projects":
		proj, err := svc.Project(ctx, route.ID)
		if err != nil {
			return errMsg{err}
		}
		if proj == nil {
			return hydrateMissMsg{route: route}
		}
		if route.SubID == "" {
			return hydratedMsg{entry: nav.SessionsEntry{Project: *proj}}
		}
		sess, err := svc.Session(ctx, route.SubID)
		if err != nil {
			return errMsg{err}
		}
		if sess == nil || sess.ProjectID != proj.ID {
			return hydrateMissMsg{route: route}
		}
		return hydratedMsg{entry: nav.MessagesEntry{Session: *sess, ProjectName: proj.Name}}
	}
	return hydrateMissMsg{route: route}
}

// message handlers

func (a *App) applyHydrated(m hydratedMsg) (tea.Model, tea.Cmd) {
	a.history.Push(m.entry)
	a.notFound = ""
	a.persistLocation()
	return a, a.loadEntryCmd(m.entry)
}

// applyLibraryData folds loaded data into the widgets, dropping anything the
// user has already navigated away from.
func (a *App) applyLibraryData(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case projectsMsg:
		if _, ok := a.history.Current().(nav.ProjectsEntry); !ok || a.searching {
			return a, nil
		}
		items := make([]list.Item, len(m))
		for i, p := range m {
			items[i] = projectItem{p: p}
		}
		a.list.SetItems(items)

	case projectSessionsMsg:
		cur, ok := a.history.Current().(nav.SessionsEntry)
		if !ok || cur.Project.ID != m.project.ID || a.searching {
			return a, nil
		}
		items := make([]list.Item, len(m.sessions))
		for i, s := range m.sessions {
			items[i] = sessionItem{s: s}
		}
		a.list.SetItems(items)

	case transcriptMsg:
		cur, ok := a.history.Current().(nav.MessagesEntry)
		if !ok || cur.Session.ID != m.session.ID {
			return a, nil
		}
		a.setTranscript(m)

	case itemsMsg:
		if !a.wantsItems(m.kind) || a.searching {
			return a, nil
		}
		items := make([]list.Item, len(m.items))
		for i, it := range m.items {
			items[i] = artifactItem{it: it}
		}
		a.list.SetItems(items)

	case searchMsg:
		if !a.searching {
			return a, nil
		}
		items := make([]list.Item, len(m))
		for i, hit := range m {
			items[i] = searchItem{hit: hit}
		}
		a.list.SetItems(items)
		a.setStatus(fmt.Sprintf("%d hits", len(m)), false)
	}
	return a, nil
}

func (a *App) wantsItems(kind string) bool {
	switch a.history.Current().(type) {
	case nav.SkillsEntry:
		return kind == repository.KindSkill
	case nav.CommandsEntry:
		return kind == repository.KindCommand
	case nav.TemplatesEntry:
		return kind == repository.KindTemplate
	}
	return false
}

func (a *App) setDetailItem(it repository.Item) {
	body := it.Body
	if body == "" {
		body = "(empty)"
	}
	a.viewport.SetContent(a.renderMarkdown(body))
	a.viewport.GotoTop()
}

func (a *App) setTranscript(m transcriptMsg) {
	userStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	asstStyle := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)

	var view, plain strings.Builder
	for i, msg := range m.msgs {
		if m.omitted > 0 && i == transcriptHead {
			gap := fmt.Sprintf("··· %d messages omitted ···", m.omitted)
			view.WriteString(statusStyle.Render(gap) + "\n\n")
			plain.WriteString(gap + "\n\n")
		}
		role, style := "assistant", asstStyle
		if msg.Role == "user" {
			role, style = "you", userStyle
		}
		head := "▌ " + role
		if !msg.At.IsZero() {
			head += "  " + msg.At.Local().Format("15:04")
		}
		view.WriteString(style.Render(head) + "\n" + msg.Text + "\n\n")
		plain.WriteString(role + ": " + msg.Text + "\n\n")
	}
	if len(m.msgs) == 0 {
		view.WriteString(statusStyle.Render("no messages recorded"))
	}
	a.viewport.SetContent(view.String())
	a.viewport.GotoTop()
	a.transcriptText = plain.String()
}

func (a *App) renderMarkdown(src string) string {
	w := a.width - 4
	if w < 20 {
		w = 20
	}
	if a.mdr == nil || a.mdrWidth != w {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(w))
		if err != nil {
			return src
		}
		a.mdr, a.mdrWidth = r, w
	}
	out, err := a.mdr.Render(src)
	if err != nil {
		return src
	}
	return out
}

// actions

func (a *App) handleLibraryAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case actBack:
		if a.history.Back() {
			a.notFound = ""
			a.persistLocation()
			return a, a.loadEntryCmd(a.history.Current())
		}
		return a, nil

	case actForward:
		if a.history.Forward() {
			a.notFound = ""
			a.persistLocation()
			return a, a.loadEntryCmd(a.history.Current())
		}
		return a, nil

	case actOpen:
		return a.openSelection()

	case actSearch:
		a.searching = true
		a.lastSearch = ""
		a.search.SetValue("")
		a.search.Focus()
		a.list.SetItems(nil)
		return a, textinput.Blink

	case actCopy:
		return a.copyCurrent()

	case actRescan:
		if a.scanning {
			return a, nil
		}
		a.scanning = true
		return a, tea.Batch(a.rescanCmd(), a.spin.Tick)

	case actProjects:
		return a.gotoFeature(nav.ProjectsEntry{})
	case actSkills:
		return a.gotoFeature(nav.SkillsEntry{})
	case actCommands:
		return a.gotoFeature(nav.CommandsEntry{})
	case actTemplates:
		return a.gotoFeature(nav.TemplatesEntry{})
	}
	return a, nil
}

// pushEntry records e as the new current view and starts its load.
func (a *App) pushEntry(e nav.Entry) tea.Cmd {
	a.history.Push(e)
	a.notFound = ""
	a.persistLocation()
	return a.loadEntryCmd(e)
}

func (a *App) gotoFeature(e nav.Entry) (tea.Model, tea.Cmd) {
	if cur := a.history.Current(); cur != nil && cur.Location() == e.Location() {
		return a, nil
	}
	return a, a.pushEntry(e)
}

func (a *App) openSelection() (tea.Model, tea.Cmd) {
	sel := a.list.SelectedItem()
	if sel == nil {
		return a, nil
	}
	switch e := a.history.Current().(type) {
	case nav.ProjectsEntry:
		if it, ok := sel.(projectItem); ok {
			return a, a.pushEntry(nav.SessionsEntry{Project: it.p})
		}
	case nav.SessionsEntry:
		if it, ok := sel.(sessionItem); ok {
			return a, a.pushEntry(nav.MessagesEntry{Session: it.s, ProjectName: e.Project.Name})
		}
	case nav.SkillsEntry:
		if it, ok := sel.(artifactItem); ok {
			return a, a.pushEntry(nav.SkillEntry{Item: it.it})
		}
	case nav.CommandsEntry:
		if it, ok := sel.(artifactItem); ok {
			return a, a.pushEntry(nav.CommandEntry{Item: it.it})
		}
	case nav.TemplatesEntry:
		if it, ok := sel.(artifactItem); ok {
			return a, a.pushEntry(nav.TemplateEntry{Item: it.it})
		}
	}
	return a, nil
}

func (a *App) copyCurrent() (tea.Model, tea.Cmd) {
	var text, what string
	switch e := a.history.Current().(type) {
	case nav.SkillEntry:
		text, what = e.Item.Body, e.Item.Name
	case nav.CommandEntry:
		text, what = e.Item.Body, e.Item.Name
	case nav.TemplateEntry:
		text, what = e.Item.Body, e.Item.Name
	case nav.MessagesEntry:
		text, what = a.transcriptText, "transcript"
	default:
		if it, ok := a.list.SelectedItem().(artifactItem); ok {
			text, what = it.it.Body, it.it.Name
		}
	}
	if text == "" {
		return a, nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.setStatus("copy failed: "+err.Error(), true)
		return a, nil
	}
	a.setStatus("copied "+what, false)
	return a, nil
}

func itemEntry(it repository.Item) nav.Entry {
	switch it.Kind {
	case repository.KindCommand:
		return nav.CommandEntry{Item: it}
	case repository.KindTemplate:
		return nav.TemplateEntry{Item: it}
	default:
		return nav.SkillEntry{Item: it}
	}
}

// handleSearchKey runs the search overlay: typing edits the query, enter
// executes it once and then opens the selected hit, esc restores the view
// underneath.
func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.search.Blur()
		return a, a.loadEntryCmd(a.history.Current())
	case tea.KeyEnter:
		q := strings.TrimSpace(a.search.Value())
		if q != "" && q != a.lastSearch {
			a.lastSearch = q
			return a, a.searchCmd(q)
		}
		if it, ok := a.list.SelectedItem().(searchItem); ok {
			a.searching = false
			a.search.Blur()
			return a, a.pushEntry(itemEntry(it.hit.Item))
		}
		return a, nil
	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(m)
		return a, cmd
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	return a, cmd
}

func (a *App) updateLibraryWidget(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.isDetail() {
		a.viewport, cmd = a.viewport.Update(m)
		return a, cmd
	}
	a.list, cmd = a.list.Update(m)
	return a, cmd
}

func (a *App) handleLibraryMouse(m tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Button != tea.MouseButtonWheelUp && m.Button != tea.MouseButtonWheelDown {
		return a, nil
	}
	var cmd tea.Cmd
	if a.isDetail() {
		a.viewport, cmd = a.viewport.Update(m)
		return a, cmd
	}
	a.list, cmd = a.list.Update(m)
	return a, cmd
}

func (a *App) isDetail() bool {
	switch a.history.Current().(type) {
	case nav.SkillEntry, nav.CommandEntry, nav.TemplateEntry, nav.MessagesEntry:
		return true
	}
	return false
}

// rendering

func (a *App) renderLibrary() string {
	area := a.surfaceArea()

	back, fwd := " ", " "
	if a.history.CanBack() {
		back = "‹"
	}
	if a.history.CanForward() {
		fwd = "›"
	}
	crumbLine := crumbStyle.Render(fmt.Sprintf(" %s %s %s", back, a.crumb(), fwd))

	aux := " "
	if a.searching {
		aux = searchStyle.Render(" " + a.search.View())
	} else if a.notFound != "" {
		aux = noticeStyle.Render(" " + a.notFound)
	}

	var body string
	if a.isDetail() {
		body = a.viewport.View()
	} else {
		body = a.list.View()
	}

	out := lipgloss.JoinVertical(lipgloss.Left, crumbLine, aux, body)
	return lipgloss.NewStyle().Height(area.H).MaxHeight(area.H).Render(out)
}

func (a *App) crumb() string {
	switch e := a.history.Current().(type) {
	case nav.SessionsEntry:
		return e.Feature() + " › " + e.Project.Name
	case nav.MessagesEntry:
		return e.Feature() + " › " + e.ProjectName + " › " + e.Title()
	case nav.SkillEntry, nav.CommandEntry, nav.TemplateEntry:
		return e.Feature() + " › " + e.Title()
	case nil:
		return ""
	default:
		return e.Feature()
	}
}

func (a *App) syncLibrarySize() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	area := a.surfaceArea()
	h := area.H - 2
	if h < 3 {
		h = 3
	}
	a.list.SetSize(area.W, h)
	a.viewport.Width = area.W
	a.viewport.Height = h
	a.search.Width = area.W - 6
}
