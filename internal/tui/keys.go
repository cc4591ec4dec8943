package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Actions dispatched from key presses. Scopes keep the two surfaces from
// stealing each other's keys.
const (
	actQuit      = "quit"
	actToggleTab = "tab.toggle"

	actSplitRight   = "panel.split_right"
	actSplitDown    = "panel.split_down"
	actClosePanel   = "panel.close"
	actPinPanel     = "panel.pin"
	actFocusNext    = "panel.focus_next"
	actNewSession   = "session.new"
	actNextSession  = "session.next"
	actPrevSession  = "session.prev"
	actCloseSession = "session.close"
	actInputMode    = "session.input"
	actAutoTitle    = "session.title"
	actDockCollapse = "dock.collapse"

	actBack      = "nav.back"
	actForward   = "nav.forward"
	actOpen      = "nav.open"
	actSearch    = "nav.search"
	actCopy      = "nav.copy"
	actRescan    = "catalog.rescan"
	actProjects  = "feature.projects"
	actSkills    = "feature.skills"
	actCommands  = "feature.commands"
	actTemplates = "feature.templates"
)

const (
	scopeWorkspace = "workspace"
	scopeLibrary   = "library"
)

// Binding maps keys to one action within its scopes. An empty scope list
// means every scope; an empty Label keeps the binding out of the legend.
type Binding struct {
	Keys   []string
	Action string
	Label  string
	Scopes []string
}

// KeyMap resolves key presses to actions and renders per-scope legends.
type KeyMap struct {
	bindings []Binding
}

func NewKeyMap(bindings []Binding) *KeyMap {
	return &KeyMap{bindings: slices.Clone(bindings)}
}

// Action resolves a key press in the given scope. First match wins.
func (m *KeyMap) Action(msg tea.KeyMsg, scope string) (string, bool) {
	pressed := strings.ToLower(strings.TrimSpace(msg.String()))
	for _, b := range m.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if strings.ToLower(k) == pressed {
				return b.Action, true
			}
		}
	}
	return "", false
}

// Legend renders the labelled bindings for a scope as a one-line hint.
func (m *KeyMap) Legend(scope string) string {
	var parts []string
	for _, b := range m.bindings {
		if b.Label == "" || !scopeMatch(scope, b.Scopes) {
			continue
		}
		parts = append(parts, "["+b.Keys[0]+"] "+b.Label)
	}
	return strings.Join(parts, "  ")
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// DefaultKeyMap is the stock binding table.
func DefaultKeyMap() *KeyMap {
	ws := []string{scopeWorkspace}
	lib := []string{scopeLibrary}
	return NewKeyMap([]Binding{
		{Keys: []string{"q", "ctrl+c"}, Action: actQuit, Label: "quit"},
		{Keys: []string{"tab"}, Action: actToggleTab, Label: "switch"},

		{Keys: []string{"s"}, Action: actSplitRight, Label: "split", Scopes: ws},
		{Keys: []string{"v"}, Action: actSplitDown, Scopes: ws},
		{Keys: []string{"x"}, Action: actClosePanel, Label: "close panel", Scopes: ws},
		{Keys: []string{"p"}, Action: actPinPanel, Label: "pin", Scopes: ws},
		{Keys: []string{"o"}, Action: actFocusNext, Label: "focus", Scopes: ws},
		{Keys: []string{"n"}, Action: actNewSession, Label: "new session", Scopes: ws},
		{Keys: []string{"]"}, Action: actNextSession, Scopes: ws},
		{Keys: []string{"["}, Action: actPrevSession, Scopes: ws},
		{Keys: []string{"w"}, Action: actCloseSession, Label: "close session", Scopes: ws},
		{Keys: []string{"i", "enter"}, Action: actInputMode, Label: "input", Scopes: ws},
		{Keys: []string{"t"}, Action: actAutoTitle, Label: "title", Scopes: ws},
		{Keys: []string{"d"}, Action: actDockCollapse, Label: "dock", Scopes: ws},

		{Keys: []string{"[", "alt+left"}, Action: actBack, Label: "back", Scopes: lib},
		{Keys: []string{"]", "alt+right"}, Action: actForward, Label: "forward", Scopes: lib},
		{Keys: []string{"enter"}, Action: actOpen, Label: "open", Scopes: lib},
		{Keys: []string{"/"}, Action: actSearch, Label: "search", Scopes: lib},
		{Keys: []string{"c"}, Action: actCopy, Label: "copy", Scopes: lib},
		{Keys: []string{"r"}, Action: actRescan, Label: "rescan", Scopes: lib},
		{Keys: []string{"1"}, Action: actProjects, Scopes: lib},
		{Keys: []string{"2"}, Action: actSkills, Scopes: lib},
		{Keys: []string{"3"}, Action: actCommands, Scopes: lib},
		{Keys: []string{"4"}, Action: actTemplates, Scopes: lib},
	})
}
