package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyMapScopeMatch(t *testing.T) {
	m := NewKeyMap([]Binding{
		{Keys: []string{"s"}, Action: "split", Scopes: []string{scopeWorkspace}},
		{Keys: []string{"q", "ctrl+c"}, Action: "quit", Scopes: []string{"*"}},
	})

	if got, ok := m.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, scopeWorkspace); !ok || got != "split" {
		t.Fatalf("expected split in workspace, got %q ok=%v", got, ok)
	}
	if _, ok := m.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, scopeLibrary); ok {
		t.Fatalf("did not expect s in library")
	}
	if got, ok := m.Action(tea.KeyMsg{Type: tea.KeyCtrlC}, scopeLibrary); !ok || got != "quit" {
		t.Fatalf("expected quit via wildcard scope, got %q ok=%v", got, ok)
	}
}

func TestKeyMapFirstMatchWins(t *testing.T) {
	m := NewKeyMap([]Binding{
		{Keys: []string{"x"}, Action: "first"},
		{Keys: []string{"x"}, Action: "second"},
	})
	if got, _ := m.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, scopeWorkspace); got != "first" {
		t.Fatalf("got %q, want first", got)
	}
}

func TestLegendSkipsUnlabelled(t *testing.T) {
	m := NewKeyMap([]Binding{
		{Keys: []string{"s"}, Action: "split", Label: "split", Scopes: []string{scopeWorkspace}},
		{Keys: []string{"v"}, Action: "vsplit", Scopes: []string{scopeWorkspace}},
		{Keys: []string{"/"}, Action: "search", Label: "search", Scopes: []string{scopeLibrary}},
	})

	legend := m.Legend(scopeWorkspace)
	if !strings.Contains(legend, "[s] split") {
		t.Fatalf("legend missing split: %q", legend)
	}
	if strings.Contains(legend, "vsplit") || strings.Contains(legend, "search") {
		t.Fatalf("legend leaked unlabelled or out-of-scope bindings: %q", legend)
	}
}

func TestDefaultKeyMapBracketKeysPerScope(t *testing.T) {
	m := DefaultKeyMap()

	if got, _ := m.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}}, scopeWorkspace); got != actPrevSession {
		t.Fatalf("workspace [ = %q, want %q", got, actPrevSession)
	}
	if got, _ := m.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}}, scopeLibrary); got != actBack {
		t.Fatalf("library [ = %q, want %q", got, actBack)
	}
}
