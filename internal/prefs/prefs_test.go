package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenAtMissingFile(t *testing.T) {
	s, err := OpenAt(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	if got := s.String("layout_mode", "columns"); got != "columns" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestSetPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	s, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	if err := s.SetFloat("dock_ratio", 0.35); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}
	if err := s.SetStrings("dock_expanded", []string{"a", "b"}); err != nil {
		t.Fatalf("SetStrings: %v", err)
	}
	if err := s.SetBool("dock_collapsed", true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}

	s2, err := OpenAt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := s2.Float("dock_ratio", 0); got != 0.35 {
		t.Fatalf("dock_ratio = %v, want 0.35", got)
	}
	ids := s2.Strings("dock_expanded")
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("dock_expanded = %v", ids)
	}
	if !s2.Bool("dock_collapsed", false) {
		t.Fatalf("dock_collapsed not persisted")
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	if got := s.Float("dock_ratio", 0.3); got != 0.3 {
		t.Fatalf("expected default after corrupt file, got %v", got)
	}
	// store remains usable
	if err := s.SetFloat("dock_ratio", 0.4); err != nil {
		t.Fatalf("SetFloat after corrupt load: %v", err)
	}
}
