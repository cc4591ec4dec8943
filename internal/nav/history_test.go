package nav

import (
	"testing"

	"github.com/jwren/berth/internal/database/repository"
)

func TestEmptyHistory(t *testing.T) {
	h := New()
	if h.Current() != nil {
		t.Fatalf("empty history has a current entry")
	}
	if h.Back() || h.Forward() {
		t.Fatalf("moves on an empty history must be no-ops")
	}
	if h.Index() != -1 || h.Len() != 0 {
		t.Fatalf("index=%d len=%d", h.Index(), h.Len())
	}
}

func TestPushMovesCursorToEnd(t *testing.T) {
	h := New()
	h.Push(ProjectsEntry{})
	h.Push(SkillsEntry{})
	if h.Index() != 1 || h.Len() != 2 {
		t.Fatalf("index=%d len=%d", h.Index(), h.Len())
	}
	if _, ok := h.Current().(SkillsEntry); !ok {
		t.Fatalf("current = %T", h.Current())
	}
}

func TestPushAfterBackDiscardsForward(t *testing.T) {
	h := New()
	h.Push(ProjectsEntry{})
	h.Push(SkillsEntry{})
	h.Push(CommandsEntry{})

	if !h.Back() || !h.Back() {
		t.Fatalf("back moves failed")
	}
	if _, ok := h.Current().(ProjectsEntry); !ok {
		t.Fatalf("current = %T after two backs", h.Current())
	}

	h.Push(TemplatesEntry{})
	if h.Len() != 2 {
		t.Fatalf("forward entries survived a push: len=%d", h.Len())
	}
	if h.Forward() {
		t.Fatalf("forward after push must have nothing to move to")
	}
	if _, ok := h.Current().(TemplatesEntry); !ok {
		t.Fatalf("current = %T", h.Current())
	}
}

func TestBackForwardClampAtEdges(t *testing.T) {
	h := New()
	h.Push(ProjectsEntry{})
	if h.Back() {
		t.Fatalf("back at the first entry moved")
	}
	if h.Forward() {
		t.Fatalf("forward at the last entry moved")
	}
	if h.Index() != 0 {
		t.Fatalf("clamped moves changed the cursor: %d", h.Index())
	}
}

func TestCanBackCanForward(t *testing.T) {
	h := New()
	h.Push(ProjectsEntry{})
	h.Push(SkillsEntry{})
	if !h.CanBack() || h.CanForward() {
		t.Fatalf("at end: CanBack=%v CanForward=%v", h.CanBack(), h.CanForward())
	}
	h.Back()
	if h.CanBack() || !h.CanForward() {
		t.Fatalf("at start: CanBack=%v CanForward=%v", h.CanBack(), h.CanForward())
	}
}

func TestPushNilIgnored(t *testing.T) {
	h := New()
	h.Push(nil)
	if h.Len() != 0 {
		t.Fatalf("nil entry recorded")
	}
}

func TestEntryLocations(t *testing.T) {
	cases := []struct {
		e    Entry
		want string
	}{
		{ProjectsEntry{}, "/projects"},
		{SessionsEntry{Project: repository.Project{ID: "p1", Name: "demo"}}, "/projects/p1"},
		{MessagesEntry{Session: repository.Session{ID: "s1", ProjectID: "p1"}}, "/projects/p1/s1"},
		{SkillsEntry{}, "/skills"},
		{SkillEntry{Item: repository.Item{ID: "review", Name: "Review"}}, "/skills/review"},
		{CommandEntry{Item: repository.Item{ID: "fmt"}}, "/commands/fmt"},
		{TemplateEntry{Item: repository.Item{ID: "daily"}}, "/templates/daily"},
	}
	for _, c := range cases {
		if got := c.e.Location(); got != c.want {
			t.Fatalf("%T location = %q, want %q", c.e, got, c.want)
		}
	}
}
