package workspace

import "testing"

func TestBootstrapCreatesPanelWithSession(t *testing.T) {
	s := New()
	p := s.EnsureGridPanel("/tmp", "/bin/sh")
	if p == nil {
		t.Fatalf("expected bootstrap panel")
	}
	if len(p.Sessions) != 1 {
		t.Fatalf("expected one default session, got %d", len(p.Sessions))
	}
	if p.ActiveSessionID != p.Sessions[0].ID {
		t.Fatalf("active session not set to the default member")
	}
	if p.Shared {
		t.Fatalf("bootstrap panel must be a grid panel")
	}
	if again := s.EnsureGridPanel("/tmp", "/bin/sh"); again != nil {
		t.Fatalf("ensure on a populated grid must be a no-op")
	}
}

func TestEnsureGridPanelIgnoresShared(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	s.ToggleShared(p.ID)
	if got := s.EnsureGridPanel("/tmp", "sh"); got == nil {
		t.Fatalf("pinned-only store must still bootstrap a grid panel")
	}
	if len(s.GridPanels()) != 1 || len(s.SharedPanels()) != 1 {
		t.Fatalf("expected one grid and one shared panel")
	}
}

func TestCloseActiveSessionSelectsNext(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	a := p.Sessions[0]
	b, _ := s.AddSession(p.ID, "sh")
	if p.ActiveSessionID != b.ID {
		t.Fatalf("new session should become active")
	}
	s.SelectSession(p.ID, a.ID)

	closed, panelClosed, ok := s.CloseSession(p.ID, a.ID)
	if !ok || panelClosed {
		t.Fatalf("close failed: ok=%v panelClosed=%v", ok, panelClosed)
	}
	if closed.ID != a.ID {
		t.Fatalf("wrong session reported closed")
	}
	if p.ActiveSessionID != b.ID {
		t.Fatalf("expected next session selected, got %s", p.ActiveSessionID)
	}
}

func TestCloseActiveTailSelectsPrevious(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	b, _ := s.AddSession(p.ID, "sh")
	c, _ := s.AddSession(p.ID, "sh")

	s.SelectSession(p.ID, c.ID)
	if _, _, ok := s.CloseSession(p.ID, c.ID); !ok {
		t.Fatalf("close failed")
	}
	if p.ActiveSessionID != b.ID {
		t.Fatalf("expected previous session selected, got %s", p.ActiveSessionID)
	}
}

func TestCloseInactiveKeepsSelection(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	a := p.Sessions[0]
	b, _ := s.AddSession(p.ID, "sh")

	if _, _, ok := s.CloseSession(p.ID, a.ID); !ok {
		t.Fatalf("close failed")
	}
	if p.ActiveSessionID != b.ID {
		t.Fatalf("selection must not move when a non-active session closes")
	}
}

func TestCloseLastSessionClosesPanel(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	only := p.Sessions[0]

	_, panelClosed, ok := s.CloseSession(p.ID, only.ID)
	if !ok || !panelClosed {
		t.Fatalf("expected panel close, ok=%v panelClosed=%v", ok, panelClosed)
	}
	if s.Panel(p.ID) != nil {
		t.Fatalf("panel still present after last session closed")
	}
}

func TestToggleSharedMovesPartition(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	s.AddSession(p.ID, "sh")
	active := p.ActiveSessionID

	if !s.ToggleShared(p.ID) {
		t.Fatalf("toggle failed")
	}
	if len(s.GridPanels()) != 0 || len(s.SharedPanels()) != 1 {
		t.Fatalf("panel not moved to shared set")
	}
	if len(p.Sessions) != 2 || p.ActiveSessionID != active {
		t.Fatalf("sessions must be untouched by pin/unpin")
	}

	s.ToggleShared(p.ID)
	if len(s.GridPanels()) != 1 || len(s.SharedPanels()) != 0 {
		t.Fatalf("panel not moved back to grid")
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")

	if got := s.ClosePanel("nope"); got != nil {
		t.Fatalf("ClosePanel on unknown id returned sessions")
	}
	if s.ToggleShared("nope") {
		t.Fatalf("ToggleShared on unknown id succeeded")
	}
	if _, _, ok := s.CloseSession(p.ID, "nope"); ok {
		t.Fatalf("CloseSession on unknown session succeeded")
	}
	if _, _, ok := s.CloseSession("nope", p.Sessions[0].ID); ok {
		t.Fatalf("CloseSession on unknown panel succeeded")
	}
	if s.RenameSession(p.ID, "nope", "x") {
		t.Fatalf("RenameSession on unknown session succeeded")
	}
	if s.SetSessionPID("nope", 1) {
		t.Fatalf("SetSessionPID on unknown session succeeded")
	}
	if len(s.Panels()) != 1 || len(p.Sessions) != 1 {
		t.Fatalf("no-ops must not mutate the tree")
	}
}

func TestSelectNonMemberIsNoOp(t *testing.T) {
	s := New()
	p1 := s.AddPanel(SplitRight, "", "/tmp", "sh")
	p2 := s.AddPanel(SplitRight, p1.ID, "/tmp", "sh")

	if s.SelectSession(p1.ID, p2.Sessions[0].ID) {
		t.Fatalf("selecting another panel's session must fail")
	}
	if p1.ActiveSessionID != p1.Sessions[0].ID {
		t.Fatalf("active selection changed by failed select")
	}
}

func TestAddPanelInsertsAfterAndFlipsAxis(t *testing.T) {
	s := New()
	a := s.AddPanel(SplitRight, "", "/tmp", "sh")
	b := s.AddPanel(SplitRight, a.ID, "/tmp", "sh")
	c := s.AddPanel(SplitRight, a.ID, "/tmp", "sh")

	grid := s.GridPanels()
	if grid[0].ID != a.ID || grid[1].ID != c.ID || grid[2].ID != b.ID {
		t.Fatalf("insert-after ordering wrong: %v %v %v", grid[0].ID, grid[1].ID, grid[2].ID)
	}
	if s.Orientation() != Columns {
		t.Fatalf("expected column axis")
	}

	s.AddPanel(SplitDown, "", "/tmp", "sh")
	if s.Orientation() != Rows {
		t.Fatalf("split down must flip the grid axis to rows")
	}
}

func TestClosePanelReturnsSessionsForTeardown(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	s.AddSession(p.ID, "sh")

	sessions := s.ClosePanel(p.ID)
	if len(sessions) != 2 {
		t.Fatalf("expected both sessions returned, got %d", len(sessions))
	}
	if len(s.Panels()) != 0 {
		t.Fatalf("panel not removed")
	}
}

func TestSessionLookupsAndPID(t *testing.T) {
	s := New()
	p := s.AddPanel(SplitRight, "", "/tmp", "sh")
	sess := p.Sessions[0]

	if !s.SetSessionPID(sess.ID, 4242) {
		t.Fatalf("SetSessionPID failed")
	}
	if p.Sessions[0].PID != 4242 {
		t.Fatalf("pid not recorded")
	}
	if got := s.PanelBySession(sess.ID); got == nil || got.ID != p.ID {
		t.Fatalf("PanelBySession lookup failed")
	}
	ids := s.SessionIDs()
	if len(ids) != 1 || ids[0] != sess.ID {
		t.Fatalf("SessionIDs = %v", ids)
	}
}
