package layout

import "testing"

func TestSyncAutoExpandsNewPromotion(t *testing.T) {
	d := NewDockState()
	d.Sync([]string{"a"})
	if !d.IsExpanded("a") {
		t.Fatalf("newly promoted panel must be expanded on the same pass")
	}

	// the user collapses it; a later promotion must not disturb it
	d.Toggle("a")
	d.Sync([]string{"a", "b"})
	if d.IsExpanded("a") {
		t.Fatalf("existing panel state disturbed by a new promotion")
	}
	if !d.IsExpanded("b") {
		t.Fatalf("new panel not auto-expanded")
	}
}

func TestSyncDropsDeparted(t *testing.T) {
	d := NewDockState()
	d.Sync([]string{"a"})
	d.Sync(nil)
	// re-promotion counts as new again
	d.Sync([]string{"a"})
	if !d.IsExpanded("a") {
		t.Fatalf("re-promoted panel must auto-expand again")
	}
}

func TestRestoreDoesNotCountAsPromotion(t *testing.T) {
	d := NewDockState()
	d.Restore([]string{"a"}, true)
	if !d.Collapsed {
		t.Fatalf("collapsed flag not restored")
	}
	d.Toggle("a") // user collapses the restored panel
	d.Sync([]string{"a"})
	if d.IsExpanded("a") {
		t.Fatalf("restored id treated as a fresh promotion")
	}
}

func TestDockSlotsFlexRule(t *testing.T) {
	d := NewDockState()
	d.Sync([]string{"a", "b", "c"})
	d.Toggle("b") // collapse b, leaving a and c expanded

	area := Rect{X: 60, Y: 0, W: 30, H: 40}
	slots := DockSlots(area, []string{"a", "b", "c"}, d, 3, 4)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots")
	}
	if slots[1].R.H != 3 {
		t.Fatalf("collapsed slot height = %d, want header height", slots[1].R.H)
	}
	if slots[0].R.H+slots[2].R.H != 40-3 {
		t.Fatalf("expanded slots must share the remaining height, got %d and %d",
			slots[0].R.H, slots[2].R.H)
	}
	if slots[0].Expanded == false || slots[2].Expanded == false || slots[1].Expanded {
		t.Fatalf("expanded flags wrong: %+v", slots)
	}
}

func TestDockSlotsNothingExpanded(t *testing.T) {
	d := NewDockState()
	d.Sync([]string{"a", "b"})
	d.Toggle("a")
	d.Toggle("b")

	slots := DockSlots(Rect{W: 30, H: 40}, []string{"a", "b"}, d, 3, 4)
	for _, s := range slots {
		if s.R.H != 3 {
			t.Fatalf("with nothing expanded every card sits at natural height, got %+v", s)
		}
	}
}

func TestDockSlotsClipAtBottom(t *testing.T) {
	d := NewDockState()
	ids := []string{"a", "b", "c", "d"}
	d.Sync(ids)
	for _, id := range ids {
		d.Toggle(id) // all collapsed
	}
	slots := DockSlots(Rect{W: 30, H: 7}, ids, d, 3, 4)
	total := 0
	for _, s := range slots {
		total += s.R.H
	}
	if total > 7 {
		t.Fatalf("slots overflow the dock area: %d cells", total)
	}
}

func TestExpandedIDsPreservesOrder(t *testing.T) {
	d := NewDockState()
	d.Sync([]string{"a", "b", "c"})
	d.Toggle("b")
	got := d.ExpandedIDs([]string{"a", "b", "c"})
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("got %v", got)
	}
}
