package layout

import "testing"

func TestAbsoluteDragClampsEveryStep(t *testing.T) {
	var writes []float64
	r := NewAbsolute(Horizontal, 10, 60, 30, func(v float64) { writes = append(writes, v) })

	r.Begin(100, 0)
	for _, x := range []int{110, 150, 300, 90, 40, -500, 120} {
		r.Move(x, 0, 0)
		if v := r.Value(); v < 10 || v > 60 {
			t.Fatalf("value %v escaped [10,60]", v)
		}
	}
	r.End()

	if len(writes) == 0 {
		t.Fatalf("moves must write through")
	}
	for _, v := range writes {
		if v < 10 || v > 60 {
			t.Fatalf("write %v escaped the clamp", v)
		}
	}
}

func TestRatioDragUsesReferenceExtent(t *testing.T) {
	r := NewRatio(Horizontal, 0.15, 0.6, 0.3, nil)
	r.Begin(50, 0)
	r.Move(70, 0, 100) // +20 cells over a 100-cell reference
	if got := r.Value(); got != 0.5 {
		t.Fatalf("value = %v, want 0.5", got)
	}
	r.Move(1000, 0, 100)
	if got := r.Value(); got != 0.6 {
		t.Fatalf("overshoot must clamp to max, got %v", got)
	}
}

func TestVerticalAxisIgnoresX(t *testing.T) {
	r := NewAbsolute(Vertical, 5, 50, 20, nil)
	r.Begin(10, 10)
	r.Move(500, 15, 0)
	if got := r.Value(); got != 25 {
		t.Fatalf("vertical drag must track y only, got %v", got)
	}
}

func TestMoveWithoutBeginIsNoOp(t *testing.T) {
	r := NewAbsolute(Horizontal, 10, 60, 30, nil)
	if r.Move(999, 0, 0) {
		t.Fatalf("move without an active gesture changed the value")
	}
	if r.Value() != 30 {
		t.Fatalf("value changed without a gesture")
	}
}

func TestEndIsUnconditional(t *testing.T) {
	r := NewAbsolute(Horizontal, 10, 60, 30, nil)
	r.End() // no gesture active; must not panic or wedge
	r.Begin(0, 0)
	r.End()
	if r.Dragging() {
		t.Fatalf("gesture still active after End")
	}
	// a fresh gesture starts cleanly after an interrupted one
	r.Begin(10, 0)
	r.Move(20, 0, 0)
	if r.Value() != 40 {
		t.Fatalf("second gesture did not start from the committed value")
	}
}

func TestSetClampsWithoutFiring(t *testing.T) {
	fired := false
	r := NewRatio(Horizontal, 0.15, 0.6, 0.3, func(float64) { fired = true })
	r.Set(0.9)
	if r.Value() != 0.6 {
		t.Fatalf("restored value not clamped, got %v", r.Value())
	}
	if fired {
		t.Fatalf("restore must not fire the change hook")
	}
}

func TestUnchangedMoveDoesNotFire(t *testing.T) {
	count := 0
	r := NewAbsolute(Horizontal, 10, 60, 60, func(float64) { count++ })
	r.Begin(0, 0)
	r.Move(100, 0, 0) // already at max; clamped value unchanged
	if count != 0 {
		t.Fatalf("change hook fired for an unchanged value")
	}
}
