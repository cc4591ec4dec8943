package layout

import (
	"testing"

	"github.com/jwren/berth/internal/workspace"
)

func TestSplitSizesEqual(t *testing.T) {
	got := SplitSizes(10, 3, nil, 0)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSplitSizesRatios(t *testing.T) {
	got := SplitSizes(100, 2, []float64{3, 1}, 0)
	if got[0]+got[1] != 100 {
		t.Fatalf("sizes must tile exactly, got %v", got)
	}
	if got[0] != 75 || got[1] != 25 {
		t.Fatalf("got %v, want [75 25]", got)
	}
}

func TestSplitSizesMinFloor(t *testing.T) {
	got := SplitSizes(100, 2, []float64{99, 1}, 20)
	if got[1] < 20 {
		t.Fatalf("slot below floor: %v", got)
	}
	if got[0]+got[1] != 100 {
		t.Fatalf("sizes must tile exactly, got %v", got)
	}
}

func TestSplitSizesFloorsThatCannotHold(t *testing.T) {
	got := SplitSizes(10, 4, []float64{1, 1, 1, 1}, 20)
	sum := 0
	for _, s := range got {
		sum += s
	}
	if sum != 10 {
		t.Fatalf("degraded split must still tile, got %v", got)
	}
}

func TestGridRectsColumnsTileExactly(t *testing.T) {
	area := Rect{X: 2, Y: 1, W: 90, H: 30}
	rects := GridRects(area, 3, nil, workspace.Columns, 10, 5)
	if len(rects) != 3 {
		t.Fatalf("expected 3 rects")
	}
	x := area.X
	for i, r := range rects {
		if r.X != x {
			t.Fatalf("rect %d starts at %d, want %d", i, r.X, x)
		}
		if r.Y != area.Y || r.H != area.H {
			t.Fatalf("column rect %d has wrong vertical extent: %+v", i, r)
		}
		x += r.W
	}
	if x != area.X+area.W {
		t.Fatalf("columns cover %d cells, want %d", x-area.X, area.W)
	}
}

func TestGridRectsRows(t *testing.T) {
	area := Rect{W: 80, H: 24}
	rects := GridRects(area, 2, []float64{2, 1}, workspace.Rows, 10, 5)
	if rects[0].H+rects[1].H != 24 {
		t.Fatalf("rows must tile, got %+v", rects)
	}
	if rects[0].H <= rects[1].H {
		t.Fatalf("weighting ignored: %+v", rects)
	}
	if rects[1].Y != rects[0].H {
		t.Fatalf("rows not stacked: %+v", rects)
	}
}

func TestGridRectsEmpty(t *testing.T) {
	if got := GridRects(Rect{W: 80, H: 24}, 0, nil, workspace.Columns, 1, 1); got != nil {
		t.Fatalf("expected nil for zero panels")
	}
}
