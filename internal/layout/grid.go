// Package layout computes workspace geometry: how the grid divides its area
// between panels, how the pinned dock stacks its cards, and how drag
// gestures become clamped sizes. Everything here is pure arithmetic over the
// panel tree; nothing in it mutates the tree.
package layout

import (
	"math"

	"github.com/jwren/berth/internal/workspace"
)

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

// SplitSizes divides total between n slots proportionally to weights, with
// each slot floored at min where that fits. Missing or malformed weights
// fall back to an equal split; the rounding remainder is handed out one cell
// at a time from the first slot.
func SplitSizes(total, n int, weights []float64, min int) []int {
	if n <= 0 {
		return nil
	}
	if min < 0 {
		min = 0
	}
	if min*n > total {
		// floors cannot hold; degrade to an equal split
		weights = nil
		min = 0
	}

	out := make([]int, n)
	if len(weights) != n {
		size := total / n
		for i := range out {
			out[i] = size
		}
		for i := 0; i < total%n; i++ {
			out[i]++
		}
		return out
	}

	sum := 0.0
	for _, w := range weights {
		if w <= 0 {
			w = 1
		}
		sum += w
	}
	used := 0
	for i, w := range weights {
		if w <= 0 {
			w = 1
		}
		out[i] = int(math.Floor((w / sum) * float64(total)))
		used += out[i]
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}

	// raise undersized slots to the floor, taking from the largest
	for i := range out {
		for out[i] < min {
			big := -1
			for j := range out {
				if j != i && out[j] > min && (big < 0 || out[j] > out[big]) {
					big = j
				}
			}
			if big < 0 {
				break
			}
			out[big]--
			out[i]++
		}
	}
	return out
}

// GridRects lays the grid panels into area as a single-axis split sequence.
// Weights come from persisted per-panel sizes; minW/minH keep every panel
// visible regardless of how far a divider was dragged.
func GridRects(area Rect, n int, weights []float64, o workspace.Orientation, minW, minH int) []Rect {
	if n <= 0 || area.W <= 0 || area.H <= 0 {
		return nil
	}
	rects := make([]Rect, n)
	if o == workspace.Columns {
		ws := SplitSizes(area.W, n, weights, minW)
		x := area.X
		for i, w := range ws {
			rects[i] = Rect{X: x, Y: area.Y, W: w, H: area.H}
			x += w
		}
		return rects
	}
	hs := SplitSizes(area.H, n, weights, minH)
	y := area.Y
	for i, h := range hs {
		rects[i] = Rect{X: area.X, Y: y, W: area.W, H: h}
		y += h
	}
	return rects
}
