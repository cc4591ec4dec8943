package layout

// Axis is the drag direction a Resizer listens to.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Resizer turns a drag gesture into one clamped scalar: absolute cells, or
// a ratio of a reference extent. Every move commits the clamped value and
// fires the change hook, so layout and persistence track the pointer live.
// End always clears the gesture, including gestures that never moved.
type Resizer struct {
	Min, Max float64

	axis     Axis
	ratio    bool
	val      float64
	onChange func(float64)

	dragging       bool
	startX, startY int
	startVal       float64
}

// NewAbsolute returns a resizer producing sizes in cells.
func NewAbsolute(axis Axis, min, max, initial float64, onChange func(float64)) *Resizer {
	r := &Resizer{Min: min, Max: max, axis: axis, onChange: onChange}
	r.val = clamp(initial, min, max)
	return r
}

// NewRatio returns a resizer producing a fraction of the reference extent
// passed to Move.
func NewRatio(axis Axis, min, max, initial float64, onChange func(float64)) *Resizer {
	r := NewAbsolute(axis, min, max, initial, onChange)
	r.ratio = true
	return r
}

// Value returns the current clamped scalar.
func (r *Resizer) Value() float64 { return r.val }

// Set replaces the value, clamped, without firing the change hook. Used when
// restoring a persisted size.
func (r *Resizer) Set(v float64) { r.val = clamp(v, r.Min, r.Max) }

// Dragging reports whether a gesture is in progress.
func (r *Resizer) Dragging() bool { return r.dragging }

// Begin starts a gesture at the given pointer position.
func (r *Resizer) Begin(x, y int) {
	r.dragging = true
	r.startX, r.startY = x, y
	r.startVal = r.val
}

// Move advances the gesture. ref is the reference extent for ratio mode.
// The new value is clamped and committed immediately; the return reports
// whether it changed.
func (r *Resizer) Move(x, y, ref int) bool {
	if !r.dragging {
		return false
	}
	delta := float64(x - r.startX)
	if r.axis == Vertical {
		delta = float64(y - r.startY)
	}
	if r.ratio {
		if ref <= 0 {
			return false
		}
		delta /= float64(ref)
	}
	v := clamp(r.startVal+delta, r.Min, r.Max)
	if v == r.val {
		return false
	}
	r.val = v
	if r.onChange != nil {
		r.onChange(v)
	}
	return true
}

// End tears the gesture down unconditionally. Safe to call at any time, on
// any release or focus loss, whether or not a gesture is active.
func (r *Resizer) End() { r.dragging = false }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
