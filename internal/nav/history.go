package nav

// History is the navigation stack with a movable cursor. Push is the only
// writer: it discards everything beyond the cursor and appends, so forward
// entries survive exactly until the next push. Back and Forward clamp at the
// edges; an out-of-range move is a no-op, never an error.
type History struct {
	entries []Entry
	index   int
}

// New returns an empty history with the cursor parked before the first slot.
func New() *History {
	return &History{index: -1}
}

// Current returns the entry under the cursor, or nil while empty.
func (h *History) Current() Entry {
	if h.index < 0 || h.index >= len(h.entries) {
		return nil
	}
	return h.entries[h.index]
}

// Push drops the forward tail, appends e and moves the cursor to it.
func (h *History) Push(e Entry) {
	if e == nil {
		return
	}
	h.entries = append(h.entries[:h.index+1], e)
	h.index = len(h.entries) - 1
}

// Back moves the cursor one entry toward the start. Reports whether it moved.
func (h *History) Back() bool {
	if h.index <= 0 {
		return false
	}
	h.index--
	return true
}

// Forward moves the cursor one entry toward the end. Reports whether it moved.
func (h *History) Forward() bool {
	if h.index >= len(h.entries)-1 {
		return false
	}
	h.index++
	return true
}

func (h *History) CanBack() bool    { return h.index > 0 }
func (h *History) CanForward() bool { return h.index < len(h.entries)-1 }

func (h *History) Len() int   { return len(h.entries) }
func (h *History) Index() int { return h.index }
