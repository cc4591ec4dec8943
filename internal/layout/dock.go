package layout

// DockState tracks the pinned zone's presentation: the whole-zone collapsed
// flag and the per-panel expanded set. Both survive restarts through the
// preference store; panel membership itself comes from the panel tree on
// every pass.
type DockState struct {
	Collapsed bool
	expanded  map[string]struct{}
	known     map[string]struct{}
}

func NewDockState() *DockState {
	return &DockState{
		expanded: make(map[string]struct{}),
		known:    make(map[string]struct{}),
	}
}

// Restore seeds the state from persisted values without treating the ids as
// new promotions.
func (d *DockState) Restore(expanded []string, collapsed bool) {
	d.Collapsed = collapsed
	for _, id := range expanded {
		d.expanded[id] = struct{}{}
		d.known[id] = struct{}{}
	}
}

// Sync reconciles against the current pinned membership. A panel seen for
// the first time (one just promoted into the dock) is auto-inserted into
// the expanded set on this same pass, so pinning is immediately visible.
// State for panels that left the dock is dropped.
func (d *DockState) Sync(ids []string) {
	current := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		current[id] = struct{}{}
		if _, seen := d.known[id]; !seen {
			d.known[id] = struct{}{}
			d.expanded[id] = struct{}{}
		}
	}
	for id := range d.known {
		if _, ok := current[id]; !ok {
			delete(d.known, id)
			delete(d.expanded, id)
		}
	}
}

// Toggle flips one panel's expansion.
func (d *DockState) Toggle(id string) {
	if _, ok := d.expanded[id]; ok {
		delete(d.expanded, id)
		return
	}
	d.expanded[id] = struct{}{}
}

func (d *DockState) IsExpanded(id string) bool {
	_, ok := d.expanded[id]
	return ok
}

// ExpandedIDs returns the expanded subset of order, preserving order, for
// persistence.
func (d *DockState) ExpandedIDs(order []string) []string {
	var out []string
	for _, id := range order {
		if d.IsExpanded(id) {
			out = append(out, id)
		}
	}
	return out
}

// Slot is one dock card's computed region.
type Slot struct {
	ID       string
	R        Rect
	Expanded bool
}

// DockSlots stacks the pinned panels into area. Expanded panels flex to
// share the height left after collapsed headers; with nothing expanded every
// panel sits at its natural header height. Slots that fall past the bottom
// edge are clipped to zero height.
func DockSlots(area Rect, ids []string, d *DockState, headerH, minH int) []Slot {
	if len(ids) == 0 || area.W <= 0 || area.H <= 0 {
		return nil
	}
	if headerH <= 0 {
		headerH = 1
	}

	expandedCount := 0
	for _, id := range ids {
		if d.IsExpanded(id) {
			expandedCount++
		}
	}

	heights := make([]int, len(ids))
	if expandedCount == 0 {
		for i := range ids {
			heights[i] = headerH
		}
	} else {
		avail := area.H - (len(ids)-expandedCount)*headerH
		if avail < 0 {
			avail = 0
		}
		flex := SplitSizes(avail, expandedCount, nil, minH)
		fi := 0
		for i, id := range ids {
			if d.IsExpanded(id) {
				heights[i] = flex[fi]
				fi++
			} else {
				heights[i] = headerH
			}
		}
	}

	slots := make([]Slot, len(ids))
	y := area.Y
	bottom := area.Y + area.H
	for i, id := range ids {
		h := heights[i]
		if y+h > bottom {
			h = bottom - y
			if h < 0 {
				h = 0
			}
		}
		slots[i] = Slot{ID: id, R: Rect{X: area.X, Y: y, W: area.W, H: h}, Expanded: d.IsExpanded(id)}
		y += h
	}
	return slots
}
