package workspace

// Tracker holds the latest known liveness per tracked session id. Two
// producers feed it: whole probe batches and asynchronous exit events. Exit
// events win: once an id is marked exited it reads as not-running for the
// rest of its tracked lifetime, regardless of what an in-flight probe batch
// reports when it lands.
//
// Absence is a real state: an id with no entry has not been checked yet,
// which is distinct from known-dead.
type Tracker struct {
	tracked map[string]struct{}
	running map[string]bool
	exited  map[string]struct{}
	seq     uint64
}

func NewTracker() *Tracker {
	return &Tracker{
		tracked: make(map[string]struct{}),
		running: make(map[string]bool),
		exited:  make(map[string]struct{}),
	}
}

// SetTracked replaces the tracked id set, dropping all state for ids that
// left. It reports whether new ids appeared, which is the caller's signal to
// start a probe batch.
func (t *Tracker) SetTracked(ids []string) bool {
	next := make(map[string]struct{}, len(ids))
	added := false
	for _, id := range ids {
		next[id] = struct{}{}
		if _, ok := t.tracked[id]; !ok {
			added = true
		}
	}
	for id := range t.running {
		if _, ok := next[id]; !ok {
			delete(t.running, id)
		}
	}
	for id := range t.exited {
		if _, ok := next[id]; !ok {
			delete(t.exited, id)
		}
	}
	t.tracked = next
	return added
}

// BeginBatch snapshots the tracked set for probing and returns a batch
// token. Beginning a new batch supersedes any batch still in flight; the
// superseded batch's commit will be discarded whole.
func (t *Tracker) BeginBatch() (uint64, []string) {
	t.seq++
	ids := make([]string, 0, len(t.tracked))
	for id := range t.tracked {
		ids = append(ids, id)
	}
	return t.seq, ids
}

// CommitBatch applies a completed probe batch atomically. Only the newest
// batch commits, only for ids it intended to refresh that are still
// tracked, and never over an exit recorded since the batch began. Reports
// whether the batch was applied.
func (t *Tracker) CommitBatch(token uint64, results map[string]bool) bool {
	if token != t.seq {
		return false
	}
	next := make(map[string]bool, len(results))
	for id, alive := range results {
		if _, ok := t.tracked[id]; !ok {
			continue
		}
		if _, dead := t.exited[id]; dead {
			alive = false
		}
		next[id] = alive
	}
	t.running = next
	return true
}

// MarkExited patches an exit event into the map immediately. Ids that are
// not tracked (already closed, or redelivered events) are dropped.
func (t *Tracker) MarkExited(id string) {
	if _, ok := t.tracked[id]; !ok {
		return
	}
	t.exited[id] = struct{}{}
	t.running[id] = false
}

// Running reports the recorded liveness for id and whether it has been
// checked at all.
func (t *Tracker) Running(id string) (alive, known bool) {
	if _, dead := t.exited[id]; dead {
		return false, true
	}
	v, ok := t.running[id]
	return v, ok
}
