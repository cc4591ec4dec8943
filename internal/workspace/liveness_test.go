package workspace

import "testing"

func TestProbeBatchCommit(t *testing.T) {
	tr := NewTracker()
	tr.SetTracked([]string{"a", "b"})

	token, ids := tr.BeginBatch()
	if len(ids) != 2 {
		t.Fatalf("batch ids = %v", ids)
	}
	if !tr.CommitBatch(token, map[string]bool{"a": true, "b": false}) {
		t.Fatalf("commit rejected")
	}

	if alive, known := tr.Running("a"); !known || !alive {
		t.Fatalf("a: alive=%v known=%v", alive, known)
	}
	if alive, known := tr.Running("b"); !known || alive {
		t.Fatalf("b: alive=%v known=%v", alive, known)
	}
}

func TestAbsenceDistinctFromDead(t *testing.T) {
	tr := NewTracker()
	tr.SetTracked([]string{"a"})
	if _, known := tr.Running("a"); known {
		t.Fatalf("unprobed id must read as unknown")
	}
}

func TestExitEventWinsOverInFlightBatch(t *testing.T) {
	tr := NewTracker()
	tr.SetTracked([]string{"a", "b"})
	token, _ := tr.BeginBatch()

	// the process dies while the probe is in flight
	tr.MarkExited("a")
	if alive, known := tr.Running("a"); !known || alive {
		t.Fatalf("exit patch not applied immediately")
	}

	// the stale probe saw the process alive; the event still wins
	if !tr.CommitBatch(token, map[string]bool{"a": true, "b": true}) {
		t.Fatalf("commit rejected")
	}
	if alive, _ := tr.Running("a"); alive {
		t.Fatalf("stale probe result resurrected an exited id")
	}
	if alive, _ := tr.Running("b"); !alive {
		t.Fatalf("unrelated id lost its batch result")
	}
}

func TestSupersededBatchDiscardedWhole(t *testing.T) {
	tr := NewTracker()
	tr.SetTracked([]string{"a"})

	old, _ := tr.BeginBatch()
	fresh, _ := tr.BeginBatch()

	if tr.CommitBatch(old, map[string]bool{"a": true}) {
		t.Fatalf("superseded batch must not commit")
	}
	if _, known := tr.Running("a"); known {
		t.Fatalf("discarded batch leaked partial state")
	}
	if !tr.CommitBatch(fresh, map[string]bool{"a": true}) {
		t.Fatalf("newest batch rejected")
	}
}

func TestCommitIgnoresUntrackedResults(t *testing.T) {
	tr := NewTracker()
	tr.SetTracked([]string{"a", "b"})
	token, _ := tr.BeginBatch()

	// b closes before the batch lands
	tr.SetTracked([]string{"a"})

	tr.CommitBatch(token, map[string]bool{"a": true, "b": true})
	if _, known := tr.Running("b"); known {
		t.Fatalf("result committed for an id that left the tracked set")
	}
}

func TestSetTrackedReportsAdditionsAndPrunes(t *testing.T) {
	tr := NewTracker()
	if !tr.SetTracked([]string{"a"}) {
		t.Fatalf("first id must report added")
	}
	if tr.SetTracked([]string{"a"}) {
		t.Fatalf("unchanged set must not report added")
	}

	token, _ := tr.BeginBatch()
	tr.CommitBatch(token, map[string]bool{"a": false})
	tr.MarkExited("a")

	// removal ends the lifetime; re-adding starts fresh
	tr.SetTracked(nil)
	tr.SetTracked([]string{"a"})
	if _, known := tr.Running("a"); known {
		t.Fatalf("state survived across tracked lifetimes")
	}
}

func TestMarkExitedUnknownIDDropped(t *testing.T) {
	tr := NewTracker()
	tr.SetTracked([]string{"a"})
	tr.MarkExited("ghost")
	if _, known := tr.Running("ghost"); known {
		t.Fatalf("untracked exit event recorded state")
	}
}
