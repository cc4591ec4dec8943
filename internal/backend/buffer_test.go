package backend

import (
	"strings"
	"testing"
)

func TestLineBufferSplitsAndTrims(t *testing.T) {
	b := newLineBuffer(10)
	b.Write([]byte("one\r\ntwo\npart"))

	got := b.Tail(10)
	want := []string{"one", "two", "part"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineBufferCapacity(t *testing.T) {
	b := newLineBuffer(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		b.Write([]byte(s + "\n"))
	}
	got := b.Tail(10)
	if len(got) != 3 || got[0] != "c" || got[2] != "e" {
		t.Fatalf("got %v, want last three lines", got)
	}
}

func TestLineBufferStripsEscapes(t *testing.T) {
	b := newLineBuffer(10)
	b.Write([]byte("\x1b[31mred\x1b[0m text\n"))
	got := b.Tail(1)
	if len(got) != 1 || got[0] != "red text" {
		t.Fatalf("got %v", got)
	}
}

func TestLineBufferCarriageReturnKeepsLastSegment(t *testing.T) {
	b := newLineBuffer(10)
	b.Write([]byte("progress 10%\rprogress 99%\n"))
	got := b.Tail(1)
	if len(got) != 1 || got[0] != "progress 99%" {
		t.Fatalf("got %v", got)
	}
}

func TestLineBufferTailLimit(t *testing.T) {
	b := newLineBuffer(100)
	b.Write([]byte(strings.Repeat("x\n", 50)))
	if got := b.Tail(5); len(got) != 5 {
		t.Fatalf("Tail(5) returned %d lines", len(got))
	}
	if got := b.Tail(0); got != nil {
		t.Fatalf("Tail(0) = %v, want nil", got)
	}
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bs := newBus()
	ch, unsub := bs.subscribe()
	defer unsub()

	for i := 0; i < 200; i++ {
		bs.publish(Event{Type: EventSessionExited, SessionID: "s"})
	}
	// publish never blocked; the channel holds at most its buffer
	if len(ch) == 0 || len(ch) > 64 {
		t.Fatalf("unexpected buffered count %d", len(ch))
	}
}

func TestBusUnsubscribeCloses(t *testing.T) {
	bs := newBus()
	ch, unsub := bs.subscribe()
	unsub()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}
	// publishing after unsubscribe must not panic
	bs.publish(Event{Type: EventSessionExited, SessionID: "s"})
}
