package backend

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// lineBuffer keeps the last capacity lines of session output. Bytes are
// split into lines as they arrive so Tail stays cheap. This is a preview
// buffer, not a terminal: escape sequences are stripped and a carriage
// return inside a line keeps only the text after it, which is enough to make
// progress bars and prompts readable.
type lineBuffer struct {
	mu      sync.Mutex
	lines   []string
	partial []byte
	cap     int
}

func newLineBuffer(capacity int) *lineBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &lineBuffer{cap: capacity}
}

// Write implements io.Writer for the PTY read loop.
func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range p {
		if c == '\n' {
			b.lines = append(b.lines, cleanLine(b.partial))
			b.partial = b.partial[:0]
			if len(b.lines) > b.cap {
				b.lines = b.lines[len(b.lines)-b.cap:]
			}
			continue
		}
		b.partial = append(b.partial, c)
	}
	return len(p), nil
}

// Tail returns up to n trailing lines, including the current unterminated
// line when present.
func (b *lineBuffer) Tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		return nil
	}
	all := b.lines
	if len(b.partial) > 0 {
		all = append(append([]string{}, b.lines...), cleanLine(b.partial))
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]string, len(all))
	copy(out, all)
	return out
}

func cleanLine(raw []byte) string {
	s := ansi.Strip(string(raw))
	s = strings.TrimSuffix(s, "\r")
	if i := strings.LastIndexByte(s, '\r'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
