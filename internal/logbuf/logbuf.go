// Package logbuf keeps the most recent log lines in memory so the UI can
// display them without tailing files.
package logbuf

import (
	"bytes"
	"strings"
	"sync"
)

// Buffer is a thread-safe fixed-capacity line buffer. It implements
// io.Writer so it can mirror the process logger's output.
type Buffer struct {
	mu  sync.Mutex
	cap int
	// lines holds at most cap complete lines, oldest first.
	lines []string
	// partial holds bytes of an incomplete line (no trailing newline yet).
	partial bytes.Buffer
}

// New creates a buffer that retains the last n lines.
func New(n int) *Buffer {
	return &Buffer{cap: n}
}

// Write implements io.Writer. Input is split on newlines; each complete
// line is retained, evicting the oldest when the buffer is full.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.partial.Write(p)
	for {
		line, err := b.partial.ReadString('\n')
		if err != nil {
			// Incomplete line — put it back and wait for more bytes.
			b.partial.Reset()
			b.partial.WriteString(line)
			break
		}
		b.lines = append(b.lines, strings.TrimRight(line, "\n"))
	}

	if excess := len(b.lines) - b.cap; excess > 0 {
		b.lines = append(b.lines[:0], b.lines[excess:]...)
	}
	return len(p), nil
}

// Lines returns all retained lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Tail returns the last n lines, or all of them when fewer exist.
func (b *Buffer) Tail(n int) []string {
	all := b.Lines()
	if n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}
