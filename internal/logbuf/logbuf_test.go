package logbuf

import (
	"fmt"
	"io"
	"testing"
)

func TestRetainsLines(t *testing.T) {
	b := New(10)

	io.WriteString(b, "first\nsecond\n")
	io.WriteString(b, "third\n")

	lines := b.Lines()
	want := []string{"first", "second", "third"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestEvictsOldestWhenFull(t *testing.T) {
	b := New(3)

	for i := 1; i <= 5; i++ {
		fmt.Fprintf(b, "line-%d\n", i)
	}

	lines := b.Lines()
	want := []string{"line-3", "line-4", "line-5"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestPartialLines(t *testing.T) {
	b := New(10)

	io.WriteString(b, "incomp")
	if got := len(b.Lines()); got != 0 {
		t.Fatalf("expected no complete lines yet, got %d", got)
	}

	io.WriteString(b, "lete\n")
	lines := b.Lines()
	if len(lines) != 1 || lines[0] != "incomplete" {
		t.Errorf("expected [incomplete], got %v", lines)
	}
}

func TestTail(t *testing.T) {
	b := New(10)
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(b, "line-%d\n", i)
	}

	tail := b.Tail(2)
	if len(tail) != 2 || tail[0] != "line-4" || tail[1] != "line-5" {
		t.Errorf("expected last two lines, got %v", tail)
	}

	if got := b.Tail(100); len(got) != 5 {
		t.Errorf("Tail larger than buffer: expected 5 lines, got %d", len(got))
	}
}
