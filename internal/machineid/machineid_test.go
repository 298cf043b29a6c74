package machineid

import (
	"errors"
	"strings"
	"testing"
)

func TestID(t *testing.T) {
	id, err := ID()
	if errors.Is(err, ErrUnavailable) {
		t.Skip("no machine identifier on this host")
	}
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty identifier")
	}
	if strings.TrimSpace(id) != id {
		t.Errorf("identifier not trimmed: %q", id)
	}
}

func TestIDStable(t *testing.T) {
	first, err := ID()
	if errors.Is(err, ErrUnavailable) {
		t.Skip("no machine identifier on this host")
	}
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	second, err := ID()
	if err != nil {
		t.Fatalf("ID (second call): %v", err)
	}
	if first != second {
		t.Errorf("identifier changed between calls: %q vs %q", first, second)
	}
}
