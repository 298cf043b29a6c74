package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/martinbockt/transcriber/internal/audit"
	"github.com/martinbockt/transcriber/internal/config"
	"github.com/martinbockt/transcriber/internal/crypt"
	"github.com/martinbockt/transcriber/internal/masterkey"
)

func testDaemon(t *testing.T) (*Daemon, string) {
	t.Helper()
	dir := t.TempDir()
	auditLog, err := audit.NewLogger(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("audit.NewLogger: %v", err)
	}
	t.Cleanup(func() { auditLog.Close() })

	cfg := &config.Config{DataDir: dir, KeyStrategy: config.KeyStrategyKeyring}
	keys := masterkey.Static(bytes.Repeat([]byte{42}, crypt.KeySize))
	return NewWithKeys(cfg, auditLog, keys), dir
}

func TestStoreRoundtrip(t *testing.T) {
	d, _ := testDaemon(t)

	if err := d.Store().Set("api_key", "sk-123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, err := d.Store().Get("api_key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "sk-123" {
		t.Errorf("expected 'sk-123', got %q", val)
	}
}

func TestHealth(t *testing.T) {
	d, _ := testDaemon(t)

	if err := d.Health(); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestHealthReportsKeyAccessFailure(t *testing.T) {
	dir := t.TempDir()
	auditLog, _ := audit.NewLogger(filepath.Join(dir, "audit.log"))
	defer auditLog.Close()

	cfg := &config.Config{DataDir: dir}
	d := NewWithKeys(cfg, auditLog, failingKeys{})

	if err := d.Health(); !errors.Is(err, masterkey.ErrKeyAccess) {
		t.Errorf("expected ErrKeyAccess, got %v", err)
	}
}

type failingKeys struct{}

func (failingKeys) Key() ([]byte, error) { return nil, masterkey.ErrKeyAccess }

func TestKeyProviderSelection(t *testing.T) {
	if _, err := KeyProvider(&config.Config{KeyStrategy: config.KeyStrategyMachine}); err != nil {
		t.Errorf("machine strategy: %v", err)
	}
	if _, err := KeyProvider(&config.Config{KeyStrategy: config.KeyStrategyKeyring}); err != nil {
		t.Errorf("keyring strategy: %v", err)
	}
	if _, err := KeyProvider(&config.Config{KeyStrategy: "escrow"}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestSaveFile(t *testing.T) {
	d, dir := testDaemon(t)

	target := filepath.Join(dir, "transcript.txt")
	if err := d.SaveFile(target, []byte("hello")); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected 'hello', got %q", data)
	}
}

func TestSaveFileEmptyPath(t *testing.T) {
	d, _ := testDaemon(t)

	if err := d.SaveFile("", []byte("x")); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestWatcherRecordsExternalChange(t *testing.T) {
	d, dir := testDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.StartWatcher(ctx) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	// Tamper with a file directly, bypassing the store.
	tampered := filepath.Join(dir, "secure", "tampered_key")
	if err := os.WriteFile(tampered, []byte("external write"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.After(3 * time.Second)
	auditPath := filepath.Join(dir, "audit.log")
	for {
		data, _ := os.ReadFile(auditPath)
		if entryLogged(data, "tampered_key") {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no secure_dir_change entry recorded")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("StartWatcher: %v", err)
	}
}

func entryLogged(data []byte, path string) bool {
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e audit.Entry
		if json.Unmarshal([]byte(line), &e) != nil {
			continue
		}
		if e.Action == audit.ActionExternalChange && e.Path == path {
			return true
		}
	}
	return false
}
