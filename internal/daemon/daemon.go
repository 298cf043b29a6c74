// Package daemon runs the native sidecar of the transcriber desktop app.
// It owns the encrypted secret store and the recording buffer, and watches
// the secure directory for modifications made behind the store's back.
package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/martinbockt/transcriber/internal/audio"
	"github.com/martinbockt/transcriber/internal/audit"
	"github.com/martinbockt/transcriber/internal/config"
	"github.com/martinbockt/transcriber/internal/masterkey"
	"github.com/martinbockt/transcriber/internal/securestore"
	"github.com/martinbockt/transcriber/internal/vault"
)

// Daemon wires the secure store and the recorder behind the API surface.
type Daemon struct {
	store    securestore.Store
	keys     masterkey.Provider
	recorder *audio.Recorder
	auditLog *audit.Logger
	dir      string // secure directory, watched for external changes
	logger   *slog.Logger
}

// KeyProvider builds the master key provider selected by cfg.
func KeyProvider(cfg *config.Config) (masterkey.Provider, error) {
	switch cfg.KeyStrategy {
	case config.KeyStrategyMachine:
		return masterkey.NewMachineProvider(), nil
	case config.KeyStrategyKeyring, "":
		return masterkey.NewVaultProvider(vault.NewSystemStore()), nil
	default:
		return nil, fmt.Errorf("unknown key strategy %q", cfg.KeyStrategy)
	}
}

// New creates a daemon with the key provider selected by cfg.
func New(cfg *config.Config, auditLog *audit.Logger) (*Daemon, error) {
	keys, err := KeyProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithKeys(cfg, auditLog, keys), nil
}

// NewWithKeys creates a daemon over an explicit key provider.
func NewWithKeys(cfg *config.Config, auditLog *audit.Logger, keys masterkey.Provider) *Daemon {
	files := securestore.New(cfg.DataDir, keys)
	files.OnUpgrade = func(key string, err error) {
		entry := audit.Entry{Action: audit.ActionSecretMigrate, Key: key, Actor: "daemon"}
		if err != nil {
			entry.Error = err.Error()
		}
		auditLog.Log(entry)
	}

	return &Daemon{
		store:    securestore.NewAudited(files, auditLog, "daemon"),
		keys:     keys,
		recorder: audio.NewRecorder(),
		auditLog: auditLog,
		dir:      files.Dir(),
		logger:   slog.With("component", "daemon"),
	}
}

// Store returns the audited secret store.
func (d *Daemon) Store() securestore.Store {
	return d.store
}

// Recorder returns the audio recording buffer.
func (d *Daemon) Recorder() *audio.Recorder {
	return d.recorder
}

// Health verifies that the store's key material is reachable. It never
// returns the key to the caller.
func (d *Daemon) Health() error {
	if _, err := d.keys.Key(); err != nil {
		return err
	}
	return nil
}

// SaveFile writes UI-supplied content to a path the user already chose in
// the host's save dialog. Parent directories must exist; the UI's dialog
// guarantees that.
func (d *Daemon) SaveFile(path string, content []byte) error {
	if path == "" {
		return fmt.Errorf("empty target path")
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	d.logger.Info("file saved", "path", filepath.Base(path), "bytes", len(content))
	return nil
}
