package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/martinbockt/transcriber/internal/audit"
)

// StartWatcher watches the secure directory and records every modification
// to the audit log. Together with the store's own write entries this makes
// external tampering with secret files visible. It blocks until the
// context is cancelled.
func (d *Daemon) StartWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// The directory must exist before it can be watched.
	if err := os.MkdirAll(d.dir, 0700); err != nil {
		return err
	}
	if err := watcher.Add(d.dir); err != nil {
		return err
	}

	d.logger.Info("watching secure directory", "dir", d.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			// The store's own atomic writes go through temp files.
			if strings.HasPrefix(name, ".write-") {
				continue
			}
			d.logger.Debug("secure dir change", "file", name, "op", event.Op.String())
			d.auditLog.Log(audit.Entry{
				Action: audit.ActionExternalChange,
				Path:   name,
				Actor:  "daemon",
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("secure dir watcher error", "error", err)
		}
	}
}
