// Package securestore persists secrets encrypted at rest, one file per key.
//
// Values are sealed by internal/crypt with a key from a masterkey.Provider
// and written under <data-dir>/secure/<sanitized-key>. Reads transparently
// migrate legacy records: a file that fails authentication is treated as a
// plaintext value from a previous storage generation, returned as-is, and
// re-encrypted in place on a best-effort basis. This lets the on-disk
// format move between generations (plaintext, keyring-encrypted,
// machine-identity-encrypted) without a one-time migration step.
//
// The store keeps no in-process state beyond the filesystem and takes no
// locks. Operations on different keys are independent because each key is
// its own file; concurrent Set and Get on the same key may observe a stale
// value but never a torn one, since every write lands via rename.
package securestore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/martinbockt/transcriber/internal/crypt"
	"github.com/martinbockt/transcriber/internal/masterkey"
)

// SubdirName is the directory under the application data dir holding one
// file per secret.
const SubdirName = "secure"

// ErrNotText is returned when a stored value is not valid UTF-8.
var ErrNotText = errors.New("stored value is not valid UTF-8")

// Store is the narrow surface exposed to the UI dispatch layer.
type Store interface {
	// Set persists value under key, replacing any existing value.
	Set(key, value string) error
	// Get returns the value for key, or "" when it was never set.
	Get(key string) (string, error)
	// Delete removes key. Absence is not an error.
	Delete(key string) error
}

// sanitizer maps path-hostile characters to underscores so every key stays
// a single file name inside the secure directory.
var sanitizer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// FileStore is the encrypted on-disk Store.
type FileStore struct {
	dir    string
	keys   masterkey.Provider
	logger *slog.Logger

	// OnUpgrade, when set, observes legacy-record migrations; err is nil
	// when the rewrite succeeded. The result is informational only — Get
	// never fails because an upgrade did.
	OnUpgrade func(key string, err error)
}

// New creates a FileStore rooted at dataDir/secure. The directory is
// created on first write.
func New(dataDir string, keys masterkey.Provider) *FileStore {
	return &FileStore{
		dir:    filepath.Join(dataDir, SubdirName),
		keys:   keys,
		logger: slog.With("component", "securestore"),
	}
}

// Dir returns the secure directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizer.Replace(key))
}

// Set encrypts value and replaces the key's file atomically.
func (s *FileStore) Set(key, value string) error {
	k, err := s.keys.Key()
	if err != nil {
		return err
	}
	blob, err := crypt.Encrypt(k, []byte(value))
	if err != nil {
		return err
	}
	return s.write(s.path(key), []byte(blob))
}

// Get reads and decrypts the value for key. A missing file yields "" and
// no error. A file that fails decryption is a legacy record: its raw bytes
// are the value, and the file is upgraded to the current generation.
func (s *FileStore) Get(key string) (string, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	k, err := s.keys.Key()
	if err != nil {
		return "", err
	}

	plaintext, err := crypt.Decrypt(k, string(raw))
	switch {
	case err == nil:
		if !utf8.Valid(plaintext) {
			return "", ErrNotText
		}
		return string(plaintext), nil

	case errors.Is(err, crypt.ErrAuthentication),
		errors.Is(err, crypt.ErrInvalidEncoding),
		errors.Is(err, crypt.ErrTooShort):
		// Legacy record from a previous storage generation.
		if !utf8.Valid(raw) {
			return "", ErrNotText
		}
		upErr := s.upgrade(key, k, raw)
		if upErr != nil {
			s.logger.Warn("legacy record upgrade failed", "key", key, "error", upErr)
		}
		if s.OnUpgrade != nil {
			s.OnUpgrade(key, upErr)
		}
		return string(raw), nil

	default:
		return "", err
	}
}

// List returns the sanitized names of all stored secrets, sorted. The
// original key is not recoverable once sanitized, so callers get the
// on-disk names.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing secrets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".write-") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the key's file if present.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting secret: %w", err)
	}
	return nil
}

// upgrade re-encrypts a legacy record under the current generation.
func (s *FileStore) upgrade(key string, k, raw []byte) error {
	blob, err := crypt.Encrypt(k, raw)
	if err != nil {
		return err
	}
	return s.write(s.path(key), []byte(blob))
}

// write persists contents atomically: temp file in the secure directory,
// then rename over the target. A crash mid-write never leaves a partial
// blob at the final path. CreateTemp opens the file 0600, which is also
// the owner-only permission the final file keeps through the rename;
// platforms without POSIX modes fall back to their defaults.
func (s *FileStore) write(path string, contents []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating secure dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".write-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing secret: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing secret file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing secret file: %w", err)
	}
	return nil
}
