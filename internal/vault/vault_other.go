//go:build !darwin

package vault

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ServiceName identifies transcriber entries in the platform credential
// manager (Secret Service on Linux, Credential Manager on Windows).
const ServiceName = "com.transcriber"

// SystemStore provides credential storage via the platform keyring.
type SystemStore struct {
	service string
}

// NewSystemStore creates a keyring-backed vault store.
func NewSystemStore() *SystemStore {
	return &SystemStore{service: ServiceName}
}

// Set stores an entry in the keyring. Overwrites if it already exists.
func (s *SystemStore) Set(name, value string) error {
	if err := keyring.Set(s.service, name, value); err != nil {
		return fmt.Errorf("keyring set %q: %w", name, err)
	}
	return nil
}

// Get retrieves an entry from the keyring.
func (s *SystemStore) Get(name string) (string, error) {
	value, err := keyring.Get(s.service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("keyring get %q: %w", name, err)
	}
	return value, nil
}

// Delete removes an entry from the keyring.
func (s *SystemStore) Delete(name string) error {
	err := keyring.Delete(s.service, name)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete %q: %w", name, err)
	}
	return nil
}
