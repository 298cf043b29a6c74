//go:build darwin

package vault

import (
	"errors"
	"fmt"

	gokeychain "github.com/keybase/go-keychain"
)

// ServiceName is the Keychain service attribute for all transcriber entries.
const ServiceName = "com.transcriber"

// SystemStore provides credential storage backed by macOS Keychain.
type SystemStore struct {
	service string
}

// NewSystemStore creates a Keychain-backed vault store.
func NewSystemStore() *SystemStore {
	return &SystemStore{service: ServiceName}
}

// Set stores an entry in the Keychain. Overwrites if it already exists.
func (s *SystemStore) Set(name, value string) error {
	// Keychain update = delete + add
	_ = s.Delete(name)

	item := gokeychain.NewGenericPassword(
		s.service,
		name,
		fmt.Sprintf("transcriber: %s", name),
		[]byte(value),
		"",
	)
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	item.SetAccessible(gokeychain.AccessibleWhenUnlockedThisDeviceOnly)

	if err := gokeychain.AddItem(item); err != nil {
		return fmt.Errorf("keychain add %q: %w", name, err)
	}
	return nil
}

// Get retrieves an entry from the Keychain.
func (s *SystemStore) Get(name string) (string, error) {
	data, err := gokeychain.GetGenericPassword(s.service, name, "", "")
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("keychain get %q: %w", name, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return string(data), nil
}

// Delete removes an entry from the Keychain.
func (s *SystemStore) Delete(name string) error {
	err := gokeychain.DeleteGenericPasswordItem(s.service, name)
	if err != nil && !errors.Is(err, gokeychain.ErrorItemNotFound) {
		return fmt.Errorf("keychain delete %q: %w", name, err)
	}
	return nil
}
