// Package vault provides access to the operating system credential vault.
//
// Entries are stored as generic passwords under the service name
// "com.transcriber" with the entry name as the account. The vault holds
// key material only (the secure store's master key); user secrets live
// encrypted on disk, never here.
//
// On macOS entries use kSecAttrAccessibleWhenUnlockedThisDeviceOnly:
// never synced to iCloud, never readable while the machine is locked.
package vault

import "errors"

// ErrNotFound is returned when an entry does not exist in the vault.
var ErrNotFound = errors.New("vault entry not found")

// Store is the interface for credential vault operations.
type Store interface {
	Set(name, value string) error
	Get(name string) (string, error)
	Delete(name string) error
}
