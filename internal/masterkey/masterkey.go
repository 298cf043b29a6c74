// Package masterkey produces the 32-byte key that seals the secure store.
//
// Two strategies exist. VaultProvider keeps a random key in the OS
// credential vault: generated once on first use, reused forever.
// MachineProvider derives the key from the platform machine identifier and
// persists nothing, at the cost of tying every secret to this machine —
// values encrypted here cannot be opened elsewhere, and an OS reinstall
// that changes the identifier orphans them. That is a documented property
// of the strategy, not a bug.
package masterkey

import "errors"

// ErrKeyAccess is returned when key material cannot be obtained, because
// the credential vault or the machine identifier is unreachable or the
// stored material is malformed. Callers never receive a default key.
var ErrKeyAccess = errors.New("cannot access key material")

// Provider yields the secure store's symmetric key.
type Provider interface {
	// Key returns exactly crypt.KeySize bytes, stable across calls for a
	// given strategy and machine. The key must not be logged.
	Key() ([]byte, error)
}

// Static is a fixed-key Provider for tests.
type Static []byte

func (s Static) Key() ([]byte, error) {
	return []byte(s), nil
}
