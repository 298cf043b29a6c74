package masterkey

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/martinbockt/transcriber/internal/crypt"
	"github.com/martinbockt/transcriber/internal/machineid"
)

// keyInfo provides domain separation so the derived key is unique to the
// secure store even if other components derive from the same identifier.
const keyInfo = "transcriber-secure-store-v1"

// MachineProvider derives the key from the platform machine identifier
// with HKDF-SHA256. It persists nothing.
type MachineProvider struct {
	// readID is swapped in tests; defaults to machineid.ID.
	readID func() (string, error)
}

// NewMachineProvider creates an identity-derived key provider.
func NewMachineProvider() *MachineProvider {
	return &MachineProvider{readID: machineid.ID}
}

// Key derives the machine-bound key. Same machine, same key.
func (p *MachineProvider) Key() ([]byte, error) {
	id, err := p.readID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyAccess, err)
	}

	key := make([]byte, crypt.KeySize)
	r := hkdf.New(sha256.New, []byte(id), nil, []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("%w: deriving key: %v", ErrKeyAccess, err)
	}
	return key, nil
}
