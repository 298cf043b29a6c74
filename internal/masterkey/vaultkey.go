package masterkey

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/martinbockt/transcriber/internal/crypt"
	"github.com/martinbockt/transcriber/internal/vault"
)

// EntryName is the vault entry holding the base64-encoded master key.
const EntryName = "encryption-key"

// VaultProvider keeps a randomly generated key in the OS credential vault.
type VaultProvider struct {
	vault vault.Store
}

// NewVaultProvider creates a provider over the given vault store.
func NewVaultProvider(v vault.Store) *VaultProvider {
	return &VaultProvider{vault: v}
}

// Key returns the stored key, generating and persisting one on first use.
func (p *VaultProvider) Key() ([]byte, error) {
	encoded, err := p.vault.Get(EntryName)
	if errors.Is(err, vault.ErrNotFound) {
		return p.generate()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyAccess, err)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: stored key is not valid base64: %v", ErrKeyAccess, err)
	}
	if len(key) != crypt.KeySize {
		return nil, fmt.Errorf("%w: stored key has invalid length %d", ErrKeyAccess, len(key))
	}
	return key, nil
}

func (p *VaultProvider) generate() ([]byte, error) {
	key := make([]byte, crypt.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: generating key: %v", ErrKeyAccess, err)
	}
	if err := p.vault.Set(EntryName, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("%w: persisting key: %v", ErrKeyAccess, err)
	}
	return key, nil
}
