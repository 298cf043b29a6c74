package masterkey

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/martinbockt/transcriber/internal/crypt"
	"github.com/martinbockt/transcriber/internal/vault"
)

func TestVaultProviderGeneratesOnFirstUse(t *testing.T) {
	v := vault.NewMemoryStore()
	p := NewVaultProvider(v)

	key, err := p.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if len(key) != crypt.KeySize {
		t.Fatalf("expected %d-byte key, got %d", crypt.KeySize, len(key))
	}

	// The generated key must have been persisted, base64-encoded.
	stored, err := v.Get(EntryName)
	if err != nil {
		t.Fatalf("vault Get: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		t.Fatalf("stored entry is not base64: %v", err)
	}
	if !bytes.Equal(decoded, key) {
		t.Error("persisted key does not match returned key")
	}
}

func TestVaultProviderReusesStoredKey(t *testing.T) {
	v := vault.NewMemoryStore()
	p := NewVaultProvider(v)

	first, err := p.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	second, err := p.Key()
	if err != nil {
		t.Fatalf("Key (second call): %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected the same key on every call")
	}
}

func TestVaultProviderRejectsMalformedEntry(t *testing.T) {
	cases := []struct {
		name  string
		entry string
	}{
		{"not base64", "%%% not base64 %%%"},
		{"wrong length", base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tc := range cases {
		v := vault.NewMemoryStore()
		v.Set(EntryName, tc.entry)

		_, err := NewVaultProvider(v).Key()
		if !errors.Is(err, ErrKeyAccess) {
			t.Errorf("%s: expected ErrKeyAccess, got %v", tc.name, err)
		}
	}
}

// brokenVault fails every operation, simulating an unreachable OS vault.
type brokenVault struct{}

func (brokenVault) Set(_, _ string) error        { return errors.New("vault unreachable") }
func (brokenVault) Get(_ string) (string, error) { return "", errors.New("vault unreachable") }
func (brokenVault) Delete(_ string) error        { return errors.New("vault unreachable") }

func TestVaultProviderUnreachableVault(t *testing.T) {
	_, err := NewVaultProvider(brokenVault{}).Key()
	if !errors.Is(err, ErrKeyAccess) {
		t.Errorf("expected ErrKeyAccess, got %v", err)
	}
}

func TestMachineProviderDeterministic(t *testing.T) {
	p := &MachineProvider{readID: func() (string, error) { return "machine-a", nil }}

	first, err := p.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if len(first) != crypt.KeySize {
		t.Fatalf("expected %d-byte key, got %d", crypt.KeySize, len(first))
	}

	second, err := p.Key()
	if err != nil {
		t.Fatalf("Key (second call): %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected a deterministic key for a fixed identifier")
	}
}

func TestMachineProviderDistinctMachines(t *testing.T) {
	keyFor := func(id string) []byte {
		p := &MachineProvider{readID: func() (string, error) { return id, nil }}
		key, err := p.Key()
		if err != nil {
			t.Fatalf("Key(%q): %v", id, err)
		}
		return key
	}

	if bytes.Equal(keyFor("machine-a"), keyFor("machine-b")) {
		t.Error("different machine identifiers must derive different keys")
	}
}

func TestMachineProviderIdentifierUnavailable(t *testing.T) {
	p := &MachineProvider{readID: func() (string, error) {
		return "", fmt.Errorf("no identifier on this host")
	}}

	_, err := p.Key()
	if !errors.Is(err, ErrKeyAccess) {
		t.Errorf("expected ErrKeyAccess, got %v", err)
	}
}
