package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Key strategies for the secure store's master key.
const (
	// KeyStrategyKeyring keeps a random key in the OS credential vault.
	KeyStrategyKeyring = "keyring"
	// KeyStrategyMachine derives the key from the machine identifier.
	KeyStrategyMachine = "machine"
)

// Config holds persistent sidecar configuration loaded from
// ~/.transcriber/config.yaml.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	KeyStrategy string `yaml:"key_strategy"` // "keyring" (default) or "machine"
	APIAddr     string `yaml:"api_addr"`     // optional loopback TCP address
	SampleRate  int    `yaml:"sample_rate"`  // capture sample rate hint for the UI
}

// DefaultPath returns the default config file path:
// ~/.transcriber/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".transcriber", "config.yaml")
}

// Load reads a YAML config file from path. A missing, empty or all-comment
// file returns a Config with defaults applied and no error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(DefaultPath())
	}
	if cfg.KeyStrategy == "" {
		cfg.KeyStrategy = KeyStrategyKeyring
	}
	if cfg.KeyStrategy != KeyStrategyKeyring && cfg.KeyStrategy != KeyStrategyMachine {
		return nil, fmt.Errorf("unknown key_strategy %q", cfg.KeyStrategy)
	}
	return cfg, nil
}
