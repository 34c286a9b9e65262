// Package daemon assembles and runs the Pocketbank server: configuration,
// storage, the economy engine and the HTTP API.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pocketbank-dev/pocketbank/internal/app/economy"
)

// Config is the full daemon configuration, loaded from TOML.
type Config struct {
	API     APIConfig      `toml:"api"`
	Storage StorageConfig  `toml:"storage"`
	Economy economy.Config `toml:"economy"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StorageConfig controls where the SQLite database lives.
type StorageConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns production defaults. The database lands under the
// user's home directory unless overridden.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8420,
			Metrics: false,
		},
		Storage: StorageConfig{
			Path: defaultDataDir(),
		},
		Economy: economy.DefaultConfig(),
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error:
// the defaults stand.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func (c Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path required")
	}
	return c.Economy.Validate()
}

// Addr returns the host:port the API listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

func defaultDataDir() string {
	if env := os.Getenv("POCKETBANK_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pocketbank"
	}
	return filepath.Join(home, ".pocketbank")
}
