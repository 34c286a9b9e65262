package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8420 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8420)
	}
	if cfg.API.Metrics {
		t.Error("API.Metrics should be false by default (opt-in)")
	}
	if cfg.Storage.Path == "" {
		t.Error("Storage.Path should default to a data directory")
	}
	if cfg.Economy.SchoolTaskReward != 5 || cfg.Economy.HomeTaskReward != 5 {
		t.Errorf("task rewards = %d/%d, want 5/5",
			cfg.Economy.SchoolTaskReward, cfg.Economy.HomeTaskReward)
	}
	if cfg.Economy.StreakCost != 4 || cfg.Economy.StreakBonus != 20 {
		t.Errorf("streak = cost %d bonus %d, want 4/20",
			cfg.Economy.StreakCost, cfg.Economy.StreakBonus)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 8420 {
		t.Errorf("API.Port = %d, want default 8420", cfg.API.Port)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[api]
host = "0.0.0.0"
port = 9000
metrics = true

[economy]
streak_bonus = 50
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Host != "0.0.0.0" || cfg.API.Port != 9000 || !cfg.API.Metrics {
		t.Errorf("api section not applied: %+v", cfg.API)
	}
	if cfg.Economy.StreakBonus != 50 {
		t.Errorf("Economy.StreakBonus = %d, want 50", cfg.Economy.StreakBonus)
	}
	// Untouched keys keep their defaults.
	if cfg.Economy.StreakCost != 4 {
		t.Errorf("Economy.StreakCost = %d, want default 4", cfg.Economy.StreakCost)
	}
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[api]
port = -1
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("negative port accepted")
	}
}

func TestAddr(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Addr(); got != "127.0.0.1:8420" {
		t.Errorf("Addr() = %q", got)
	}
}
