// Package config loads application settings from the TOML config file and
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage  StorageConfig
	Currency string
}

// StorageConfig selects the persistence slot backend.
type StorageConfig struct {
	Backend string // "file" or "sqlite"
	Path    string
	Slot    string
}

// Load reads configuration from file and env. Env var overrides use prefix
// BUDGETZEN_; the config file lives at ~/.config/budgetzen/config.toml
// unless BUDGETZEN_CONFIG points elsewhere.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "budgetzen", "budgetzen.json"))
	v.SetDefault("storage.slot", "budgetzen_v1")
	v.SetDefault("currency", "EUR")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BUDGETZEN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "budgetzen"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BUDGETZEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Storage.Backend != "file" && c.Storage.Backend != "sqlite" {
		return Config{}, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return c, nil
}
