// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for dex configuration.
	DefaultConfigDir = ".dex"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "dex.db"
)

// Config holds static configuration (read-only after init).
type Config struct {
	Data   DataConfig   `yaml:"data,omitempty"`
	Assets AssetsConfig `yaml:"assets,omitempty"`
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Qdrant QdrantConfig `yaml:"qdrant,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// DataConfig locates the source dataset.
type DataConfig struct {
	// Source is a CSV or JSON file, relative to the project root.
	Source string `yaml:"source,omitempty"`
}

// AssetsConfig locates creature artwork.
type AssetsConfig struct {
	Dir         string `yaml:"dir,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite snapshot database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. Empty disables history.
	Path string `yaml:"path,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant stat index.
// An empty Host disables the index; similarity falls back to memory.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Source: "pokemon.csv",
		},
		Assets: AssetsConfig{
			Dir:         "images",
			Placeholder: "placeholder.png",
		},
		SQLite: SQLiteConfig{
			Path: filepath.Join(DefaultConfigDir, DefaultDatabaseFile),
		},
		Qdrant: QdrantConfig{
			Port:       6334,
			Collection: "dex_stats",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the .dex directory in the given path.
// A missing config file yields the defaults.
func Load(basePath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigFilePath(basePath))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DEX_SOURCE"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("DEX_ASSETS_DIR"); v != "" {
		c.Assets.Dir = v
	}
	if v := os.Getenv("DEX_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		if c.Qdrant.APIKey == "" {
			c.Qdrant.APIKey = key
		}
	}
}

// Resolve returns p joined to basePath unless p is absolute or empty.
func Resolve(basePath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}

// ConfigDir returns the path to the .dex config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a dex config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
