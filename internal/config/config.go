package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backend names accepted in configuration.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config defines workspace configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Store: StoreConfig{
			Backend: StoreJSON,
			Path:    "kanban.json",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("KANBAN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if backend := os.Getenv("KANBAN_STORE"); backend != "" {
		cfg.Store.Backend = backend
	}
	if path := os.Getenv("KANBAN_FILE"); path != "" {
		cfg.Store.Path = path
	}
	if level := os.Getenv("KANBAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	switch cfg.Store.Backend {
	case StoreJSON, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level, defaulting
// to info for unknown names.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
