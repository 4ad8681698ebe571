package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// Config holds the application configuration
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Features  FeaturesConfig  `toml:"features"`
}

// StorageConfig holds database-related configuration
type StorageConfig struct {
	Path string `toml:"path"`
	Slot string `toml:"slot"`
}

// LogConfig controls the log file
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// TelemetryConfig selects the telemetry sink
type TelemetryConfig struct {
	Enabled bool   `toml:"enabled"`
	Sink    string `toml:"sink"`
}

// FeaturesConfig holds feature toggles
type FeaturesConfig struct {
	InlineEditing bool `toml:"inline_editing"`
	Seed          bool `toml:"seed"`
}

// Dir returns the directory holding the config file and default data files
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(homeDir, ".config", "taskflow"), nil
}

// Default returns the default configuration
func Default() *Config {
	dir, _ := Dir()
	return &Config{
		Storage: StorageConfig{
			Path: filepath.Join(dir, "taskflow.db"),
			Slot: "taskflow-storage",
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "taskflow.log"),
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
			Sink:    "log",
		},
		Features: FeaturesConfig{
			InlineEditing: true,
			Seed:          true,
		},
	}
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// No config file, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand home directory in paths
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks values the TOML decoder cannot
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Slot) == "" {
		return fmt.Errorf("storage.slot must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Telemetry.Enabled && c.Telemetry.Sink == "" {
		return fmt.Errorf("telemetry.sink must be set when telemetry is enabled")
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return c.SaveTo(filepath.Join(dir, "config.toml"))
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
