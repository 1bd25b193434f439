// Package config loads the check-in client configuration from
// <data dir>/config.json, .env files and CHECKIN_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Environment variables.
const (
	EnvAPIBaseURL   = "CHECKIN_API_BASE_URL"
	EnvStoreBackend = "CHECKIN_STORE_BACKEND"
	EnvDataDir      = "CHECKIN_DATA_DIR"
	EnvLogLevel     = "CHECKIN_LOG_LEVEL"
	EnvDotEnv       = "CHECKIN_DOTENV"
)

// ConfigVersion is written into new config files.
const ConfigVersion = "1"

// FileName is the config file inside the data directory.
const FileName = "config.json"

// Config represents the flat check-in configuration
type Config struct {
	Version         string   `json:"version"`
	APIBaseURL      string   `json:"api_base_url"`
	StoreBackend    string   `json:"store_backend"` // "sqlite" or "file"
	DataDir         string   `json:"data_dir,omitempty"`
	SlotName        string   `json:"slot_name"`
	AutoRefresh     bool     `json:"auto_refresh"`
	RefreshInterval Duration `json:"refresh_interval"`
	InitialDelay    Duration `json:"initial_delay"`
	MinInterval     Duration `json:"min_interval"`
	FetchTimeout    Duration `json:"fetch_timeout"`
	SubmitTimeout   Duration `json:"submit_timeout"`
	LogLevel        string   `json:"log_level"`
}

// Default returns the built-in configuration rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Version:         ConfigVersion,
		APIBaseURL:      "http://localhost:8000",
		StoreBackend:    BackendSQLite,
		DataDir:         dataDir,
		SlotName:        "dailyEntries",
		AutoRefresh:     false,
		RefreshInterval: Duration(30 * time.Second),
		InitialDelay:    Duration(1 * time.Second),
		MinInterval:     Duration(5 * time.Second),
		FetchTimeout:    Duration(4 * time.Second),
		SubmitTimeout:   Duration(30 * time.Second),
		LogLevel:        "warn",
	}
}

// DefaultDataDir returns $CHECKIN_DATA_DIR, or ~/.checkin.
func DefaultDataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".checkin"), nil
}

// Path returns the config file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// LoadConfig reads config.json from dataDir.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dataDir string) (*Config, error) {
	data, err := os.ReadFile(Path(dataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default(dataDir)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, nil
}

// SaveConfig writes config.json to dataDir.
func SaveConfig(dataDir string, cfg *Config) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(Path(dataDir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load resolves the effective configuration: defaults, then config.json when
// present, then environment overrides. The result is validated.
func Load() (*Config, error) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default(dataDir)
	} else if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CHECKIN_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoreBackend)); v != "" {
		c.StoreBackend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_base_url %q: must be an http(s) URL", c.APIBaseURL)
	}

	switch c.StoreBackend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("invalid store_backend %q: must be %q or %q", c.StoreBackend, BackendSQLite, BackendFile)
	}

	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if strings.TrimSpace(c.SlotName) == "" || strings.ContainsAny(c.SlotName, `/\`) {
		return fmt.Errorf("invalid slot_name %q", c.SlotName)
	}

	durations := []struct {
		name string
		d    Duration
	}{
		{"refresh_interval", c.RefreshInterval},
		{"initial_delay", c.InitialDelay},
		{"min_interval", c.MinInterval},
		{"fetch_timeout", c.FetchTimeout},
		{"submit_timeout", c.SubmitTimeout},
	}
	for _, f := range durations {
		if f.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", f.name, f.d)
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	return nil
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}
