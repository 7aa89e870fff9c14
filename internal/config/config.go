package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/listkit/internal/adapter"
	"github.com/pstuifzand/listkit/internal/schedule"
	"github.com/pstuifzand/listkit/internal/selection"
)

// Config holds application configuration
type Config struct {
	Theme    string            `toml:"theme"`
	Settings map[string]string `toml:"settings"`
	List     ListConfig        `toml:"list"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// ListConfig tunes the list pipeline
type ListConfig struct {
	Scheduler             string `toml:"scheduler"` // "debounce" or "throttle"
	DebounceMs            int    `toml:"debounce_ms"`
	ThrottleMs            int    `toml:"throttle_ms"`
	BatchStep             int    `toml:"batch_step"`
	BatchDelayMs          int    `toml:"batch_delay_ms"`
	MaxCount              int    `toml:"max_count"`
	LoadMore              bool   `toml:"load_more"`
	SkipUnchangedDispatch bool   `toml:"skip_unchanged_dispatch"`
	SelectionMode         string `toml:"selection_mode"`
	LogLevel              string `toml:"log_level"`
	StatusTimeFormat      string `toml:"status_time_format"`
}

// Options converts the list settings to adapter options. Logger, executor
// and surface are left for the caller.
func (lc ListConfig) Options() adapter.Options {
	return adapter.Options{
		Mode:                  schedule.ParseMode(lc.Scheduler),
		Delay:                 time.Duration(lc.DebounceMs) * time.Millisecond,
		Interval:              time.Duration(lc.ThrottleMs) * time.Millisecond,
		BatchStep:             lc.BatchStep,
		BatchDelay:            time.Duration(lc.BatchDelayMs) * time.Millisecond,
		MaxCount:              lc.MaxCount,
		LoadMore:              lc.LoadMore,
		SkipUnchangedDispatch: lc.SkipUnchangedDispatch,
		SelectionMode:         selection.ParseMode(lc.SelectionMode),
	}
}

func defaultListConfig() ListConfig {
	return ListConfig{
		Scheduler:             "debounce",
		DebounceMs:            0,
		ThrottleMs:            100,
		BatchDelayMs:          16,
		SkipUnchangedDispatch: true,
		SelectionMode:         "multi",
		LogLevel:              "info",
		StatusTimeFormat:      "%H:%M:%S",
	}
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return Default(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// missing keys keep their defaults
	config := Config{List: defaultListConfig()}
	err = toml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Theme == "" {
		config.Theme = "tokyo-night"
	}
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	config.sessionSettings = make(map[string]string)

	return &config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Theme:           "tokyo-night",
		Settings:        make(map[string]string),
		List:            defaultListConfig(),
		sessionSettings: make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "listkit"), nil
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first
// (which override persisted settings). Returns empty string if not found.
func (c *Config) Get(key string) string {
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session).
// Session settings override persisted settings with the same key.
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to the TOML file.
// Session settings are not written.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration to filePath
func (c *Config) SaveToFile(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
