// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for shelfchat.
//
// Configuration comes from, in order of precedence:
//   - SHELFCHAT_* environment variables
//   - $XDG_CONFIG_HOME/shelfchat/config.toml
//   - built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shelfchat/shelfchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete shelfchat configuration.
type Config struct {
	// UserID identifies this install to the agent. Generated once and
	// persisted on first run.
	UserID string `toml:"user_id"`

	// Agent holds the connection settings for the recommendation agent.
	Agent AgentConfig `toml:"agent"`

	// Storage holds persistence settings.
	Storage StorageConfig `toml:"storage"`

	// UI holds display settings.
	UI UIConfig `toml:"ui"`
}

// AgentConfig contains the agent endpoint configuration.
type AgentConfig struct {
	// BaseURL is the agent's address, e.g. http://127.0.0.1:8787
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (a AgentConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// DataDir is where the conversation blob lives
	// Default: $XDG_DATA_HOME/shelfchat
	DataDir string `toml:"data_dir"`
}

// UIConfig contains display configuration.
type UIConfig struct {
	// ShowTimestamps renders a timestamp next to each message
	ShowTimestamps bool `toml:"show_timestamps"`
	// CompactSidebar hides message counts in the conversation list
	CompactSidebar bool `toml:"compact_sidebar"`
}

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the shelfchat configuration directory.
func ConfigDir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "shelfchat"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "shelfchat"), nil
}

// ConfigPath returns the configuration file location.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// defaultDataDir returns the default conversation storage directory.
func defaultDataDir() string {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "shelfchat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "shelfchat-data"
	}
	return filepath.Join(home, ".local", "share", "shelfchat")
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			BaseURL:     "http://127.0.0.1:8787",
			TimeoutSecs: 60,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		UI: UIConfig{
			ShowTimestamps: false,
			CompactSidebar: false,
		},
	}
}

// Load reads the config file, applies environment overrides, fills defaults,
// and validates. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies SHELFCHAT_* environment variables over cfg.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SHELFCHAT_AGENT_URL"); v != "" {
		c.Agent.BaseURL = v
	}
	if v := os.Getenv("SHELFCHAT_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Agent.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("SHELFCHAT_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("SHELFCHAT_USER_ID"); v != "" {
		c.UserID = v
	}
}

// SetDefaults fills any zero-valued field that has a sensible default.
func (c *Config) SetDefaults() {
	if c.Agent.BaseURL == "" {
		c.Agent.BaseURL = "http://127.0.0.1:8787"
	}
	if c.Agent.TimeoutSecs <= 0 {
		c.Agent.TimeoutSecs = 60
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir()
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Agent.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{Field: "agent.base_url", Message: fmt.Sprintf("not a valid URL: %q", c.Agent.BaseURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{Field: "agent.base_url", Message: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if c.Agent.TimeoutSecs > 600 {
		return ValidationError{Field: "agent.timeout_secs", Message: "must be at most 600 seconds"}
	}
	return nil
}

// EnsureUserID generates and persists a user ID on first run. Existing IDs
// are left alone.
func (c *Config) EnsureUserID() error {
	if c.UserID != "" {
		return nil
	}
	c.UserID = uuid.NewString()

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(c, path)
}

// SaveTOML writes cfg to path atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# shelfchat configuration\n")
	fmt.Fprintf(&buf, "# generated %s\n\n", time.Now().Format(time.RFC3339))
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
