// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/copilot-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is where the copilot service listens in a stock install.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultHistorySize is the number of recent queries shown in the sidebar.
	DefaultHistorySize = 5

	// MaxHistorySize bounds ui.history_size.
	MaxHistorySize = 50

	// DefaultRequestsPerSecond throttles requests to the service.
	DefaultRequestsPerSecond = 5

	// MaxRequestsPerSecond bounds server.requests_per_second.
	MaxRequestsPerSecond = 100

	// EnvHome overrides the data directory (~/.copilot) used for config,
	// local storage and logs.
	EnvHome = "COPILOT_HOME"

	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

// DefaultQuickActions are the canned queries offered on the chat screen.
var DefaultQuickActions = []string{
	"Check system status",
	"How to check disk space",
	"Show running processes",
	"How to find large files",
}

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete copilot client configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// ServerConfig locates the copilot service.
type ServerConfig struct {
	// BaseURL is prefixed to /auth/login, /auth/profile, /chat/query
	// and /feedback/submit.
	BaseURL string `toml:"base_url" json:"base_url"`

	// RequestsPerSecond caps outgoing requests, with an equal burst.
	RequestsPerSecond int `toml:"requests_per_second" json:"requests_per_second"`
}

// StorageConfig controls where durable client state lives.
type StorageConfig struct {
	// DataDir holds local.db (the session token store) and the chat
	// line-mode history file.
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme          string   `toml:"theme" json:"theme"`
	HistorySize    int      `toml:"history_size" json:"history_size"`
	ShowTimestamps bool     `toml:"show_timestamps" json:"show_timestamps"`
	QuickActions   []string `toml:"quick_actions" json:"quick_actions"`
}

// LogConfig controls where diagnostic logs are written.
type LogConfig struct {
	// File is the TUI log file. Empty means <data_dir>/copilot.log.
	File string `toml:"file" json:"file"`
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".copilot"
	}
	return &Config{
		Server: ServerConfig{
			BaseURL:           DefaultBaseURL,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Storage: StorageConfig{
			DataDir: dir,
		},
		UI: UIConfig{
			Theme:        "auto",
			HistorySize:  DefaultHistorySize,
			QuickActions: append([]string(nil), DefaultQuickActions...),
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns $COPILOT_HOME or ~/.copilot.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return util.ExpandHome(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".copilot"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the effective TUI log file.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return util.ExpandHome(c.Log.File)
	}
	return filepath.Join(c.DataDir(), "copilot.log")
}

// DataDir returns the expanded storage directory.
func (c *Config) DataDir() string {
	return util.ExpandHome(c.Storage.DataDir)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.copilot/config.toml (when present), then .env from the
// working directory, then COPILOT_* environment variables, and validates
// the result.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load with an explicit config file path. A missing file is
// not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv exports the variables in a .env file. Variables already set in
// the process environment win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# copilot client configuration\n")
	buf.WriteString("# Generated by copilot - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field values and returns ValidateErrors when any are bad.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Server.BaseURL == "" {
		errs = append(errs, ValidationError{"server.base_url", "must not be empty"})
	} else if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Host == "" {
		errs = append(errs, ValidationError{"server.base_url", fmt.Sprintf("invalid URL %q", c.Server.BaseURL)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"server.base_url", fmt.Sprintf("scheme must be http or https, got %q", u.Scheme)})
	}

	if c.Server.RequestsPerSecond < 1 || c.Server.RequestsPerSecond > MaxRequestsPerSecond {
		errs = append(errs, ValidationError{"server.requests_per_second", fmt.Sprintf("must be between 1 and %d", MaxRequestsPerSecond)})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("must be auto, dark or light, got %q", c.UI.Theme)})
	}

	if c.UI.HistorySize < 1 || c.UI.HistorySize > MaxHistorySize {
		errs = append(errs, ValidationError{"ui.history_size", fmt.Sprintf("must be between 1 and %d", MaxHistorySize)})
	}

	for i, q := range c.UI.QuickActions {
		if util.IsBlank(q) {
			errs = append(errs, ValidationError{fmt.Sprintf("ui.quick_actions[%d]", i), "must not be blank"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero-valued fields left by a partial config file.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaults.Server.BaseURL
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Server.RequestsPerSecond == 0 {
		c.Server.RequestsPerSecond = defaults.Server.RequestsPerSecond
	}

	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaults.Storage.DataDir
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.HistorySize == 0 {
		c.UI.HistorySize = defaults.UI.HistorySize
	}
	if c.UI.QuickActions == nil {
		c.UI.QuickActions = defaults.UI.QuickActions
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - COPILOT_BASE_URL: overrides server.base_url
//   - COPILOT_DATA_DIR: overrides storage.data_dir
//   - COPILOT_THEME: overrides ui.theme
//   - COPILOT_HISTORY_SIZE: overrides ui.history_size
//   - COPILOT_SHOW_TIMESTAMPS: "1" or "true" enables timestamps
//   - COPILOT_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COPILOT_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("COPILOT_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("COPILOT_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("COPILOT_HISTORY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.UI.HistorySize = n
		}
	}
	if v := os.Getenv("COPILOT_SHOW_TIMESTAMPS"); v != "" {
		c.UI.ShowTimestamps = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("COPILOT_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value using dot notation, e.g. "server.base_url".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value using dot notation. String values are converted to
// the field's type.
func (c *Config) Set(key string, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %w", key, err)
		}
		field.SetBool(b)
	case reflect.Slice:
		var items []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s for %s", field.Kind(), key)
	}
	return nil
}

// lookup walks the struct by matching each dot-separated part against
// the fields' toml tags.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()

	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i], "."))
		}
		found := false
		for j := 0; j < v.NumField(); j++ {
			if v.Type().Field(j).Tag.Get("toml") == part {
				v = v.Field(j)
				found = true
				break
			}
		}
		if !found {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
	}
	if v.Kind() == reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%s is a section, not a value", key)
	}
	return v, nil
}

// AllKeys returns every settable key in dot notation.
func AllKeys() []string {
	return []string{
		"server.base_url",
		"server.requests_per_second",
		"storage.data_dir",
		"ui.theme",
		"ui.history_size",
		"ui.show_timestamps",
		"ui.quick_actions",
		"log.file",
	}
}
