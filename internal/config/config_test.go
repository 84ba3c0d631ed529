// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv blanks every COPILOT_* variable the loader reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COPILOT_BASE_URL", "COPILOT_DATA_DIR", "COPILOT_THEME",
		"COPILOT_HISTORY_SIZE", "COPILOT_SHOW_TIMESTAMPS", "COPILOT_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
	t.Setenv(EnvHome, t.TempDir())
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	if cfg.Server.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Server.BaseURL, DefaultBaseURL)
	}
	if cfg.UI.HistorySize != 5 {
		t.Errorf("HistorySize = %d, want 5", cfg.UI.HistorySize)
	}
	if len(cfg.UI.QuickActions) != len(DefaultQuickActions) {
		t.Errorf("QuickActions = %v", cfg.UI.QuickActions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestConfigDir_HonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Server.BaseURL, DefaultBaseURL)
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
base_url = "https://copilot.example.com/"

[ui]
theme = "dark"
history_size = 8
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "https://copilot.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Server.BaseURL)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
	if cfg.UI.HistorySize != 8 {
		t.Errorf("HistorySize = %d, want 8", cfg.UI.HistorySize)
	}
	if len(cfg.UI.QuickActions) == 0 {
		t.Error("QuickActions lost their defaults")
	}
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nbase_uri = \"x\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "server.base_uri") {
		t.Errorf("LoadFromPath error = %v, want unknown key server.base_uri", err)
	}
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COPILOT_BASE_URL", "http://10.0.0.1:5000")
	t.Setenv("COPILOT_THEME", "LIGHT")
	t.Setenv("COPILOT_HISTORY_SIZE", "3")
	t.Setenv("COPILOT_SHOW_TIMESTAMPS", "true")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.1:5000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.UI.Theme)
	}
	if cfg.UI.HistorySize != 3 {
		t.Errorf("HistorySize = %d, want 3", cfg.UI.HistorySize)
	}
	if !cfg.UI.ShowTimestamps {
		t.Error("ShowTimestamps = false, want true")
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	const setKey = "COPILOT_TEST_DOTENV_SET"
	const newKey = "COPILOT_TEST_DOTENV_NEW"
	t.Setenv(setKey, "from-env")
	t.Cleanup(func() { os.Unsetenv(newKey) })

	path := filepath.Join(t.TempDir(), ".env")
	content := setKey + "=from-file\n" + newKey + "=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(setKey); got != "from-env" {
		t.Errorf("%s = %q, want from-env", setKey, got)
	}
	if got := os.Getenv(newKey); got != "from-file" {
		t.Errorf("%s = %q, want from-file", newKey, got)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("LoadDotEnv(missing) = %v, want nil", err)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty url", func(c *Config) { c.Server.BaseURL = "" }, "server.base_url"},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://host" }, "server.base_url"},
		{"no host", func(c *Config) { c.Server.BaseURL = "localhost" }, "server.base_url"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"rate negative", func(c *Config) { c.Server.RequestsPerSecond = -1 }, "server.requests_per_second"},
		{"rate huge", func(c *Config) { c.Server.RequestsPerSecond = 1000 }, "server.requests_per_second"},
		{"history zero", func(c *Config) { c.UI.HistorySize = 0 }, "ui.history_size"},
		{"history huge", func(c *Config) { c.UI.HistorySize = 500 }, "ui.history_size"},
		{"blank quick action", func(c *Config) { c.UI.QuickActions = []string{" "} }, "ui.quick_actions[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() = %v, want ValidateErrors", err)
			}
			if verrs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", verrs[0].Field, tt.field)
			}
		})
	}
}

// =============================================================================
// SAVE / GET / SET
// =============================================================================

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "https://copilot.internal"
	cfg.UI.QuickActions = []string{"Check system status"}

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Server.BaseURL != cfg.Server.BaseURL {
		t.Errorf("BaseURL = %q, want %q", loaded.Server.BaseURL, cfg.Server.BaseURL)
	}
	if len(loaded.UI.QuickActions) != 1 {
		t.Errorf("QuickActions = %v", loaded.UI.QuickActions)
	}
}

func TestGetSet(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	if err := cfg.Set("server.base_url", "http://example:8080"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set("ui.history_size", "7"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set("ui.show_timestamps", "true"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Set("ui.quick_actions", "a, b ,,c"); err != nil {
		t.Fatal(err)
	}

	v, err := cfg.Get("server.base_url")
	if err != nil || v != "http://example:8080" {
		t.Errorf("Get(server.base_url) = %v, %v", v, err)
	}
	if cfg.UI.HistorySize != 7 || !cfg.UI.ShowTimestamps {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if got := strings.Join(cfg.UI.QuickActions, "|"); got != "a|b|c" {
		t.Errorf("QuickActions = %q, want a|b|c", got)
	}

	if err := cfg.Set("ui.history_size", "many"); err == nil {
		t.Error("Set(history_size, many) = nil, want error")
	}
	if _, err := cfg.Get("server.nope"); err == nil {
		t.Error("Get(server.nope) = nil error, want unknown field")
	}
	if _, err := cfg.Get("ui"); err == nil {
		t.Error("Get(ui) = nil error, want section error")
	}
}

func TestAllKeysResolve(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	for _, k := range AllKeys() {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%q) = %v", k, err)
		}
	}
}
