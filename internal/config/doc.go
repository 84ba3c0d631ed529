// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the copilot client configuration.
//
// # Key Types
//
//   - Config: server location, storage directory, UI and log settings
//   - ValidationError, ValidateErrors: field-level validation failures
//
// # Configuration Precedence
//
// Later sources win:
//   - Built-in defaults
//   - ~/.copilot/config.toml (or $COPILOT_HOME/config.toml)
//   - .env in the working directory (never overrides the real environment)
//   - Environment variables (COPILOT_*)
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := gateway.NewClient(cfg.Server.BaseURL, store)
package config
