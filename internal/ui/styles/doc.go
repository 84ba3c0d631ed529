// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the copilot TUI.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
//
// # Key Types
//
//   - Theme: every lipgloss style the views use, built once per program
//   - LayoutMode: narrow (no sidebar) or wide
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	header := theme.HeaderUser.Render(name) + " " + theme.RoleBadge(role)
package styles
