// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the copilot client.
//
// # Key Functions
//
// String Utilities:
//   - Ellipsize: keep the first N runes and append "..." when cut
//   - TruncateWidth, PadRight: terminal-cell aware layout helpers
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - EnsureDir, ExpandHome: data directory handling
//
// # Usage
//
//	label := util.Ellipsize(query, 40)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
