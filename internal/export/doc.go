// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript to a file.
//
// # Formats
//
//   - Markdown: readable copy of the conversation, answers kept in their
//     classified structure (headers, command help, steps)
//   - JSON: one object per message for scripting
//
// # Usage
//
//	conv := export.FromTranscript(transcript, user, baseURL)
//	path, err := export.ExportToFile(conv, export.NewMarkdownExporter(opts), opts)
//
// Typing placeholders are never exported. Files are written atomically
// with owner-only permissions since transcripts may contain internal
// procedures.
package export
