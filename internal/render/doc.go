// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render classifies copilot responses into typed blocks and draws
// them in the terminal.
//
// The service answers in a loose, markdown-like line format. Each line is
// matched against an ordered rule table, first match wins:
//
//	📖 **Title** body             ArticleItem
//	- `syntax`: description       CommandHelp
//	- **error**: solution         TroubleshootingItem
//	  Command: `cmd`              attaches cmd to the StepItem above
//	**Header**                    SectionHeader
//	- step text                   StepItem
//	anything else                 PlainText (**bold** and `code` spans)
//
// # Key Types
//
//   - Block: one classified line, a tagged variant keyed by Kind
//   - Span: inline text run with bold/code flags
//   - Renderer: lipgloss rendering with chroma-highlighted shell commands
//
// # Usage
//
//	blocks := render.Classify(resp.Response)
//	out := render.NewRenderer(theme).Render(blocks, width)
package render
