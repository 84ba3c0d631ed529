// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "strings"

// =============================================================================
// BLOCK KIND
// =============================================================================

// Kind identifies which variant a Block holds.
type Kind int

const (
	PlainText Kind = iota
	SectionHeader
	ArticleItem
	CommandHelp
	TroubleshootingItem
	StepItem
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case PlainText:
		return "PlainText"
	case SectionHeader:
		return "SectionHeader"
	case ArticleItem:
		return "ArticleItem"
	case CommandHelp:
		return "CommandHelp"
	case TroubleshootingItem:
		return "TroubleshootingItem"
	case StepItem:
		return "StepItem"
	default:
		return "Unknown"
	}
}

// =============================================================================
// SPANS
// =============================================================================

// Span is a run of text with uniform inline formatting.
type Span struct {
	Text string
	Bold bool
	Code bool
}

// Strip concatenates the text of spans, dropping all formatting.
func Strip(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// =============================================================================
// BLOCK
// =============================================================================

// Block is one classified line of a response. Only the fields for its Kind
// are set:
//
//	PlainText            Spans
//	SectionHeader        Text
//	ArticleItem          Title, Body
//	CommandHelp          Syntax, Description
//	TroubleshootingItem  Error, Solution
//	StepItem             Spans (description), Commands
type Block struct {
	Kind Kind

	Spans []Span
	Text  string

	Title string
	Body  string

	Syntax      string
	Description string

	Error    string
	Solution string

	// Commands holds the continuation lines attached to a step, in order.
	Commands []string
}

// Command returns the first attached step command, or "".
func (b Block) Command() string {
	if len(b.Commands) == 0 {
		return ""
	}
	return b.Commands[0]
}

// PlainString returns the block's visible text without styling, one line
// per rendered row. Used for clipboard copies and line-mode output.
func (b Block) PlainString() string {
	switch b.Kind {
	case SectionHeader:
		return b.Text
	case ArticleItem:
		if b.Body == "" {
			return "📖 " + b.Title
		}
		if b.Title == "" {
			return b.Body
		}
		return "📖 " + b.Title + "\n   " + b.Body
	case CommandHelp:
		return b.Syntax + ": " + b.Description
	case TroubleshootingItem:
		return b.Error + ": " + b.Solution
	case StepItem:
		var sb strings.Builder
		sb.WriteString("• ")
		sb.WriteString(Strip(b.Spans))
		for _, c := range b.Commands {
			sb.WriteString("\n    $ ")
			sb.WriteString(c)
		}
		return sb.String()
	default:
		return Strip(b.Spans)
	}
}

// PlainString renders blocks as unstyled text, one block per line.
func PlainString(blocks []Block) string {
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = b.PlainString()
	}
	return strings.Join(lines, "\n")
}
