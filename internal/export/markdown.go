// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/copilot-tui/internal/model"
	"github.com/jeranaias/copilot-tui/internal/render"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = &Options{}
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a conversation to Markdown.
func (e *MarkdownExporter) Export(conv *Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	var sb strings.Builder
	sb.WriteString("# ITSD Copilot conversation\n\n")
	sb.WriteString(fmt.Sprintf("- **User**: %s (%s)\n", escapeMarkdown(conv.User.DisplayName()), conv.User.EffectiveRole()))
	if conv.Service != "" {
		sb.WriteString(fmt.Sprintf("- **Service**: %s\n", conv.Service))
	}
	sb.WriteString(fmt.Sprintf("- **Exported**: %s\n", conv.ExportedAt.Format(time.RFC3339)))
	sb.WriteString("\n---\n")

	for _, msg := range conv.Messages {
		sb.WriteString("\n### ")
		sb.WriteString(msg.Sender.DisplayName())
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf(" _(%s)_", msg.Timestamp.Format("15:04:05")))
		}
		sb.WriteString("\n\n")

		if msg.Sender == model.SenderUser {
			sb.WriteString(escapeMarkdown(msg.Raw))
			sb.WriteString("\n")
			continue
		}
		for _, b := range msg.Blocks {
			sb.WriteString(blockMarkdown(b))
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// blockMarkdown renders one classified block.
func blockMarkdown(b render.Block) string {
	switch b.Kind {
	case render.SectionHeader:
		return "#### " + escapeMarkdown(b.Text)
	case render.ArticleItem:
		if b.Title == "" {
			return "- " + escapeMarkdown(b.Body)
		}
		if b.Body == "" {
			return "- 📖 **" + escapeMarkdown(b.Title) + "**"
		}
		return "- 📖 **" + escapeMarkdown(b.Title) + "**: " + escapeMarkdown(b.Body)
	case render.CommandHelp:
		return "- " + inlineCode(b.Syntax) + ": " + escapeMarkdown(b.Description)
	case render.TroubleshootingItem:
		return "- **" + escapeMarkdown(b.Error) + "**: " + escapeMarkdown(b.Solution)
	case render.StepItem:
		var sb strings.Builder
		sb.WriteString("- ")
		sb.WriteString(spansMarkdown(b.Spans))
		for _, c := range b.Commands {
			sb.WriteString("\n  - ")
			sb.WriteString(inlineCode(c))
		}
		return sb.String()
	default:
		if len(b.Spans) == 0 {
			return ""
		}
		return spansMarkdown(b.Spans)
	}
}

func spansMarkdown(spans []render.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		switch {
		case s.Code:
			sb.WriteString(inlineCode(s.Text))
		case s.Bold:
			sb.WriteString("**" + escapeMarkdown(s.Text) + "**")
		default:
			sb.WriteString(escapeMarkdown(s.Text))
		}
	}
	return sb.String()
}

// inlineCode wraps s in enough backticks to survive backticks inside it.
func inlineCode(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

// escapeMarkdown escapes characters that would change the meaning of
// plain text.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"<", `\<`,
		">", `\>`,
	)
	return replacer.Replace(s)
}
