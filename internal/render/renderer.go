// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/copilot-tui/internal/ui/styles"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer turns Blocks into styled terminal text.
type Renderer struct {
	theme     *styles.Theme
	highlight bool
	formatter string
}

// NewRenderer creates a renderer for theme. Shell commands are syntax
// highlighted whenever the terminal shows color.
func NewRenderer(theme *styles.Theme) *Renderer {
	formatter := "terminal256"
	if theme.ColorProfile == termenv.TrueColor {
		formatter = "terminal16m"
	}
	return &Renderer{
		theme:     theme,
		highlight: theme.ColorEnabled(),
		formatter: formatter,
	}
}

// Render renders blocks top to bottom, wrapping text to width.
func (r *Renderer) Render(blocks []Block, width int) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, r.RenderBlock(b, width))
	}
	return strings.Join(parts, "\n")
}

// RenderBlock renders a single block.
func (r *Renderer) RenderBlock(b Block, width int) string {
	if width < 10 {
		width = 10
	}
	t := r.theme
	wrap := lipgloss.NewStyle().Width(width)

	switch b.Kind {
	case SectionHeader:
		return t.SectionHeader.Width(width).Render(b.Text)

	case ArticleItem:
		var rows []string
		if b.Title != "" {
			rows = append(rows, wrap.Render(t.ArticleTitle.Render("📖 "+b.Title)))
		}
		if b.Body != "" {
			rows = append(rows, t.ArticleBody.Width(width).Render(b.Body))
		}
		return strings.Join(rows, "\n")

	case CommandHelp:
		return r.command(b.Syntax, t.CommandSyntax) + "\n" +
			t.CommandDesc.Width(width).Render(b.Description)

	case TroubleshootingItem:
		return wrap.Render(t.TroubleError.Render("⚠ "+b.Error)) + "\n" +
			t.TroubleSolution.Width(width).Render(b.Solution)

	case StepItem:
		marker := t.StepMarker.Render("• ")
		rows := []string{lipgloss.NewStyle().Width(width).Render(marker + r.RenderSpans(b.Spans))}
		for _, c := range b.Commands {
			rows = append(rows, r.command(c, t.StepCommand))
		}
		return strings.Join(rows, "\n")

	default:
		return wrap.Render(r.RenderSpans(b.Spans))
	}
}

// RenderSpans applies inline bold and code styling.
func (r *Renderer) RenderSpans(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		style := lipgloss.NewStyle()
		if s.Code {
			style = r.theme.InlineCode
		}
		if s.Bold {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(s.Text))
	}
	return sb.String()
}

// command renders a shell command, highlighted when color is on.
func (r *Renderer) command(cmd string, fallback lipgloss.Style) string {
	if r.highlight {
		if out, ok := highlightBash(cmd, r.formatter); ok {
			return "  $ " + out
		}
	}
	return fallback.Render(cmd)
}

// highlightBash applies bash syntax highlighting using chroma.
func highlightBash(code, formatterName string) (string, bool) {
	lexer := lexers.Get("bash")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get(formatterName)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, false
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code, false
	}
	return strings.TrimRight(buf.String(), "\n"), true
}
