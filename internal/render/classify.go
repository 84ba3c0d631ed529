// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"
	"strings"
)

// =============================================================================
// PATTERNS
// =============================================================================

const articleGlyph = "📖"

var (
	articlePattern         = regexp.MustCompile(`📖 \*\*(.*?)\*\*`)
	commandHelpPattern     = regexp.MustCompile("- `(.*?)`:(.*)")
	troubleshootingPattern = regexp.MustCompile(`- \*\*(.*?)\*\*:(.*)`)
	stepCommandPattern     = regexp.MustCompile("Command: `(.*?)`")
	boldPattern            = regexp.MustCompile(`\*\*(.*?)\*\*`)
	codePattern            = regexp.MustCompile("`(.*?)`")
)

// =============================================================================
// RULE TABLE
// =============================================================================

// rule classifies one line. apply receives the blocks produced so far for
// the same response and returns the updated slice.
type rule struct {
	name  string
	match func(line string) bool
	apply func(line string, blocks []Block) []Block
}

// rules are evaluated top to bottom; the first match wins. The order is
// part of the contract: a line such as "- **x**: y" must never reach the
// step rule.
var rules = []rule{
	{
		name: "article",
		match: func(line string) bool {
			return strings.Contains(line, articleGlyph+" **") && strings.Contains(line, "**")
		},
		apply: applyArticle,
	},
	{
		name: "command-help",
		match: func(line string) bool {
			return strings.HasPrefix(line, "- `") && strings.Contains(line, "`:")
		},
		apply: applyCommandHelp,
	},
	{
		name: "troubleshooting",
		match: func(line string) bool {
			return strings.HasPrefix(line, "- **") && strings.Contains(line, "**:")
		},
		apply: applyTroubleshooting,
	},
	{
		name: "step-command",
		match: func(line string) bool {
			return strings.HasPrefix(line, "  Command: `")
		},
		apply: applyStepCommand,
	},
	{
		name: "section-header",
		match: func(line string) bool {
			return strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") &&
				!strings.Contains(line, articleGlyph)
		},
		apply: applySectionHeader,
	},
	{
		name:  "text",
		match: func(string) bool { return true },
		apply: applyText,
	},
}

// =============================================================================
// CLASSIFY
// =============================================================================

// Classify splits a response into lines and turns each non-blank line into
// at most one Block. Every non-blank line yields exactly one Block except a
// "  Command: `...`" continuation, which attaches to the preceding StepItem
// and yields nothing (and is dropped when there is no such step).
func Classify(text string) []Block {
	var blocks []Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		blocks = classifyLine(line, blocks)
	}
	return blocks
}

func classifyLine(line string, blocks []Block) []Block {
	for _, r := range rules {
		if r.match(line) {
			return r.apply(line, blocks)
		}
	}
	return blocks
}

// RuleName returns the name of the rule that claims line.
func RuleName(line string) string {
	for _, r := range rules {
		if r.match(line) {
			return r.name
		}
	}
	return ""
}

// =============================================================================
// RULE ACTIONS
// =============================================================================

func applyArticle(line string, blocks []Block) []Block {
	b := Block{Kind: ArticleItem}
	if loc := articlePattern.FindStringSubmatchIndex(line); loc != nil {
		b.Title = line[loc[2]:loc[3]]
		b.Body = strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
	} else {
		b.Body = strings.TrimSpace(line)
	}
	return append(blocks, b)
}

func applyCommandHelp(line string, blocks []Block) []Block {
	m := commandHelpPattern.FindStringSubmatch(line)
	if m == nil {
		return applyText(line, blocks)
	}
	return append(blocks, Block{
		Kind:        CommandHelp,
		Syntax:      strings.TrimSpace(m[1]),
		Description: strings.TrimSpace(m[2]),
	})
}

func applyTroubleshooting(line string, blocks []Block) []Block {
	m := troubleshootingPattern.FindStringSubmatch(line)
	if m == nil {
		return applyText(line, blocks)
	}
	return append(blocks, Block{
		Kind:     TroubleshootingItem,
		Error:    strings.TrimSpace(m[1]),
		Solution: strings.TrimSpace(m[2]),
	})
}

// applyStepCommand attaches the command to the step directly above it.
// Anything else (no previous step, unterminated backtick) is a silent no-op.
func applyStepCommand(line string, blocks []Block) []Block {
	if len(blocks) == 0 || blocks[len(blocks)-1].Kind != StepItem {
		return blocks
	}
	m := stepCommandPattern.FindStringSubmatch(line)
	if m == nil {
		return blocks
	}
	last := &blocks[len(blocks)-1]
	last.Commands = append(last.Commands, m[1])
	return blocks
}

func applySectionHeader(line string, blocks []Block) []Block {
	return append(blocks, Block{
		Kind: SectionHeader,
		Text: strings.ReplaceAll(line, "**", ""),
	})
}

// applyText handles dash items as steps and everything else as a paragraph.
func applyText(line string, blocks []Block) []Block {
	if strings.HasPrefix(line, "- ") && !strings.HasPrefix(line, "- **") && !strings.HasPrefix(line, "- `") {
		return append(blocks, Block{
			Kind:  StepItem,
			Spans: parseInline(strings.TrimPrefix(line, "- ")),
		})
	}
	return append(blocks, Block{
		Kind:  PlainText,
		Spans: parseInline(line),
	})
}

// =============================================================================
// INLINE FORMATTING
// =============================================================================

// parseInline turns **bold** and `code` markers into spans. Bold is
// resolved first; code spans are then found inside each bold or plain run.
func parseInline(s string) []Span {
	var spans []Span
	last := 0
	for _, loc := range boldPattern.FindAllStringSubmatchIndex(s, -1) {
		spans = appendCodeSpans(spans, s[last:loc[0]], false)
		spans = appendCodeSpans(spans, s[loc[2]:loc[3]], true)
		last = loc[1]
	}
	return appendCodeSpans(spans, s[last:], false)
}

func appendCodeSpans(spans []Span, s string, bold bool) []Span {
	last := 0
	for _, loc := range codePattern.FindAllStringSubmatchIndex(s, -1) {
		spans = appendSpan(spans, Span{Text: s[last:loc[0]], Bold: bold})
		spans = appendSpan(spans, Span{Text: s[loc[2]:loc[3]], Bold: bold, Code: true})
		last = loc[1]
	}
	return appendSpan(spans, Span{Text: s[last:], Bold: bold})
}

func appendSpan(spans []Span, s Span) []Span {
	if s.Text == "" {
		return spans
	}
	return append(spans, s)
}
