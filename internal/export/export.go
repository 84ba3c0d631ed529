// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/copilot-tui/internal/model"
	"github.com/jeranaias/copilot-tui/internal/util"
)

// ExportDirName is the directory under the data dir that exports go to
// when no output directory is given.
const ExportDirName = "exports"

// ErrEmptyConversation is returned when there is nothing but the welcome
// message to export.
var ErrEmptyConversation = errors.New("conversation has no messages to export")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation to one file format.
type Exporter interface {
	// Export returns the encoded conversation.
	Export(conv *Conversation) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is a snapshot of a transcript prepared for export.
type Conversation struct {
	User       model.User
	Service    string
	ExportedAt time.Time
	Messages   []*model.Message
}

// FromTranscript snapshots t, skipping typing placeholders.
func FromTranscript(t *model.Transcript, user model.User, service string) *Conversation {
	conv := &Conversation{
		User:       user,
		Service:    service,
		ExportedAt: time.Now(),
	}
	for _, msg := range t.Messages() {
		if msg.Typing {
			continue
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv
}

// HasExchanges reports whether the user asked anything.
func (c *Conversation) HasExchanges() bool {
	for _, msg := range c.Messages {
		if msg.Sender == model.SenderUser {
			return true
		}
	}
	return false
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written.
	OutputDir string

	// IncludeTimestamps adds per-message times to Markdown output.
	IncludeTimestamps bool
}

// DefaultOptions exports into <dataDir>/exports with timestamps.
func DefaultOptions(dataDir string) *Options {
	return &Options{
		OutputDir:         filepath.Join(dataDir, ExportDirName),
		IncludeTimestamps: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile encodes conv with exporter and writes it to a new file in
// opts.OutputDir. Returns the path written.
func ExportToFile(conv *Conversation, exporter Exporter, opts *Options) (string, error) {
	if conv == nil || !conv.HasExchanges() {
		return "", ErrEmptyConversation
	}
	if opts == nil || opts.OutputDir == "" {
		return "", errors.New("export: no output directory")
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("copilot_%s_%s%s",
		sanitizeFilename(conv.User.Username),
		conv.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)
	path := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(path, content, 0600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// ForFormat returns the exporter for "markdown" (or "md") and "json".
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	}
	return nil, fmt.Errorf("unknown export format %q (use markdown or json)", format)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

const maxFilenameRunes = 32

// sanitizeFilename keeps letters, digits, dot, dash and underscore.
func sanitizeFilename(s string) string {
	runes := []rune(s)
	if len(runes) > maxFilenameRunes {
		runes = runes[:maxFilenameRunes]
	}
	var b strings.Builder
	for _, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
