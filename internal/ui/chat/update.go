// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/copilot-tui/internal/export"
	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/session"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// Commands run off the event loop and only report back through messages.
// None of them touch the model.

// loginCmd submits credentials.
func loginCmd(client *gateway.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Login(context.Background(), username, password)
		return LoginResultMsg{Result: res, Err: err}
	}
}

// verifyCmd checks a stored token against the profile endpoint.
func verifyCmd(client *gateway.Client, token string, epoch int) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Verify(context.Background(), token)
		return VerifyResultMsg{Token: token, User: user, Err: err, Epoch: epoch}
	}
}

// askCmd sends one query.
func askCmd(client *gateway.Client, token, query, typingID string, epoch int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Ask(context.Background(), token, query)
		return QueryResultMsg{
			Query:    query,
			TypingID: typingID,
			Response: resp,
			Err:      err,
			Epoch:    epoch,
		}
	}
}

// feedbackCmd rates an answer.
func feedbackCmd(client *gateway.Client, token string, fb gateway.Feedback) tea.Cmd {
	return func() tea.Msg {
		err := client.SubmitFeedback(context.Background(), token, fb)
		return FeedbackResultMsg{WasHelpful: fb.WasHelpful, Err: err}
	}
}

// copyCmd writes text to the clipboard.
func copyCmd(copyFn func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			return StatusMsg{Text: "Failed to copy: " + err.Error(), Error: true}
		}
		return StatusMsg{Text: "Copied answer to clipboard"}
	}
}

// exportCmd writes a conversation snapshot to disk.
func exportCmd(conv *export.Conversation, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		path, err := export.ExportToFile(conv, export.NewMarkdownExporter(opts), opts)
		if err != nil {
			log.Printf("EXPORT_FAILED | error=%v", err)
			return StatusMsg{Text: "Export failed: " + err.Error(), Error: true}
		}
		log.Printf("EXPORT_SAVED | path=%s messages=%d", path, len(conv.Messages))
		return StatusMsg{Text: "Saved transcript to " + path}
	}
}

// waitForTokenChange blocks until the session watcher reports a change.
func waitForTokenChange(changes <-chan session.TokenChange) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return sessionWatchClosedMsg{}
		}
		return SessionChangedMsg{Change: change}
	}
}
