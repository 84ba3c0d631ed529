// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/model"
	"github.com/jeranaias/copilot-tui/internal/session"
)

// Messages carry results of gateway calls back into Update. Epoch ties a
// result to the session it was issued in; results from before a logout
// are dropped.

// =============================================================================
// AUTH MESSAGES
// =============================================================================

// LoginResultMsg reports the outcome of a login request.
type LoginResultMsg struct {
	Result gateway.LoginResult
	Err    error
}

// VerifyResultMsg reports the outcome of a profile check.
type VerifyResultMsg struct {
	Token string
	User  model.User
	Err   error
	Epoch int
}

// =============================================================================
// QUERY MESSAGES
// =============================================================================

// QueryResultMsg reports the outcome of a query.
type QueryResultMsg struct {
	Query    string
	TypingID string
	Response gateway.QueryResponse
	Err      error
	Epoch    int
}

// FeedbackResultMsg reports the outcome of a feedback submission.
type FeedbackResultMsg struct {
	WasHelpful bool
	Err        error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionChangedMsg reports a token change made outside this program.
type SessionChangedMsg struct {
	Change session.TokenChange
}

// sessionWatchClosedMsg is sent once the watcher channel closes.
type sessionWatchClosedMsg struct{}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg shows a transient line in the status bar.
type StatusMsg struct {
	Text  string
	Error bool
}
