// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"

	"github.com/jeranaias/copilot-tui/internal/render"
)

// =============================================================================
// USER TESTS
// =============================================================================

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{Username: "jdoe", Name: "Jane Doe"}, "Jane Doe"},
		{User{Username: "jdoe"}, "jdoe"},
		{User{}, "User"},
	}
	for _, tt := range tests {
		if got := tt.user.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestUserRole(t *testing.T) {
	if !RoleAdmin.IsAdmin() {
		t.Error("RoleAdmin.IsAdmin() = false")
	}
	if RoleUser.IsAdmin() || RoleAgent.IsAdmin() {
		t.Error("non-admin role reported as admin")
	}
	if got := (User{}).EffectiveRole(); got != RoleUser {
		t.Errorf("EffectiveRole() = %q, want user", got)
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage_Classified(t *testing.T) {
	m := NewUserMessage("- `chmod`: what does this do")

	if m.Sender != SenderUser {
		t.Errorf("Sender = %q, want user", m.Sender)
	}
	if m.Raw != "- `chmod`: what does this do" {
		t.Errorf("Raw = %q, want the text as typed", m.Raw)
	}
	if len(m.Blocks) != 1 || m.Blocks[0].Kind != render.CommandHelp {
		t.Fatalf("Blocks = %+v, want one CommandHelp", m.Blocks)
	}
	if m.PlainText() != m.Raw {
		t.Errorf("PlainText() = %q, want raw %q", m.PlainText(), m.Raw)
	}
}

func TestNewUserMessage_PlainQuestion(t *testing.T) {
	m := NewUserMessage("how do I check disk space")

	if len(m.Blocks) != 1 || m.Blocks[0].Kind != render.PlainText {
		t.Fatalf("Blocks = %+v, want one PlainText", m.Blocks)
	}
	if got := render.Strip(m.Blocks[0].Spans); got != m.Raw {
		t.Errorf("block text = %q, want raw %q", got, m.Raw)
	}
}

func TestNewBotMessage_Classified(t *testing.T) {
	m := NewBotMessage("what is chmod", "- `chmod`: change file permissions")

	if len(m.Blocks) != 1 || m.Blocks[0].Kind != render.CommandHelp {
		t.Fatalf("Blocks = %+v, want one CommandHelp", m.Blocks)
	}
	if !m.IsAnswer() {
		t.Error("IsAnswer() = false for a service answer")
	}
}

func TestMessage_IDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTypingMessage().ID
		if !strings.HasPrefix(id, "msg_") {
			t.Fatalf("ID %q missing prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestApologyAndWelcome(t *testing.T) {
	a := NewApologyMessage("q")
	if a.IsAnswer() || !a.Failed {
		t.Error("apology should be a failed non-answer")
	}
	if a.PlainText() != Apology {
		t.Errorf("PlainText() = %q, want apology", a.PlainText())
	}

	w := NewWelcomeMessage()
	if w.IsAnswer() {
		t.Error("welcome message reported as an answer")
	}
	if !strings.Contains(w.PlainText(), "How can I assist you today?") {
		t.Errorf("welcome text = %q", w.PlainText())
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_StartsWithWelcome(t *testing.T) {
	tr := NewTranscript()
	if tr.Len() != 1 || tr.Messages()[0].Raw != WelcomeText {
		t.Fatalf("new transcript = %d messages, want the welcome message", tr.Len())
	}
}

func TestTranscript_TypingPlaceholder(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("uptime"))
	typing := NewTypingMessage()
	tr.Append(typing)

	if !tr.HasTyping() {
		t.Fatal("HasTyping() = false")
	}
	tr.RemoveTyping()
	if tr.HasTyping() {
		t.Error("HasTyping() = true after RemoveTyping")
	}
	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr.Len())
	}
	if tr.Remove(typing.ID) {
		t.Error("Remove() found the typing message twice")
	}
}

func TestTranscript_LastAnswer(t *testing.T) {
	tr := NewTranscript()
	if tr.LastAnswer() != nil {
		t.Error("LastAnswer() on fresh transcript should be nil")
	}

	answer := NewBotMessage("q1", "first answer")
	tr.Append(NewUserMessage("q1"))
	tr.Append(answer)
	tr.Append(NewUserMessage("q2"))
	tr.Append(NewApologyMessage("q2"))

	if got := tr.LastAnswer(); got != answer {
		t.Errorf("LastAnswer() = %v, want the first answer", got)
	}
	if got := tr.Last(); !got.Failed {
		t.Error("Last() should be the apology")
	}
}

func TestTranscript_Reset(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("a"))
	tr.Append(NewBotMessage("a", "b"))
	tr.Reset()

	if tr.Len() != 1 || tr.Messages()[0].Raw != WelcomeText {
		t.Errorf("after Reset transcript has %d messages", tr.Len())
	}
}
