// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/copilot-tui/internal/render"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// DisplayName returns the header label for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "ITSD Copilot"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Apology is the bot message shown when a query fails for any reason.
const Apology = "Sorry, I encountered an error while processing your request. Please try again."

// WelcomeText is the greeting the transcript starts with.
const WelcomeText = `Hello! I'm your AI-powered IT Service Desk Assistant. I can help you with:
- Unix command syntax and troubleshooting
- System monitoring and status checks
- Ford-specific procedures and KB articles
- Automated task guidance
How can I assist you today?`

// Message is one entry in the transcript. Messages are not edited after
// creation.
type Message struct {
	ID        string
	Sender    Sender
	Timestamp time.Time

	// Raw is the text as typed or as returned by the service.
	Raw string

	// Blocks is Raw classified by the renderer.
	Blocks []render.Block

	// Query is the question a bot answer responds to; empty otherwise.
	Query string

	// Typing marks the transient placeholder shown while a query is
	// in flight.
	Typing bool

	// Failed marks the apology shown in place of an answer.
	Failed bool
}

// NewUserMessage creates a message for text the user sent. The text goes
// through the same classifier as answers; Raw keeps it as typed.
func NewUserMessage(text string) *Message {
	blocks := render.Classify(text)
	if len(blocks) == 0 {
		blocks = []render.Block{{Kind: render.PlainText, Spans: []render.Span{{Text: text}}}}
	}
	return &Message{
		ID:        generateID(),
		Sender:    SenderUser,
		Timestamp: time.Now(),
		Raw:       text,
		Blocks:    blocks,
	}
}

// NewBotMessage classifies a service response into a bot message.
func NewBotMessage(query, response string) *Message {
	return &Message{
		ID:        generateID(),
		Sender:    SenderBot,
		Timestamp: time.Now(),
		Raw:       response,
		Blocks:    render.Classify(response),
		Query:     query,
	}
}

// NewApologyMessage creates the bot message shown when query failed.
func NewApologyMessage(query string) *Message {
	m := NewBotMessage(query, Apology)
	m.Failed = true
	return m
}

// NewTypingMessage creates the placeholder shown while waiting for an answer.
func NewTypingMessage() *Message {
	return &Message{
		ID:        generateID(),
		Sender:    SenderBot,
		Timestamp: time.Now(),
		Typing:    true,
	}
}

// NewWelcomeMessage creates the greeting.
func NewWelcomeMessage() *Message {
	return NewBotMessage("", WelcomeText)
}

// IsAnswer reports whether m is a real service answer that can be copied
// or rated.
func (m *Message) IsAnswer() bool {
	return m.Sender == SenderBot && !m.Typing && !m.Failed && m.Query != ""
}

// PlainText returns the message as unstyled text.
func (m *Message) PlainText() string {
	if m.Sender == SenderUser {
		return m.Raw
	}
	return render.PlainString(m.Blocks)
}

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
