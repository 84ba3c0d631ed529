// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered list of messages shown in the chat view.
// Messages are appended, never edited; the only individual removal is the
// typing placeholder.
type Transcript struct {
	messages []*Message
}

// NewTranscript creates a transcript holding just the welcome message.
func NewTranscript() *Transcript {
	t := &Transcript{}
	t.Reset()
	return t
}

// Append adds msg to the end.
func (t *Transcript) Append(msg *Message) {
	t.messages = append(t.messages, msg)
}

// Remove deletes the message with id. It reports whether one was found.
func (t *Transcript) Remove(id string) bool {
	for i, msg := range t.messages {
		if msg.ID == id {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveTyping deletes every typing placeholder.
func (t *Transcript) RemoveTyping() {
	kept := t.messages[:0]
	for _, msg := range t.messages {
		if !msg.Typing {
			kept = append(kept, msg)
		}
	}
	for i := len(kept); i < len(t.messages); i++ {
		t.messages[i] = nil
	}
	t.messages = kept
}

// Reset drops every message and restores the welcome message.
func (t *Transcript) Reset() {
	t.messages = []*Message{NewWelcomeMessage()}
}

// Messages returns the messages in order. The slice must not be modified.
func (t *Transcript) Messages() []*Message {
	return t.messages
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the final message, or nil.
func (t *Transcript) Last() *Message {
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// LastAnswer returns the most recent real service answer, or nil.
func (t *Transcript) LastAnswer() *Message {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].IsAnswer() {
			return t.messages[i]
		}
	}
	return nil
}

// HasTyping reports whether a typing placeholder is present.
func (t *Transcript) HasTyping() bool {
	for _, msg := range t.messages {
		if msg.Typing {
			return true
		}
	}
	return false
}
