// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/copilot-tui/internal/export"
	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/model"
)

// =============================================================================
// EVENT TABLE
// =============================================================================

// Event names a user-level action.
type Event string

const (
	EventLogin         Event = "login"
	EventSend          Event = "send"
	EventLogout        Event = "logout"
	EventVerify        Event = "verify"
	EventQuickAction   Event = "quick-action"
	EventHistorySelect Event = "history-select"
	EventCopyLast      Event = "copy-last"
	EventFeedback      Event = "feedback"
	EventExport        Event = "export"
)

// Action is one dispatched event with its arguments.
type Action struct {
	Event Event

	// Text overrides the chat input for EventSend.
	Text string

	// Index selects the quick action or history entry.
	Index int

	// Helpful is the rating for EventFeedback.
	Helpful bool
}

// Handler performs an action on the model and returns any I/O to run.
type Handler func(m *Model, a Action) tea.Cmd

// newEventTable maps every event to its handler.
func newEventTable() map[Event]Handler {
	return map[Event]Handler{
		EventLogin:         (*Model).login,
		EventSend:          (*Model).send,
		EventLogout:        (*Model).logout,
		EventVerify:        (*Model).verify,
		EventQuickAction:   (*Model).quickAction,
		EventHistorySelect: (*Model).selectHistory,
		EventCopyLast:      (*Model).copyLast,
		EventFeedback:      (*Model).feedback,
		EventExport:        (*Model).exportTranscript,
	}
}

// Dispatch runs the handler for a.Event. Unknown events are ignored.
func (m *Model) Dispatch(a Action) tea.Cmd {
	h, ok := m.events[a.Event]
	if !ok {
		log.Printf("UI_UNKNOWN_EVENT | event=%s", a.Event)
		return nil
	}
	return h(m, a)
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// login submits the form. The action is disabled while a login is in
// flight.
func (m *Model) login(Action) tea.Cmd {
	if m.state != StateLoggedOut || m.loginBusy {
		return nil
	}
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.loginError = "Please enter both username and password."
		return nil
	}

	m.loginBusy = true
	m.loginError = ""
	return loginCmd(m.client, username, password)
}

func (m *Model) handleLoginResult(msg LoginResultMsg) tea.Cmd {
	m.loginBusy = false
	if m.state != StateLoggedOut {
		return nil
	}
	if msg.Err != nil {
		m.loginError = loginErrorText(msg.Err)
		m.password.SetValue("")
		m.focusLoginField(fieldPassword)
		return nil
	}

	// A startup or watcher check still in flight is for a token the form
	// login just replaced.
	m.epoch++
	m.verifying = false
	m.enterChat(msg.Result.Token, msg.Result.User)
	return nil
}

// verify checks the stored token, if any.
func (m *Model) verify(Action) tea.Cmd {
	if m.store == nil {
		return nil
	}
	token, ok := m.store.Get()
	if !ok {
		return nil
	}
	m.verifying = true
	return verifyCmd(m.client, token, m.epoch)
}

func (m *Model) handleVerifyResult(msg VerifyResultMsg) tea.Cmd {
	if msg.Epoch != m.epoch {
		return nil
	}
	m.verifying = false

	if msg.Err != nil {
		// A token the service no longer accepts is a silent logout. A
		// failure for a token we already replaced is stale.
		if m.token == "" || m.token == msg.Token {
			log.Printf("SESSION_INVALID | error=%v", msg.Err)
			return m.logout(Action{Event: EventLogout})
		}
		return nil
	}
	// The active session only yields to the token the store holds now.
	if m.state == StateChatActive && m.token != msg.Token && !m.isStoredToken(msg.Token) {
		return nil
	}

	if m.state == StateChatActive && msg.User.Username != m.user.Username {
		log.Printf("SESSION_USER_CHANGED | from=%s to=%s", m.user.Username, msg.User.Username)
		m.epoch++
		m.sending = false
		m.transcript.Reset()
		m.history.Clear()
		m.historyCursor = -1
		m.input.Reset()
		m.showHelp = false
	}
	m.enterChat(msg.Token, msg.User)
	return nil
}

func (m *Model) isStoredToken(token string) bool {
	if m.store == nil {
		return false
	}
	stored, ok := m.store.Get()
	return ok && stored == token
}

// logout clears the token and every piece of session state.
func (m *Model) logout(Action) tea.Cmd {
	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			log.Printf("SESSION_CLEAR_FAILED | error=%v", err)
		}
	}
	if m.state == StateChatActive {
		log.Printf("LOGOUT | user=%s", m.user.Username)
	}

	m.epoch++
	m.state = StateLoggedOut
	m.token = ""
	m.user = model.User{}
	m.transcript.Reset()
	m.history.Clear()
	m.sending = false
	m.verifying = false
	m.showHelp = false

	m.input.Reset()
	m.input.Blur()
	m.focus = focusInput
	m.historyCursor = -1

	m.username.Reset()
	m.password.Reset()
	m.loginError = ""
	m.loginBusy = false
	m.focusLoginField(fieldUsername)

	m.statusMsg = ""
	m.updateViewport()
	return nil
}

// enterChat switches to the chat view for user.
func (m *Model) enterChat(token string, user model.User) {
	m.token = token
	m.user = user
	m.state = StateChatActive
	m.loginError = ""
	m.password.Reset()
	m.username.Blur()
	m.password.Blur()
	m.focusInput()
	m.updateViewport()
	log.Printf("SESSION_ACTIVE | user=%s role=%s", user.Username, user.EffectiveRole())
}

// handleSessionChanged reacts to another process logging in or out.
func (m *Model) handleSessionChanged(msg SessionChangedMsg) tea.Cmd {
	change := msg.Change
	if !change.Present {
		if m.state == StateChatActive {
			log.Printf("SESSION_CLEARED_EXTERNALLY | user=%s", m.user.Username)
			return m.logout(Action{Event: EventLogout})
		}
		return nil
	}
	if change.Token == m.token {
		return nil
	}
	return m.verify(Action{Event: EventVerify})
}

// =============================================================================
// QUERY HANDLERS
// =============================================================================

// send posts the input text (or a.Text) as a query. Only one query may be
// in flight at a time.
func (m *Model) send(a Action) tea.Cmd {
	if m.state != StateChatActive || m.sending {
		return nil
	}
	text := a.Text
	if text == "" {
		text = m.input.Value()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	m.transcript.Append(model.NewUserMessage(text))
	m.input.Reset()
	m.history.Record(text)

	typing := model.NewTypingMessage()
	m.transcript.Append(typing)
	m.sending = true
	m.updateViewport()

	return tea.Batch(
		askCmd(m.client, m.token, text, typing.ID, m.epoch),
		m.spinner.Tick,
	)
}

func (m *Model) handleQueryResult(msg QueryResultMsg) tea.Cmd {
	if msg.Epoch != m.epoch {
		return nil
	}
	m.transcript.Remove(msg.TypingID)
	m.transcript.RemoveTyping()
	m.sending = false

	if msg.Err != nil {
		log.Printf("QUERY_FAILED | query=%q error=%v", msg.Query, msg.Err)
		m.transcript.Append(model.NewApologyMessage(msg.Query))
	} else {
		m.transcript.Append(model.NewBotMessage(msg.Query, msg.Response.Response))
	}
	m.updateViewport()
	return nil
}

// quickAction sends one of the predefined queries.
func (m *Model) quickAction(a Action) tea.Cmd {
	if a.Index < 0 || a.Index >= len(m.quickActions) {
		return nil
	}
	return m.send(Action{Event: EventSend, Text: m.quickActions[a.Index]})
}

// selectHistory fills the input with a recent query's full text.
func (m *Model) selectHistory(a Action) tea.Cmd {
	recent := m.history.Recent()
	if a.Index < 0 || a.Index >= len(recent) {
		return nil
	}
	m.input.SetValue(recent[a.Index].Query)
	m.input.CursorEnd()
	m.focusInput()
	return nil
}

// copyLast copies the most recent answer.
func (m *Model) copyLast(Action) tea.Cmd {
	last := m.transcript.LastAnswer()
	if last == nil {
		m.setStatus("No answer to copy", true)
		return nil
	}
	return copyCmd(m.copyFn, last.PlainText())
}

// feedback rates the most recent answer.
func (m *Model) feedback(a Action) tea.Cmd {
	if m.state != StateChatActive {
		return nil
	}
	last := m.transcript.LastAnswer()
	if last == nil {
		m.setStatus("No answer to rate", true)
		return nil
	}
	m.setStatus("Sending feedback...", false)
	return feedbackCmd(m.client, m.token, gateway.Feedback{
		Query:      last.Query,
		Response:   last.Raw,
		WasHelpful: a.Helpful,
	})
}

// exportTranscript saves the conversation as Markdown.
func (m *Model) exportTranscript(Action) tea.Cmd {
	if m.state != StateChatActive {
		return nil
	}
	if m.exportDir == "" {
		m.setStatus("Export is not configured", true)
		return nil
	}
	conv := export.FromTranscript(m.transcript, m.user, m.client.BaseURL())
	if !conv.HasExchanges() {
		m.setStatus("Nothing to export yet", true)
		return nil
	}
	opts := &export.Options{OutputDir: m.exportDir, IncludeTimestamps: true}
	return exportCmd(conv, opts)
}
