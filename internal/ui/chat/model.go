// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/copilot-tui/internal/config"
	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/history"
	"github.com/jeranaias/copilot-tui/internal/model"
	"github.com/jeranaias/copilot-tui/internal/render"
	"github.com/jeranaias/copilot-tui/internal/session"
	"github.com/jeranaias/copilot-tui/internal/ui/styles"
	"github.com/jeranaias/copilot-tui/internal/util"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// ViewState is which screen is showing. There are exactly two.
type ViewState int

const (
	StateLoggedOut  ViewState = iota // login form
	StateChatActive                  // transcript, history and input
)

// String returns the state name.
func (s ViewState) String() string {
	if s == StateChatActive {
		return "ChatActive"
	}
	return "LoggedOut"
}

// focus is which chat-view control receives keys.
type focus int

const (
	focusInput focus = iota
	focusHistory
)

// login form fields
const (
	fieldUsername = iota
	fieldPassword
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole client. It owns the session
// token, transcript and history; nothing else mutates them.
type Model struct {
	// State
	state ViewState
	epoch int // bumped on every logout

	// Session
	client *gateway.Client
	store  *session.Store
	token  string
	user   model.User

	// Conversation
	transcript *model.Transcript
	history    *history.Tracker
	renderer   *render.Renderer

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Login form
	username   textinput.Model
	password   textinput.Model
	loginField int
	loginBusy  bool
	loginError string
	verifying  bool

	// Chat view
	viewport      viewport.Model
	input         textinput.Model
	spinner       spinner.Model
	focus         focus
	historyCursor int
	sending       bool
	showHelp      bool

	// Options
	quickActions   []string
	showTimestamps bool
	changes        <-chan session.TokenChange
	copyFn         func(string) error
	exportDir      string

	// Status
	statusMsg string
	statusErr bool

	// Key bindings
	keyMap KeyMap

	// Event table, built once in New.
	events map[Event]Handler
}

// Options configures optional behavior of New.
type Options struct {
	HistorySize    int
	QuickActions   []string
	ShowTimestamps bool

	// TokenChanges delivers session changes made by other processes.
	TokenChanges <-chan session.TokenChange

	// Clipboard overrides the system clipboard writer.
	Clipboard func(string) error

	// ExportDir is where ctrl+s writes the transcript. Empty disables
	// export.
	ExportDir string
}

// New creates the model. If the session store already holds a token the
// model starts verifying it in Init.
func New(client *gateway.Client, theme *styles.Theme, opts Options) Model {
	if opts.HistorySize <= 0 {
		opts.HistorySize = history.DefaultSize
	}
	if opts.QuickActions == nil {
		opts.QuickActions = config.DefaultQuickActions
	}
	if opts.Clipboard == nil {
		opts.Clipboard = copyToClipboard
	}

	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.CharLimit = 128
	username.Width = 30
	username.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.CharLimit = 256
	password.Width = 30
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about Unix commands, system status, KB articles..."
	ti.CharLimit = 4096

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII-compatible animation
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	m := Model{
		state:          StateLoggedOut,
		client:         client,
		store:          client.Store(),
		transcript:     model.NewTranscript(),
		history:        history.New(opts.HistorySize),
		renderer:       render.NewRenderer(theme),
		theme:          theme,
		username:       username,
		password:       password,
		viewport:       vp,
		input:          ti,
		spinner:        sp,
		historyCursor:  -1,
		quickActions:   opts.QuickActions,
		showTimestamps: opts.ShowTimestamps,
		changes:        opts.TokenChanges,
		copyFn:         opts.Clipboard,
		exportDir:      opts.ExportDir,
		keyMap:         DefaultKeyMap(),
	}
	m.events = newEventTable()

	if m.store != nil {
		if _, ok := m.store.Get(); ok {
			m.verifying = true
		}
	}
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts input blinking, the startup verification and the session
// watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.verifying {
		if token, ok := m.store.Get(); ok {
			cmds = append(cmds, verifyCmd(m.client, token, m.epoch))
		}
	}
	cmds = append(cmds, waitForTokenChange(m.changes))
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case LoginResultMsg:
		return m, m.handleLoginResult(msg)

	case VerifyResultMsg:
		return m, m.handleVerifyResult(msg)

	case QueryResultMsg:
		return m, m.handleQueryResult(msg)

	case FeedbackResultMsg:
		if msg.Err != nil {
			m.setStatus("Feedback could not be sent", true)
		} else {
			m.setStatus("Thanks for the feedback", false)
		}
		return m, nil

	case SessionChangedMsg:
		cmd := m.handleSessionChanged(msg)
		return m, tea.Batch(cmd, waitForTokenChange(m.changes))

	case sessionWatchClosedMsg:
		m.changes = nil
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Text, msg.Error)
		return m, nil

	case spinner.TickMsg:
		if m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.updateViewport()
			return m, cmd
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// View renders the current screen.
func (m Model) View() string {
	if m.state == StateLoggedOut {
		return m.renderLogin()
	}
	return m.renderChat()
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}

	// Layout: header + viewport + input + status bar. Conservative
	// estimates; renderChat measures the real heights.
	const (
		headerHeight    = 2
		inputAreaHeight = 3
		statusBarHeight = 1
	)
	vpHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.transcriptWidth()
	m.viewport.Height = vpHeight

	const promptLen = 2 // "> "
	m.input.Width = clamp(m.transcriptWidth()-4-promptLen, 10, 4096)

	m.updateViewport()
	return m, nil
}

// transcriptWidth is the width left for the transcript column.
func (m Model) transcriptWidth() int {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if m.showSidebar() {
		width -= styles.SidebarWidth + 1
	}
	if width < 20 {
		width = 20
	}
	return width
}

// showSidebar reports whether the terminal is wide enough for the sidebar.
func (m Model) showSidebar() bool {
	return m.theme != nil && m.width > 0 && m.theme.GetLayoutMode() == styles.LayoutWide
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}
	m.statusMsg = ""

	if m.state == StateLoggedOut {
		return m.handleLoginKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Login):
		if m.loginField == fieldUsername && m.password.Value() == "" {
			m.focusLoginField(fieldPassword)
			return m, textinput.Blink
		}
		return m, m.Dispatch(Action{Event: EventLogin})
	case key.Matches(msg, m.keyMap.NextField), key.Matches(msg, m.keyMap.PrevField):
		m.focusLoginField(1 - m.loginField)
		return m, textinput.Blink
	}
	return m.updateInputs(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	keyStr := msg.String()
	if i := quickActionIndex(keyStr); i >= 0 {
		return m, m.Dispatch(Action{Event: EventQuickAction, Index: i})
	}

	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keyMap.Logout):
		return m, m.Dispatch(Action{Event: EventLogout})
	case key.Matches(msg, m.keyMap.CopyLast):
		return m, m.Dispatch(Action{Event: EventCopyLast})
	case key.Matches(msg, m.keyMap.Export):
		return m, m.Dispatch(Action{Event: EventExport})
	case key.Matches(msg, m.keyMap.RateHelpful):
		return m, m.Dispatch(Action{Event: EventFeedback, Helpful: true})
	case key.Matches(msg, m.keyMap.RateUnhelpful):
		return m, m.Dispatch(Action{Event: EventFeedback, Helpful: false})
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusHistory {
		return m.handleHistoryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Send):
		return m, m.Dispatch(Action{Event: EventSend})
	case key.Matches(msg, m.keyMap.FocusHistory):
		if m.history.Len() > 0 {
			m.focus = focusHistory
			m.historyCursor = 0
			m.input.Blur()
		}
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.history.Recent())
	switch {
	case key.Matches(msg, m.keyMap.HistoryUp):
		m.historyCursor = clamp(m.historyCursor-1, 0, n-1)
	case key.Matches(msg, m.keyMap.HistoryDown):
		m.historyCursor = clamp(m.historyCursor+1, 0, n-1)
	case msg.Type == tea.KeyEnter:
		return m, m.Dispatch(Action{Event: EventHistorySelect, Index: m.historyCursor})
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.keyMap.FocusHistory):
		m.focusInput()
		return m, textinput.Blink
	}
	return m, nil
}

// updateInputs forwards msg to whichever text input has focus.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateLoggedOut:
		if m.loginBusy {
			return m, nil
		}
		if m.loginField == fieldUsername {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case StateChatActive:
		if m.focus == focusInput {
			m.input, cmd = m.input.Update(msg)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmd = tea.Batch(cmd, vpCmd)
	}
	return m, cmd
}

// =============================================================================
// FOCUS HELPERS
// =============================================================================

func (m *Model) focusLoginField(field int) {
	m.loginField = field
	if field == fieldUsername {
		m.password.Blur()
		m.username.Focus()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
}

func (m *Model) focusInput() {
	m.focus = focusInput
	m.historyCursor = -1
	m.input.Focus()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = util.FirstLine(text)
	m.statusErr = isErr
}

// updateViewport re-renders the transcript and keeps it scrolled to the end.
func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current view state.
func (m *Model) State() ViewState {
	return m.state
}

// User returns the signed-in user.
func (m *Model) User() model.User {
	return m.user
}

// Transcript returns the transcript.
func (m *Model) Transcript() *model.Transcript {
	return m.transcript
}

// History returns the query history.
func (m *Model) History() *history.Tracker {
	return m.history
}

// LoginError returns the inline login error, if any.
func (m *Model) LoginError() string {
	return m.loginError
}

// IsSending reports whether a query is in flight.
func (m *Model) IsSending() bool {
	return m.sending
}

// IsVerifying reports whether the startup profile check is pending.
func (m *Model) IsVerifying() bool {
	return m.verifying
}

// InputValue returns the chat input text.
func (m *Model) InputValue() string {
	return m.input.Value()
}

// SetInputValue replaces the chat input text.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
}

// SetCredentials fills the login form.
func (m *Model) SetCredentials(username, password string) {
	m.username.SetValue(username)
	m.password.SetValue(password)
}

// Status returns the status bar message.
func (m *Model) Status() string {
	return m.statusMsg
}
