// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/gateway/gatewaytest"
	"github.com/jeranaias/copilot-tui/internal/model"
	"github.com/jeranaias/copilot-tui/internal/render"
	"github.com/jeranaias/copilot-tui/internal/session"
	"github.com/jeranaias/copilot-tui/internal/storage"
	"github.com/jeranaias/copilot-tui/internal/ui/styles"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type harness struct {
	srv    *gatewaytest.Server
	store  *session.Store
	client *gateway.Client
	copied []string

	exportDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := gatewaytest.New()
	t.Cleanup(srv.Close)
	return newHarnessFor(t, srv.URL, srv)
}

func newHarnessFor(t *testing.T, baseURL string, srv *gatewaytest.Server) *harness {
	t.Helper()
	local, err := storage.Open(storage.InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	store := session.NewStore(local)
	return &harness{
		srv:       srv,
		store:     store,
		client:    gateway.NewClient(baseURL, store),
		exportDir: t.TempDir(),
	}
}

func (h *harness) newModel() Model {
	m := New(h.client, styles.NewTheme("dark"), Options{
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		ExportDir: h.exportDir,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

// loggedIn returns a model signed in as alice.
func (h *harness) loggedIn(t *testing.T) Model {
	t.Helper()
	m := h.newModel()
	m.SetCredentials("alice", "alice123")
	run(&m, m.Dispatch(Action{Event: EventLogin}))
	require.Equal(t, StateChatActive, m.State())
	return m
}

// run executes cmd synchronously and feeds its messages back into the
// model. Commands returned by Update are not followed.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			run(m, c)
		}
	default:
		updated, _ := m.Update(msg)
		*m = updated.(Model)
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()
	require.Equal(t, StateLoggedOut, m.State())

	m.SetCredentials("alice", "alice123")
	run(&m, m.Dispatch(Action{Event: EventLogin}))

	assert.Equal(t, StateChatActive, m.State())
	assert.Equal(t, "Alice Smith", m.User().Name)
	assert.Empty(t, m.LoginError())

	_, ok := h.store.Get()
	assert.True(t, ok, "token should be stored")

	view := m.View()
	assert.Contains(t, view, "Welcome, Alice Smith")
	assert.Contains(t, view, "user")
}

func TestLogin_AdminBadge(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()

	m.SetCredentials("admin", "admin123")
	run(&m, m.Dispatch(Action{Event: EventLogin}))

	require.Equal(t, StateChatActive, m.State())
	assert.True(t, m.User().Role.IsAdmin())
	assert.Contains(t, m.View(), "admin")
}

func TestLogin_InvalidCredentialsShownInline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad creds"}`))
	}))
	defer ts.Close()
	h := newHarnessFor(t, ts.URL, nil)
	m := h.newModel()

	m.SetCredentials("alice", "nope")
	run(&m, m.Dispatch(Action{Event: EventLogin}))

	assert.Equal(t, StateLoggedOut, m.State())
	assert.Equal(t, "bad creds", m.LoginError())
	assert.Contains(t, m.View(), "bad creds")
	_, ok := h.store.Get()
	assert.False(t, ok)
}

func TestLogin_ServiceUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()
	h := newHarnessFor(t, base, nil)
	m := h.newModel()

	m.SetCredentials("alice", "alice123")
	run(&m, m.Dispatch(Action{Event: EventLogin}))

	assert.Equal(t, StateLoggedOut, m.State())
	assert.Contains(t, m.LoginError(), base)
}

func TestLogin_DisabledWhileInFlight(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()
	m.SetCredentials("alice", "alice123")

	first := m.Dispatch(Action{Event: EventLogin})
	require.NotNil(t, first)
	assert.Nil(t, m.Dispatch(Action{Event: EventLogin}), "second login should be ignored")
	assert.Contains(t, m.View(), "Signing in...")

	run(&m, first)
	assert.Equal(t, StateChatActive, m.State())
}

func TestLogin_RequiresBothFields(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()
	m.SetCredentials("alice", "")

	assert.Nil(t, m.Dispatch(Action{Event: EventLogin}))
	assert.NotEmpty(t, m.LoginError())
	assert.Empty(t, h.srv.Queries())
}

// =============================================================================
// STARTUP VERIFY TESTS
// =============================================================================

func TestStartup_VerifyFailureClearsToken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Set("stale-token"))

	m := h.newModel()
	require.True(t, m.IsVerifying())
	run(&m, m.Init())

	assert.Equal(t, StateLoggedOut, m.State())
	assert.False(t, m.IsVerifying())
	_, ok := h.store.Get()
	assert.False(t, ok, "rejected token must be cleared")
}

func TestStartup_VerifySuccess(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Set(h.srv.IssueToken("admin")))

	m := h.newModel()
	run(&m, m.Init())

	assert.Equal(t, StateChatActive, m.State())
	assert.Equal(t, "admin", m.User().Username)
}

func TestStartup_LateVerifyDoesNotReplaceFormLogin(t *testing.T) {
	h := newHarness(t)
	adminToken := h.srv.IssueToken("admin")
	require.NoError(t, h.store.Set(adminToken))

	m := h.newModel()
	require.True(t, m.IsVerifying())
	late := verifyCmd(h.client, adminToken, m.epoch)()

	m.SetCredentials("alice", "alice123")
	run(&m, m.Dispatch(Action{Event: EventLogin}))
	require.Equal(t, StateChatActive, m.State())
	require.Equal(t, "alice", m.User().Username)
	assert.False(t, m.IsVerifying())

	updated, _ := m.Update(late)
	m = updated.(Model)

	stored, ok := h.store.Get()
	require.True(t, ok)
	assert.Equal(t, "alice", m.User().Username)
	assert.Equal(t, stored, m.token)
	assert.NotEqual(t, adminToken, m.token)
}

func TestVerify_IgnoresSuccessForReplacedToken(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)
	adminToken := h.srv.IssueToken("admin")

	// Same epoch, but the store still holds alice's token.
	updated, _ := m.Update(verifyCmd(h.client, adminToken, m.epoch)())
	m = updated.(Model)
	assert.Equal(t, "alice", m.User().Username)
}

func TestStartup_NoTokenStaysLoggedOut(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()
	assert.False(t, m.IsVerifying())

	run(&m, m.Init())
	assert.Equal(t, StateLoggedOut, m.State())
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_CommandHelpAnswer(t *testing.T) {
	h := newHarness(t)
	h.srv.SetAnswer("what is chmod", gatewaytest.Answer{Response: "- `chmod`: change file permissions"})
	m := h.loggedIn(t)

	m.SetInputValue("what is chmod")
	run(&m, m.Dispatch(Action{Event: EventSend}))

	msgs := m.Transcript().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, model.SenderUser, msgs[1].Sender)
	assert.Equal(t, "what is chmod", msgs[1].Raw)

	answer := msgs[2]
	require.Len(t, answer.Blocks, 1)
	assert.Equal(t, render.CommandHelp, answer.Blocks[0].Kind)
	assert.Equal(t, "chmod", answer.Blocks[0].Syntax)
	assert.Equal(t, "change file permissions", answer.Blocks[0].Description)

	assert.Empty(t, m.InputValue())
	assert.Equal(t, 1, m.History().Len())
}

func TestSend_TypingPlaceholderLifecycle(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	m.SetInputValue("uptime?")
	cmd := m.Dispatch(Action{Event: EventSend})
	require.NotNil(t, cmd)

	assert.True(t, m.IsSending())
	assert.True(t, m.Transcript().HasTyping())
	assert.True(t, m.Transcript().Last().Typing)

	run(&m, cmd)
	assert.False(t, m.IsSending())
	assert.False(t, m.Transcript().HasTyping())
	assert.Equal(t, model.SenderBot, m.Transcript().Last().Sender)
}

func TestSend_DisabledWhileInFlight(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	m.SetInputValue("first")
	cmd := m.Dispatch(Action{Event: EventSend})
	require.NotNil(t, cmd)

	m.SetInputValue("second")
	assert.Nil(t, m.Dispatch(Action{Event: EventSend}))
	assert.Equal(t, "second", m.InputValue(), "blocked send keeps the input")

	run(&m, cmd)
	assert.Equal(t, []string{"first"}, h.srv.Queries())
}

func TestSend_ErrorAppendsApologyAndRecordsHistory(t *testing.T) {
	h := newHarness(t)
	h.srv.FailQueries(http.StatusInternalServerError)
	m := h.loggedIn(t)

	m.SetInputValue("df -h?")
	run(&m, m.Dispatch(Action{Event: EventSend}))

	last := m.Transcript().Last()
	require.NotNil(t, last)
	assert.True(t, last.Failed)
	assert.Equal(t, model.Apology, last.PlainText())
	assert.False(t, m.Transcript().HasTyping())
	assert.Equal(t, 1, m.History().Len(), "history is recorded regardless of outcome")
}

func TestSend_BlankIgnored(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	m.SetInputValue("   ")
	assert.Nil(t, m.Dispatch(Action{Event: EventSend}))
	assert.Equal(t, 1, m.Transcript().Len())
	assert.Equal(t, 0, m.History().Len())
}

func TestSend_IgnoredWhenLoggedOut(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()

	assert.Nil(t, m.Dispatch(Action{Event: EventSend, Text: "hello"}))
	assert.Empty(t, h.srv.Queries())
}

func TestSend_StaleResultAfterLogoutDropped(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	m.SetInputValue("slow question")
	cmd := m.Dispatch(Action{Event: EventSend})
	m.Dispatch(Action{Event: EventLogout})

	run(&m, cmd)
	assert.Equal(t, 1, m.Transcript().Len(), "only the welcome message remains")
	assert.False(t, m.IsSending())
}

// =============================================================================
// LOGOUT TESTS
// =============================================================================

func TestLogout_ResetsEverything(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	for _, q := range []string{"one", "two", "three"} {
		m.SetInputValue(q)
		run(&m, m.Dispatch(Action{Event: EventSend}))
	}
	m.SetInputValue("draft")
	require.Equal(t, 7, m.Transcript().Len())
	require.Equal(t, 3, m.History().Len())

	m.Dispatch(Action{Event: EventLogout})

	assert.Equal(t, StateLoggedOut, m.State())
	require.Equal(t, 1, m.Transcript().Len())
	assert.Equal(t, model.WelcomeText, m.Transcript().Messages()[0].Raw)
	assert.Equal(t, 0, m.History().Len())
	assert.Empty(t, m.History().Recent())
	assert.Empty(t, m.InputValue())
	assert.Empty(t, m.LoginError())

	_, ok := h.store.Get()
	assert.False(t, ok, "token must be removed")
}

func TestLogout_KeyBinding(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(Model)
	assert.Equal(t, StateLoggedOut, m.State())
}

func TestSessionClearedExternally(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	updated, _ := m.Update(SessionChangedMsg{Change: session.TokenChange{Present: false}})
	m = updated.(Model)
	assert.Equal(t, StateLoggedOut, m.State())
	assert.Equal(t, 1, m.Transcript().Len())
}

func TestSessionSetExternally(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()
	token := h.srv.IssueToken("alice")
	require.NoError(t, h.store.Set(token))

	updated, cmd := m.Update(SessionChangedMsg{Change: session.TokenChange{Token: token, Present: true}})
	m = updated.(Model)
	run(&m, cmd)

	assert.Equal(t, StateChatActive, m.State())
	assert.Equal(t, "alice", m.User().Username)
}

func TestSessionSetExternally_DifferentUserResetsConversation(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)
	m.SetInputValue("what is chmod")
	run(&m, m.Dispatch(Action{Event: EventSend}))
	require.Greater(t, m.Transcript().Len(), 1)
	require.Equal(t, 1, m.History().Len())

	token := h.srv.IssueToken("admin")
	require.NoError(t, h.store.Set(token))
	updated, cmd := m.Update(SessionChangedMsg{Change: session.TokenChange{Token: token, Present: true}})
	m = updated.(Model)
	run(&m, cmd)

	assert.Equal(t, StateChatActive, m.State())
	assert.Equal(t, "admin", m.User().Username)
	assert.Equal(t, token, m.token)
	assert.Equal(t, 1, m.Transcript().Len())
	assert.Equal(t, 0, m.History().Len())
}

func TestSessionSetExternally_SameUserKeepsConversation(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)
	m.SetInputValue("what is chmod")
	run(&m, m.Dispatch(Action{Event: EventSend}))
	before := m.Transcript().Len()

	token := h.srv.IssueToken("alice")
	require.NoError(t, h.store.Set(token))
	updated, cmd := m.Update(SessionChangedMsg{Change: session.TokenChange{Token: token, Present: true}})
	m = updated.(Model)
	run(&m, cmd)

	assert.Equal(t, "alice", m.User().Username)
	assert.Equal(t, token, m.token)
	assert.Equal(t, before, m.Transcript().Len())
	assert.Equal(t, 1, m.History().Len())
}

// =============================================================================
// SIDEBAR ACTION TESTS
// =============================================================================

func TestHistorySelect_FillsFullText(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	long := strings.Repeat("x", 45)
	m.SetInputValue(long)
	run(&m, m.Dispatch(Action{Event: EventSend}))
	m.SetInputValue("short")
	run(&m, m.Dispatch(Action{Event: EventSend}))

	m.Dispatch(Action{Event: EventHistorySelect, Index: 1})
	assert.Equal(t, long, m.InputValue())

	assert.Nil(t, m.Dispatch(Action{Event: EventHistorySelect, Index: 9}))
}

func TestQuickAction_SendsPredefinedQuery(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	run(&m, m.Dispatch(Action{Event: EventQuickAction, Index: 0}))
	assert.Equal(t, []string{"Check system status"}, h.srv.Queries())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	m = updated.(Model)
	run(&m, cmd)
	assert.Equal(t, []string{"Check system status", "How to check disk space"}, h.srv.Queries())
}

func TestCopyLast(t *testing.T) {
	h := newHarness(t)
	h.srv.SetAnswer("ls?", gatewaytest.Answer{Response: "**Listing**\n- `ls -la`: list all files"})
	m := h.loggedIn(t)

	m.Dispatch(Action{Event: EventCopyLast})
	assert.Equal(t, "No answer to copy", m.Status())
	assert.Empty(t, h.copied)

	m.SetInputValue("ls?")
	run(&m, m.Dispatch(Action{Event: EventSend}))
	run(&m, m.Dispatch(Action{Event: EventCopyLast}))

	require.Len(t, h.copied, 1)
	assert.Equal(t, "Listing\nls -la: list all files", h.copied[0])
	assert.Equal(t, "Copied answer to clipboard", m.Status())
}

func TestCopyLast_ClipboardError(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)
	m.copyFn = func(string) error { return errors.New("no clipboard") }

	m.SetInputValue("hi")
	run(&m, m.Dispatch(Action{Event: EventSend}))
	run(&m, m.Dispatch(Action{Event: EventCopyLast}))

	assert.Contains(t, m.Status(), "no clipboard")
}

func TestFeedback(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	m.Dispatch(Action{Event: EventFeedback, Helpful: true})
	assert.Equal(t, "No answer to rate", m.Status())

	m.SetInputValue("uptime?")
	run(&m, m.Dispatch(Action{Event: EventSend}))
	run(&m, m.Dispatch(Action{Event: EventFeedback, Helpful: true}))

	fb := h.srv.Feedback()
	require.Len(t, fb, 1)
	assert.Equal(t, "uptime?", fb[0]["query"])
	assert.Equal(t, true, fb[0]["was_helpful"])
	assert.Equal(t, "Thanks for the feedback", m.Status())
}

func TestExportTranscript(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	run(&m, m.Dispatch(Action{Event: EventExport}))
	assert.Equal(t, "Nothing to export yet", m.Status())

	m.SetInputValue("uptime?")
	run(&m, m.Dispatch(Action{Event: EventSend}))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)
	run(&m, cmd)

	require.True(t, strings.HasPrefix(m.Status(), "Saved transcript to "), m.Status())
	path := strings.TrimPrefix(m.Status(), "Saved transcript to ")
	assert.Equal(t, h.exportDir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "uptime?")
	assert.Contains(t, string(data), "Alice Smith")
}

func TestExportTranscript_LoggedOut(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()
	assert.Nil(t, m.Dispatch(Action{Event: EventExport}))
}

func TestDispatch_UnknownEvent(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()
	assert.Nil(t, m.Dispatch(Action{Event: "nope"}))
}

func TestEventTable_Complete(t *testing.T) {
	table := newEventTable()
	for _, ev := range []Event{
		EventLogin, EventSend, EventLogout, EventVerify,
		EventQuickAction, EventHistorySelect, EventCopyLast, EventFeedback,
		EventExport,
	} {
		if _, ok := table[ev]; !ok {
			t.Errorf("event table missing %q", ev)
		}
	}
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestView_LoginForm(t *testing.T) {
	h := newHarness(t)
	m := h.newModel()

	view := m.View()
	assert.Contains(t, view, Title)
	assert.Contains(t, view, "Username")
	assert.Contains(t, view, "Password")
}

func TestView_ChatShowsSidebar(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	view := m.View()
	assert.Contains(t, view, "Recent Queries")
	assert.Contains(t, view, "No conversations yet")
	assert.Contains(t, view, "Quick Actions")
}

func TestView_NarrowHidesSidebar(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = updated.(Model)
	assert.NotContains(t, m.View(), "Recent Queries")
}

func TestView_UserMessageFormatted(t *testing.T) {
	h := newHarness(t)
	m := h.loggedIn(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = updated.(Model)

	m.SetInputValue("is **this** safe")
	run(&m, m.Dispatch(Action{Event: EventSend}))

	view := m.View()
	assert.Contains(t, view, "this")
	assert.NotContains(t, view, "**this**")
}

func TestViewState_String(t *testing.T) {
	if StateLoggedOut.String() != "LoggedOut" || StateChatActive.String() != "ChatActive" {
		t.Errorf("unexpected state names %q %q", StateLoggedOut, StateChatActive)
	}
}
