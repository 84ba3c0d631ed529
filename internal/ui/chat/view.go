// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/copilot-tui/internal/model"
	"github.com/jeranaias/copilot-tui/internal/ui/styles"
	"github.com/jeranaias/copilot-tui/internal/util"
)

// Title is the product name shown in the header and login box.
const Title = "ITSD Copilot"

// =============================================================================
// LOGIN VIEW
// =============================================================================

// renderLogin renders the centered login form.
func (m Model) renderLogin() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.LoginTitle.Render(Title))
	b.WriteString("\n")
	b.WriteString(t.LoginHint.Render("IT Service Desk Assistant"))
	b.WriteString("\n\n")

	if m.verifying {
		b.WriteString(t.LoginHint.Render("Restoring session..."))
		b.WriteString("\n\n")
	}

	b.WriteString(t.LoginLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(t.LoginLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.loginBusy {
		b.WriteString(t.ButtonBusy.Render("Signing in..."))
	} else {
		b.WriteString(t.Button.Render("Login"))
	}

	if m.loginError != "" {
		b.WriteString("\n\n")
		b.WriteString(t.LoginError.Render(m.loginError))
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderShortcuts(m.keyMap.LoginHelp()))

	box := t.LoginBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// CHAT VIEW
// =============================================================================

// renderChat renders header, transcript, sidebar, input and status bar.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	available := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(status)
	if available < 1 {
		available = 1
	}
	vp := m.viewport
	vp.Height = available

	body := vp.View()
	if m.showSidebar() {
		sidebar := m.renderSidebar(available)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", sidebar)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

// renderHeader shows the title and the signed-in user with a role badge.
func (m Model) renderHeader() string {
	t := m.theme
	title := t.HeaderTitle.Render(Title)

	role := m.user.EffectiveRole().String()
	who := t.HeaderUser.Render("Welcome, "+m.user.DisplayName()) + " " + t.RoleBadge(role)

	gap := m.width - 2 - lipgloss.Width(title) - lipgloss.Width(who)
	if gap < 1 {
		gap = 1
	}
	return t.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + who)
}

// renderMessages renders the transcript for the viewport.
func (m Model) renderMessages() string {
	msgs := m.transcript.Messages()
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage renders one message with its sender line.
func (m Model) renderMessage(msg *model.Message) string {
	t := m.theme
	width := m.transcriptWidth() - 4
	if width < 10 {
		width = 10
	}

	if msg.Typing {
		return t.SenderBot.Render(model.SenderBot.DisplayName()) + "\n" +
			t.Typing.Render(m.spinner.View()+" typing...")
	}

	label := t.SenderBot.Render(msg.Sender.DisplayName())
	bubble := t.BotBubble
	if msg.Sender == model.SenderUser {
		label = t.SenderUser.Render(msg.Sender.DisplayName())
		bubble = t.UserBubble
	}
	if m.showTimestamps {
		label += " " + t.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	return label + "\n" + bubble.Render(m.renderer.Render(msg.Blocks, width))
}

// renderSidebar shows recent queries and quick actions.
func (m Model) renderSidebar(height int) string {
	t := m.theme
	inner := styles.SidebarWidth - 2

	selected := -1
	if m.focus == focusHistory {
		selected = m.historyCursor
	}

	var b strings.Builder
	b.WriteString(t.SidebarTitle.Render("Recent Queries"))
	b.WriteString("\n")
	b.WriteString(m.history.View(t, inner, selected))
	b.WriteString("\n\n")
	b.WriteString(t.SidebarTitle.Render("Quick Actions"))
	for i, qa := range m.quickActions {
		if i >= 4 {
			break
		}
		keyLabel := t.QuickKey.Render(fmt.Sprintf("M-%d", i+1))
		b.WriteString("\n")
		b.WriteString(keyLabel + " " + t.QuickAction.Render(util.TruncateWidth(qa, inner-4)))
	}

	return t.Sidebar.Width(styles.SidebarWidth).Height(height).Render(b.String())
}

// renderInput renders the query input line.
func (m Model) renderInput() string {
	t := m.theme
	view := m.input.View()
	if m.sending {
		view = t.Typing.Render("Waiting for answer...")
	}
	return t.InputContainer.Width(m.transcriptWidth() - 2).Render(view)
}

// renderStatusBar shows the status message or the key hints.
func (m Model) renderStatusBar() string {
	t := m.theme
	content := m.renderShortcuts(m.keyMap.ShortHelp())
	if m.statusMsg != "" {
		if m.statusErr {
			content = t.StatusError.Render(m.statusMsg)
		} else {
			content = t.StatusInfo.Render(m.statusMsg)
		}
	}
	return t.StatusBar.Width(m.width).Render(util.TruncateWidth(content, m.width-2))
}

// renderShortcuts formats bindings as "key desc" pairs.
func (m Model) renderShortcuts(bindings []key.Binding) string {
	t := m.theme
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, t.ShortcutKey.Render(h.Key)+" "+t.ShortcutDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

// helpMarkdown is rendered with glamour for the F1 overlay.
const helpMarkdown = `# ITSD Copilot

Ask about **Unix commands**, **system status**, **KB articles** and
**automated task guidance**. Answers with commands show the command
syntax highlighted.

## Keys

| Key | Action |
|-----|--------|
%s

Press any key to close.
`

// renderHelpOverlay renders the key reference.
func (m Model) renderHelpOverlay() string {
	var rows []string
	for _, group := range m.keyMap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			rows = append(rows, fmt.Sprintf("| `%s` | %s |", h.Key, h.Desc))
		}
	}
	md := fmt.Sprintf(helpMarkdown, strings.Join(rows, "\n"))

	width := clamp(m.width-4, 20, 100)
	style := "dark"
	if m.theme != nil && !m.theme.IsDark {
		style = "light"
	}
	if m.theme != nil && !m.theme.ColorEnabled() {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
