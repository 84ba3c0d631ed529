// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for both views.
type KeyMap struct {
	// Login form
	NextField key.Binding
	PrevField key.Binding
	Login     key.Binding

	// Chat view
	Send          key.Binding
	Logout        key.Binding
	FocusHistory  key.Binding
	HistoryUp     key.Binding
	HistoryDown   key.Binding
	QuickAction   key.Binding
	CopyLast      key.Binding
	Export        key.Binding
	RateHelpful   key.Binding
	RateUnhelpful key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Help          key.Binding

	// Everywhere
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-Tab", "previous field"),
		),
		Login: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "sign in"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "logout"),
		),
		FocusHistory: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "history"),
		),
		HistoryUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous"),
		),
		HistoryDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next"),
		),
		QuickAction: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4"),
			key.WithHelp("M-1..4", "quick action"),
		),
		CopyLast: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy answer"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save transcript"),
		),
		RateHelpful: key.NewBinding(
			key.WithKeys("alt+y"),
			key.WithHelp("M-y", "helpful"),
		),
		RateUnhelpful: key.NewBinding(
			key.WithKeys("alt+n"),
			key.WithHelp("M-n", "not helpful"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.FocusHistory, k.CopyLast, k.Logout, k.Help, k.Quit}
}

// LoginHelp returns the bindings shown under the login form.
func (k KeyMap) LoginHelp() []key.Binding {
	return []key.Binding{k.Login, k.NextField, k.Quit}
}

// FullHelp returns grouped bindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.FocusHistory, k.HistoryUp, k.HistoryDown},
		{k.QuickAction, k.CopyLast, k.RateHelpful, k.RateUnhelpful},
		{k.Export, k.PageUp, k.PageDown, k.Logout, k.Help, k.Quit},
	}
}

// quickActionIndex maps alt+1..alt+4 to 0..3, or -1.
func quickActionIndex(keyStr string) int {
	switch keyStr {
	case "alt+1":
		return 0
	case "alt+2":
		return 1
	case "alt+3":
		return 2
	case "alt+4":
		return 3
	}
	return -1
}
