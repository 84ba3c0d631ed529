// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderUser  lipgloss.Style
	BadgeAdmin  lipgloss.Style
	BadgeUser   lipgloss.Style

	// ==========================================================================
	// LOGIN STYLES
	// ==========================================================================

	LoginBox   lipgloss.Style
	LoginTitle lipgloss.Style
	LoginLabel lipgloss.Style
	LoginError lipgloss.Style
	LoginHint  lipgloss.Style
	Button     lipgloss.Style
	ButtonBusy lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	SenderUser lipgloss.Style
	SenderBot  lipgloss.Style
	Timestamp  lipgloss.Style
	Typing     lipgloss.Style

	// ==========================================================================
	// BLOCK STYLES
	// ==========================================================================

	SectionHeader   lipgloss.Style
	ArticleTitle    lipgloss.Style
	ArticleBody     lipgloss.Style
	CommandSyntax   lipgloss.Style
	CommandDesc     lipgloss.Style
	TroubleError    lipgloss.Style
	TroubleSolution lipgloss.Style
	StepMarker      lipgloss.Style
	StepCommand     lipgloss.Style
	InlineBold      lipgloss.Style
	InlineCode      lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	HistoryItem     lipgloss.Style
	HistorySelected lipgloss.Style
	HistoryEmpty    lipgloss.Style
	QuickAction     lipgloss.Style
	QuickKey        lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	StatusBar      lipgloss.Style
	StatusError    lipgloss.Style
	StatusInfo     lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
}

// NewTheme creates a theme for mode "auto", "dark" or "light". Auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderUser = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.BadgeAdmin = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Rose).
		Padding(0, 1)

	t.BadgeUser = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Emerald).
		Padding(0, 1)

	// Login
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 3)

	t.LoginTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.LoginLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LoginError = lipgloss.NewStyle().
		Foreground(Rose)

	t.LoginHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 2)

	t.ButtonBusy = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceCode).
		Padding(0, 2)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.BotBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1)

	t.SenderUser = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.SenderBot = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Typing = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Blocks
	t.SectionHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Indigo)

	t.ArticleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sky)

	t.ArticleBody = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(3)

	t.CommandSyntax = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SurfaceCode).
		Padding(0, 1)

	t.CommandDesc = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.TroubleError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.TroubleSolution = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.StepMarker = lipgloss.NewStyle().
		Foreground(Violet)

	t.StepCommand = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SurfaceCode).
		Padding(0, 1).
		MarginLeft(4)

	t.InlineBold = lipgloss.NewStyle().
		Bold(true)

	t.InlineCode = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SurfaceCode)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginBottom(1)

	t.HistoryItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.HistorySelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo)

	t.HistoryEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.QuickAction = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.QuickKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Input and status
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose)

	t.StatusInfo = lipgloss.NewStyle().
		Foreground(Emerald)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// RoleBadge renders the role pill shown next to the user's name. Admins get
// the red badge, every other role the green one.
func (t *Theme) RoleBadge(role string) string {
	if role == "admin" {
		return t.BadgeAdmin.Render(role)
	}
	return t.BadgeUser.Render(role)
}

// ColorEnabled reports whether the terminal renders any color at all.
func (t *Theme) ColorEnabled() bool {
	return t.ColorProfile != termenv.Ascii
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 70 {
		return LayoutNarrow
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 70 columns, sidebar hidden
	LayoutWide                     // sidebar shown
)

// SidebarWidth is the fixed width of the history/quick action column.
const SidebarWidth = 28
