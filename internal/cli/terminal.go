// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"strconv"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY reports whether stdin is a terminal, i.e. whether the chat UI and
// hidden password input can work.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RequiresTTY returns a *TTYRequiredError when stdin is not a terminal.
func RequiresTTY(operation string) error {
	if IsTTY() {
		return nil
	}
	return &TTYRequiredError{Operation: operation}
}

// TTYRequiredError reports an interactive operation attempted without a
// terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation == "" {
		return "stdin is not a terminal; interactive input not available"
	}
	return "stdin is not a terminal; cannot " + e.Operation
}

// =============================================================================
// OUTPUT WIDTH
// =============================================================================

const (
	// DefaultTerminalWidth is used when stdout is not a terminal and
	// COLUMNS is unset.
	DefaultTerminalWidth = 80

	// MinTerminalWidth keeps answer blocks readable on tiny terminals.
	MinTerminalWidth = 40

	// MaxOutputWidth caps answer wrapping on very wide terminals.
	MaxOutputWidth = 100
)

// GetTerminalWidth returns the width answers are wrapped to: the terminal
// width, else $COLUMNS, else DefaultTerminalWidth, clamped to
// [MinTerminalWidth, MaxOutputWidth].
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = DefaultTerminalWidth
		if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
			width = n
		}
	}
	switch {
	case width < MinTerminalWidth:
		return MinTerminalWidth
	case width > MaxOutputWidth:
		return MaxOutputWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsOnce    sync.Once
	colorsEnabled bool
)

// ColorsEnabled reports whether CLI output is styled. Decided once per
// process: NO_COLOR (https://no-color.org/) and TERM=dumb turn colors off,
// FORCE_COLOR turns them on, otherwise stdout must be a terminal.
func ColorsEnabled() bool {
	colorsOnce.Do(func() {
		colorsEnabled = detectColors(os.Getenv, IsStdoutTTY())
	})
	return colorsEnabled
}

func detectColors(getenv func(string) string, stdoutTTY bool) bool {
	switch {
	case getenv("NO_COLOR") != "":
		return false
	case getenv("FORCE_COLOR") != "":
		return true
	case getenv("TERM") == "dumb":
		return false
	}
	return stdoutTTY
}

// GetColorProfile returns termenv.Ascii when colors are off and the
// detected profile otherwise.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
