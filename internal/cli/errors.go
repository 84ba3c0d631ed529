// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/copilot-tui/internal/gateway"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates authentication failure or a missing session
	ExitAuthError = 4
	// ExitNetworkError indicates the service could not be reached
	ExitNetworkError = 5
)

// ErrNotLoggedIn is returned by commands that need a stored token.
var ErrNotLoggedIn = errors.New("not logged in")

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError is a CLI command failure with an optional hint for the user.
type CommandError struct {
	Command    string // Command that failed (e.g., "ask", "login")
	Reason     string // Human-readable reason
	Suggestion string // What the user can do about it
	Err        error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Command, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ConfigError wraps configuration load and save failures.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UsageError reports invalid arguments.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, reason string, err error) *CommandError {
	return &CommandError{
		Command:    command,
		Reason:     reason,
		Suggestion: suggestionFor(err),
		Err:        err,
	}
}

// suggestionFor picks a hint for the common gateway failures.
func suggestionFor(err error) string {
	switch {
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, gateway.ErrUnauthenticated):
		return "Run 'copilot login' first."
	case errors.Is(err, gateway.ErrInvalidCredentials):
		return "Check your username and password, or run 'copilot login' again."
	case errors.Is(err, gateway.ErrServiceUnreachable):
		return "Make sure the copilot service is running, or set server.base_url with 'copilot config set'."
	}
	var qe *gateway.QueryError
	if errors.As(err, &qe) && qe.Status == 401 {
		return "Your session may have expired. Run 'copilot login' again."
	}
	return ""
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCodeFor maps an error to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ue *UsageError
	var ce *ConfigError
	switch {
	case errors.As(err, &ue):
		return ExitUsageError
	case errors.As(err, &ce):
		return ExitConfigError
	case errors.Is(err, ErrNotLoggedIn),
		errors.Is(err, gateway.ErrUnauthenticated),
		errors.Is(err, gateway.ErrInvalidCredentials):
		return ExitAuthError
	case errors.Is(err, gateway.ErrServiceUnreachable):
		return ExitNetworkError
	}
	return ExitGeneralError
}

// PrintError writes "Error: ..." and any suggestion to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+err.Error())

	var ce *CommandError
	if errors.As(err, &ce) && ce.Suggestion != "" {
		fmt.Fprintln(w, WarningStyle.Render("Hint: ")+ce.Suggestion)
	}
}
