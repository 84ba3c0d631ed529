// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/atotto/clipboard"

	"github.com/jeranaias/copilot-tui/internal/gateway"
)

// =============================================================================
// CLIPBOARD UTILITIES
// =============================================================================

// copyToClipboard copies the given text to the system clipboard.
// Returns an error if the clipboard is not available or the operation fails.
func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// =============================================================================
// ERROR UTILITIES
// =============================================================================

// loginErrorText returns the inline message for a failed login.
func loginErrorText(err error) string {
	var ae *gateway.AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
