// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the user's credential token between runs.
//
// # Key Types
//
//   - Store: get, set and clear the token under the "authToken" key
//   - TokenChange: emitted by Watch when another process changes the token
//
// # Usage
//
//	store := session.NewStore(local)
//	if token, ok := store.Get(); ok {
//	    user, err := client.Verify(ctx, token)
//	    ...
//	}
//
// Watch lets a running TUI notice "copilot logout" run from another
// terminal:
//
//	changes, err := session.Watch(ctx, cfg.DataDir(), store, 0)
package session
