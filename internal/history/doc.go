// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history tracks the queries sent during a chat session.
//
// The log keeps every query; the sidebar shows only the five most recent,
// newest first, each label cut to 40 characters. Selecting a label puts the
// full query back into the input.
//
// # Usage
//
//	h := history.New(cfg.UI.HistorySize)
//	h.Record("how do I check disk space")
//	for _, e := range h.Recent() {
//	    fmt.Println(e.Label())
//	}
package history
