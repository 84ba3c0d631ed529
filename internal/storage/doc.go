// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable local storage for the copilot client.
//
// Local is a small string key/value store backed by SQLite. It plays the
// part a browser's localStorage plays for a web page: state that must
// survive a restart (the session token) lives here.
//
// # Key Types
//
//   - Local: namespaced key/value store in <data_dir>/local.db
//
// # Usage
//
//	local, err := storage.Open(cfg.DataDir())
//	if err != nil {
//	    return err
//	}
//	defer local.Close()
//
//	err = local.Set("authToken", token)
//	token, ok, err := local.Get("authToken")
package storage
