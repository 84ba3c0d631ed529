// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway is the HTTP client for the copilot service.
//
// It covers the three service surfaces the terminal client uses:
// authentication (login and profile verification), queries, and answer
// feedback. Every call is a single request with no retry and no client
// timeout; cancellation goes through the context.
//
// # Key Types
//
//   - Client: service client bound to a base URL and a session store
//   - LoginResult: token and user from a successful login
//   - QueryResponse: the answer text plus intent, entities and suggestions
//   - AuthError, QueryError: typed failures, matched with errors.Is
//
// # Usage
//
//	client := gateway.NewClient(cfg.Server.BaseURL, store)
//	res, err := client.Login(ctx, "alice", "secret")
//	if errors.Is(err, gateway.ErrInvalidCredentials) {
//	    fmt.Println(err) // user-facing message
//	}
//	answer, err := client.Ask(ctx, res.Token, "How to check disk space")
package gateway
