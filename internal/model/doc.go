// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shown in the chat view.
//
// # Key Types
//
//   - User: profile returned by the authentication service
//   - UserRole: user, admin or agent
//   - Message: one transcript entry with its classified blocks
//   - Transcript: ordered messages, starting from the welcome message
//
// # Usage
//
//	t := model.NewTranscript()
//	t.Append(model.NewUserMessage("what is chmod"))
//	typing := model.NewTypingMessage()
//	t.Append(typing)
//	...
//	t.RemoveTyping()
//	t.Append(model.NewBotMessage("what is chmod", resp.Response))
package model
