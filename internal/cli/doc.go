// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the copilot command tree.
//
// Running copilot with no command starts the full-screen chat UI. The
// other commands cover scripting and terminals without a full-screen UI:
//
//   - login, logout, whoami: session management
//   - ask, status, disk: one-shot queries
//   - chat: line-mode REPL
//   - feedback: rate an answer
//   - config show|path|get|set: configuration
//   - version
//
// Commands share one App holding the loaded configuration, the local
// storage database and the gateway client. Errors are returned from RunE;
// Execute prints them with a hint and maps them to exit codes.
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
package cli
