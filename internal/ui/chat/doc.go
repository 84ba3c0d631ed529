// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea model for the copilot terminal client.

The model has two view states. StateLoggedOut shows the login form;
StateChatActive shows the transcript, the recent-query sidebar and the
query input. There is no other state: sending a query does not change the
view state, it only adds a typing placeholder until the answer arrives.

# Key Components

## Model (model.go)

Owns the session token, signed-in user, transcript and history. Only
Update mutates them; gateway calls run as tea.Cmds and report back through
the messages in messages.go.

## Events (events.go)

User actions go through an explicit table from Event to Handler, built
once in New:

	login  send  logout  verify  quick-action  history-select
	copy-last  feedback  export

Handlers can be invoked directly with Dispatch, which is how the tests
drive the model without a terminal.

## View Rendering (view.go)

Login box, header with the role badge, classified answer blocks,
sidebar and the glamour-rendered help overlay.

# Usage

	client := gateway.NewClient(cfg.Server.BaseURL, session.NewStore(local))
	m := chat.New(client, styles.NewTheme(cfg.UI.Theme), chat.Options{})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
