// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/copilot-tui/internal/export"
	"github.com/jeranaias/copilot-tui/internal/session"
	"github.com/jeranaias/copilot-tui/internal/ui/chat"
	"github.com/jeranaias/copilot-tui/internal/ui/styles"
	"github.com/jeranaias/copilot-tui/internal/util"
)

// runTUI starts the full-screen chat UI. Logs go to the log file because
// the terminal belongs to Bubble Tea.
func runTUI(app *App) error {
	if err := RequiresTTY("start the chat UI (try 'copilot chat' or 'copilot ask')"); err != nil {
		return &UsageError{Message: err.Error()}
	}
	if err := util.EnsureDir(app.cfg.DataDir()); err != nil {
		return err
	}
	logFile, err := tea.LogToFile(app.cfg.LogPath(), "copilot")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	if err := app.open(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := session.Watch(ctx, app.cfg.DataDir(), app.store, session.DefaultDebounce)
	if err != nil {
		// The UI works without the watcher; external logouts are just
		// noticed on the next failed request.
		log.Printf("SESSION_WATCH_DISABLED | error=%v", err)
		changes = nil
	}

	m := chat.New(app.client, styles.NewTheme(app.cfg.UI.Theme), chat.Options{
		HistorySize:    app.cfg.UI.HistorySize,
		QuickActions:   app.cfg.UI.QuickActions,
		ShowTimestamps: app.cfg.UI.ShowTimestamps,
		TokenChanges:   changes,
		ExportDir:      export.DefaultOptions(app.cfg.DataDir()).OutputDir,
	})

	log.Printf("TUI_START | base_url=%s data_dir=%s", app.cfg.Server.BaseURL, app.cfg.DataDir())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	log.Printf("TUI_EXIT")
	return nil
}
