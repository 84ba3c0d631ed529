// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/copilot-tui/internal/export"
	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/history"
	"github.com/jeranaias/copilot-tui/internal/model"
)

// chatHistoryFile holds line-editor history inside the data directory.
const chatHistoryFile = "chat_history"

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the part of liner.State the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// ChatCLI provides input history and line editing for the chat REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor whose history lives in dataDir.
func NewChatCLI(dataDir string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dataDir, chatHistoryFile),
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// Prompt reads one line.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	return c.line.Prompt(prompt)
}

// AppendHistory adds a line to the editor history.
func (c *ChatCLI) AppendHistory(item string) {
	c.line.AppendHistory(item)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() error {
	if f, err := os.Create(c.historyFile); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
	return c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Line-mode chat session",
		Long: `Start a line-mode chat session for terminals where the full-screen
UI is unavailable. Type /help for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return NewCommandError("chat", "no session", err)
			}
			user, err := app.client.Verify(cmd.Context(), token)
			if errors.Is(err, gateway.ErrInvalidCredentials) {
				if err := app.store.Clear(); err != nil {
					return fmt.Errorf("failed to clear session: %w", err)
				}
				return NewCommandError("chat", "session is no longer valid", err)
			}
			if err != nil {
				return NewCommandError("chat", "profile check failed", err)
			}

			rl := NewChatCLI(app.cfg.DataDir())
			defer rl.Close()
			return runREPL(cmd, app, token, user, rl)
		},
	}
}

// replSession is the state of one REPL run.
type replSession struct {
	app     *App
	token   string
	out     io.Writer
	history *history.Tracker

	user       model.User
	transcript *model.Transcript
}

// runREPL reads queries until /quit or end of input.
func runREPL(cmd *cobra.Command, app *App, token string, user model.User, rl lineReader) error {
	s := &replSession{
		app:        app,
		token:      token,
		out:        cmd.OutOrStdout(),
		history:    history.New(app.cfg.UI.HistorySize),
		user:       user,
		transcript: model.NewTranscript(),
	}

	fmt.Fprintln(s.out, TitleStyle.Render("ITSD Copilot")+" "+DimStyle.Render("- type /help for commands, /quit to exit"))
	fmt.Fprintln(s.out, DimStyle.Render("Signed in as "+user.DisplayName()))

	for {
		line, err := rl.Prompt("copilot> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			quit, err := s.command(cmd, line)
			if err != nil {
				PrintError(s.out, err)
			}
			if quit {
				return nil
			}
			continue
		}

		s.ask(cmd, line)
	}
}

// ask sends one query. Failures print the apology and keep the session.
func (s *replSession) ask(cmd *cobra.Command, query string) {
	s.history.Record(query)
	s.transcript.Append(model.NewUserMessage(query))
	resp, err := s.app.client.Ask(cmd.Context(), s.token, query)
	if err != nil {
		s.transcript.Append(model.NewApologyMessage(query))
		fmt.Fprintln(s.out, ErrorStyle.Render(model.Apology))
		if hint := suggestionFor(err); hint != "" {
			fmt.Fprintln(s.out, WarningStyle.Render("Hint: ")+hint)
		}
		return
	}
	s.transcript.Append(model.NewBotMessage(query, resp.Response))
	printAnswer(s.out, resp, GetTerminalWidth())
}

// command runs a slash command and reports whether to quit.
func (s *replSession) command(cmd *cobra.Command, line string) (bool, error) {
	fields := strings.Fields(line)
	name := fields[0]
	switch name {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		fmt.Fprintln(s.out, renderMarkdown(replHelp))

	case "/history":
		recent := s.history.Recent()
		if len(recent) == 0 {
			fmt.Fprintln(s.out, DimStyle.Render(history.EmptyPlaceholder))
		}
		for i, e := range recent {
			fmt.Fprintf(s.out, "  %d. %s %s\n", i+1, e.Label(), DimStyle.Render(e.Timestamp.Format("15:04")))
		}

	case "/clear":
		s.history.Clear()
		fmt.Fprintln(s.out, DimStyle.Render("History cleared."))

	case "/good", "/bad":
		last := s.transcript.LastAnswer()
		if last == nil {
			return false, &UsageError{Message: "no answer to rate yet"}
		}
		err := s.app.client.SubmitFeedback(cmd.Context(), s.token, gateway.Feedback{
			Query:      last.Query,
			Response:   last.Raw,
			WasHelpful: name == "/good",
		})
		if err != nil {
			return false, NewCommandError("feedback", "could not submit", err)
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Thanks for the feedback."))

	case "/export":
		format := ""
		if len(fields) > 1 {
			format = fields[1]
		}
		path, err := s.export(format)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Saved transcript to ")+path)

	default:
		return false, &UsageError{Message: "unknown command " + name + " (try /help)"}
	}
	return false, nil
}

// export writes the session transcript into the data directory.
func (s *replSession) export(format string) (string, error) {
	opts := export.DefaultOptions(s.app.cfg.DataDir())
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return "", &UsageError{Message: err.Error()}
	}
	conv := export.FromTranscript(s.transcript, s.user, s.app.cfg.Server.BaseURL)
	path, err := export.ExportToFile(conv, exporter, opts)
	if errors.Is(err, export.ErrEmptyConversation) {
		return "", &UsageError{Message: "nothing to export yet"}
	}
	if err != nil {
		return "", NewCommandError("export", "could not save transcript", err)
	}
	return path, nil
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

const replHelp = `## Chat commands

| Command | Action |
|---------|--------|
| ` + "`/help`" + ` | show this help |
| ` + "`/history`" + ` | show recent questions |
| ` + "`/clear`" + ` | clear recent questions |
| ` + "`/good`, `/bad`" + ` | rate the last answer |
| ` + "`/export [json]`" + ` | save the conversation (Markdown by default) |
| ` + "`/quit`" + ` | leave the session |
`

// renderMarkdown renders markdown for the terminal, or returns it as is
// when stdout is not a terminal or rendering fails.
func renderMarkdown(content string) string {
	if !ColorsEnabled() {
		return content
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
