// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/render"
	"github.com/jeranaias/copilot-tui/internal/ui/styles"
)

// =============================================================================
// ASK
// =============================================================================

func newAskCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question",
		Long: `Send one question and print the answer with any automation
suggestions.

Examples:
  copilot ask "How to check disk space"
  copilot ask what is chmod
  copilot ask --json "Show running processes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return &UsageError{Message: "question must not be empty"}
			}
			return askAndPrint(cmd, app, query, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full service response as JSON")
	return cmd
}

// newShortcutCmd builds a command that sends a fixed query.
func newShortcutCmd(app *App, use, short, query string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  fmt.Sprintf("%s.\n\nSends the query %q.", short, query),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return askAndPrint(cmd, app, query, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full service response as JSON")
	return cmd
}

// askAndPrint sends query with the stored token and prints the answer.
func askAndPrint(cmd *cobra.Command, app *App, query string, asJSON bool) error {
	token, err := app.token()
	if err != nil {
		return NewCommandError("ask", "no session", err)
	}
	resp, err := app.client.Ask(cmd.Context(), token, query)
	if err != nil {
		return NewCommandError("ask", "query failed", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printAnswer(out, resp, GetTerminalWidth())
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// printAnswer writes the classified answer and its automation suggestions.
func printAnswer(out io.Writer, resp gateway.QueryResponse, width int) {
	theme := styles.NewTheme("auto")
	theme.ColorProfile = GetColorProfile()
	r := render.NewRenderer(theme)

	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("Copilot Response:"))
	fmt.Fprintln(out, RenderSeparator(50))
	if ColorsEnabled() {
		fmt.Fprintln(out, r.Render(render.Classify(resp.Response), width))
	} else {
		fmt.Fprintln(out, render.PlainString(render.Classify(resp.Response)))
	}

	if len(resp.AutomationSuggestions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, TitleStyle.Render("Automation Suggestions:"))
		for _, s := range resp.AutomationSuggestions {
			fmt.Fprintf(out, "  • %s\n", s.Description)
			fmt.Fprintf(out, "    Command: %s\n", CommandStyle.Render(s.Command))
		}
	}
	fmt.Fprintln(out, RenderSeparator(50))
}
