// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/copilot-tui/internal/gateway"
)

func newFeedbackCmd(app *App) *cobra.Command {
	var (
		query     string
		response  string
		helpful   bool
		unhelpful bool
		comment   string
	)

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Rate an answer",
		Long: `Tell the service whether an answer helped.

Examples:
  copilot feedback --query "How to check disk space" --helpful
  copilot feedback --query "what is chmod" --unhelpful --comment "missing examples"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return &UsageError{Message: "--query is required"}
			}
			if helpful == unhelpful {
				return &UsageError{Message: "exactly one of --helpful or --unhelpful is required"}
			}

			token, err := app.token()
			if err != nil {
				return NewCommandError("feedback", "no session", err)
			}
			err = app.client.SubmitFeedback(cmd.Context(), token, gateway.Feedback{
				Query:      query,
				Response:   response,
				WasHelpful: helpful,
				Comment:    comment,
			})
			if err != nil {
				return NewCommandError("feedback", "could not submit", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Feedback submitted successfully"))
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "the question that was asked")
	cmd.Flags().StringVar(&response, "response", "", "the answer being rated")
	cmd.Flags().BoolVar(&helpful, "helpful", false, "the answer helped")
	cmd.Flags().BoolVar(&unhelpful, "unhelpful", false, "the answer did not help")
	cmd.Flags().StringVar(&comment, "comment", "", "free-text comment")
	return cmd
}
