// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/copilot-tui/internal/gateway"
)

// =============================================================================
// LOGIN
// =============================================================================

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in to the copilot service. The token is stored in the local
database and shared with the chat UI.

Examples:
  copilot login                    Prompt for username and password
  copilot login -u alice           Prompt for the password only
  copilot login -u alice -p secret Non-interactive (scripts)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			tty := cmd.InOrStdin() == io.Reader(os.Stdin) && IsTTY()

			if username == "" {
				u, err := prompt(in, out, "Username: ")
				if err != nil {
					return err
				}
				username = u
			}
			if password == "" {
				p, err := promptPassword(in, out, "Password: ", tty)
				if err != nil {
					return err
				}
				password = p
			}
			if username == "" || password == "" {
				return &UsageError{Message: "username and password are required"}
			}

			if err := app.open(); err != nil {
				return err
			}
			res, err := app.client.Login(cmd.Context(), username, password)
			if err != nil {
				return NewCommandError("login", "authentication failed", err)
			}

			fmt.Fprintln(out, SuccessStyle.Render("Login successful!")+" "+
				ValueStyle.Render(fmt.Sprintf("Signed in as %s (%s)", res.User.DisplayName(), res.User.EffectiveRole())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

// prompt reads one line from in.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", &UsageError{Message: "no input for " + strings.TrimSuffix(label, ": ")}
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when tty is set, and a
// plain line otherwise.
func promptPassword(in *bufio.Reader, out io.Writer, label string, tty bool) (string, error) {
	if !tty {
		return prompt(in, out, label)
	}
	fmt.Fprint(out, label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// =============================================================================
// LOGOUT
// =============================================================================

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		Long: `Remove the stored session token. A running chat UI notices the
change and returns to the login screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(); err != nil {
				return err
			}
			if err := app.store.Clear(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Logged out."))
			return nil
		},
	}
}

// =============================================================================
// WHOAMI
// =============================================================================

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long: `Verify the stored token with the service and show the profile.
A token the service rejects is removed, as the chat UI does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return NewCommandError("whoami", "no session", err)
			}
			user, err := app.client.Verify(cmd.Context(), token)
			if errors.Is(err, gateway.ErrInvalidCredentials) {
				if err := app.store.Clear(); err != nil {
					return fmt.Errorf("failed to clear session: %w", err)
				}
				return NewCommandError("whoami", "session is no longer valid", err)
			}
			if err != nil {
				return NewCommandError("whoami", "profile check failed", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, RenderLabel("Name")+ValueStyle.Render(user.DisplayName()))
			fmt.Fprintln(out, RenderLabel("Username")+ValueStyle.Render(user.Username))
			fmt.Fprintln(out, RenderLabel("Role")+ValueStyle.Render(user.EffectiveRole().String()))
			if user.Email != "" {
				fmt.Fprintln(out, RenderLabel("Email")+ValueStyle.Render(user.Email))
			}
			fmt.Fprintln(out, RenderLabel("Service")+DimStyle.Render(app.cfg.Server.BaseURL))
			return nil
		},
	}
}
