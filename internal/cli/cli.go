// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jeranaias/copilot-tui/internal/config"
	"github.com/jeranaias/copilot-tui/internal/gateway"
	"github.com/jeranaias/copilot-tui/internal/session"
	"github.com/jeranaias/copilot-tui/internal/storage"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// App holds what every command needs: configuration, local storage and the
// service client. Storage is opened on first use and closed after the
// command finishes.
type App struct {
	cfg *config.Config

	// Flags
	configPath string
	baseURL    string
	verbose    bool

	// httpClient overrides the gateway transport (tests).
	httpClient *http.Client

	local  *storage.Local
	store  *session.Store
	client *gateway.Client
}

// loadConfig reads configuration and applies flag overrides.
func (a *App) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return &ConfigError{Err: err}
	}
	if a.baseURL != "" {
		cfg.Server.BaseURL = a.baseURL
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return &ConfigError{Err: fmt.Errorf("invalid --base-url: %w", err)}
		}
	}
	a.cfg = cfg
	return nil
}

// setupLogging sends log output to stderr with --verbose and discards it
// otherwise.
func (a *App) setupLogging(w io.Writer) {
	if a.verbose {
		log.SetOutput(w)
		return
	}
	log.SetOutput(io.Discard)
}

// open opens local storage and builds the gateway client.
func (a *App) open() error {
	if a.client != nil {
		return nil
	}
	local, err := storage.Open(a.cfg.DataDir())
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	a.local = local
	a.store = session.NewStore(local)
	a.client = gateway.NewClient(a.cfg.Server.BaseURL, a.store).
		WithRateLimit(a.cfg.Server.RequestsPerSecond)
	if a.httpClient != nil {
		a.client.WithHTTPClient(a.httpClient)
	}
	return nil
}

// token returns the stored session token.
func (a *App) token() (string, error) {
	if err := a.open(); err != nil {
		return "", err
	}
	token, ok := a.store.Get()
	if !ok {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// close releases local storage.
func (a *App) close() {
	if a.local != nil {
		a.local.Close()
		a.local = nil
		a.store = nil
		a.client = nil
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the terminal UI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "copilot",
		Short: "ITSD Copilot terminal client",
		Long: `ITSD Copilot - your IT Service Desk assistant in the terminal.

Run without arguments to start the interactive chat UI, or use one of the
commands below for scripting.

Examples:
  copilot                              Start the chat UI
  copilot login -u alice               Sign in (prompts for the password)
  copilot ask "How to find large files"
  copilot status                       Ask for a system status check
  copilot config set server.base_url http://itsd:5000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(); err != nil {
				return err
			}
			app.setupLogging(cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.close()
			return runTUI(app)
		},
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default ~/.copilot/config.toml)")
	root.PersistentFlags().StringVar(&app.baseURL, "base-url", "", "copilot service URL (overrides config)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newAskCmd(app),
		newShortcutCmd(app, "status", "Check system status", "Check system status"),
		newShortcutCmd(app, "disk", "Check disk space", "How to check disk space"),
		newChatCmd(app),
		newFeedbackCmd(app),
		newConfigCmd(app),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		PrintError(os.Stderr, err)
		return ExitCodeFor(err)
	}
	return ExitSuccess
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "copilot %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
			fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
