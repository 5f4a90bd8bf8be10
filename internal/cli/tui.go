// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/gaia-tui/internal/config"
	"github.com/jeranaias/gaia-tui/internal/session"
	"github.com/jeranaias/gaia-tui/internal/ui/chat"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// =============================================================================
// TUI COMMAND
// =============================================================================

func newTUICommand(opts *globalOptions) *cobra.Command {
	var rememberKey, noWatch bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runTUI(cmd.Context(), rememberKey, !noWatch)
		},
	}
	cmd.Flags().BoolVar(&rememberKey, "remember-key", false, "save a key entered on the key screen to the config file")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file when it changes")
	return cmd
}

// runTUI runs the Bubble Tea program and, when enabled, the config watcher
// next to it. Quitting the UI stops the watcher.
func (a *app) runTUI(ctx context.Context, rememberKey, watch bool) error {
	store, err := a.openStore(ctx)
	if err != nil {
		// RELIABILITY: a broken history database must not block chatting.
		a.log.Warn("transcript store unavailable", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	newProvider := func(cfg *config.Config, apiKey string) session.Completer {
		return a.newClient(cfg, apiKey)
	}

	sessOpts := session.Options{
		ErrorReply: a.cfg.Chat.ErrorReply,
		Stream:     a.cfg.Provider.Stream,
		Logger:     a.log,
	}
	if store != nil {
		sessOpts.Recorder = store
	}
	var provider session.Completer
	if a.cfg.Provider.APIKey != "" {
		provider = newProvider(a.cfg, a.cfg.Provider.APIKey)
	}
	sess := session.New(a.newConversation(a.cfg.Chat.WelcomeMessage), provider, sessOpts)

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var reloads <-chan config.Reload
	if watch {
		w, err := a.newWatcher()
		if err != nil {
			a.log.Warn("config watcher disabled", "error", err)
		} else {
			reloads = w.Updates()
			g.Go(func() error { return w.Run(ctx) })
		}
	}

	chatOpts := chat.Options{
		Context:     ctx,
		Config:      a.cfg,
		Session:     sess,
		Theme:       styles.NewTheme(styles.PaletteFor(a.cfg.Chat.Tone)),
		Logger:      a.log,
		NewProvider: newProvider,
		Reloads:     reloads,
	}
	if rememberKey {
		chatOpts.SaveKey = a.saveAPIKey
	}

	program := tea.NewProgram(chat.New(chatOpts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})

	a.log.Info("tui started", "conversation", sess.ConversationID(), "config", a.cfgPath)
	return g.Wait()
}

// newWatcher watches the config file, creating its directory if needed so
// a file written later is still picked up.
func (a *app) newWatcher() (*config.Watcher, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfgPath), 0700); err != nil {
		return nil, err
	}
	return config.NewWatcher(a.cfgPath, config.DefaultDebounce)
}
