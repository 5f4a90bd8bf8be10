// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/jeranaias/gaia-tui/internal/export"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/storage"
	"github.com/jeranaias/gaia-tui/internal/ui/components"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
	"github.com/jeranaias/gaia-tui/internal/util"
)

// listTimeLayout formats update times in the history table.
const listTimeLayout = "Jan 02 15:04"

// errStorageDisabled is returned when history is requested but storage is off.
var errStorageDisabled = errors.New("transcript storage is disabled (storage.enabled = false)")

// =============================================================================
// HISTORY COMMAND
// =============================================================================

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "List, show or delete saved conversations",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved conversations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(a *app, s *storage.Store) error {
				return listConversations(cmd.Context(), cmd.OutOrStdout(), s, limit)
			})
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "maximum conversations to list (0 for all)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(a *app, s *storage.Store) error {
				return a.showConversation(cmd.Context(), cmd.OutOrStdout(), s, args[0])
			})
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved conversation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(a *app, s *storage.Store) error {
				if err := s.DeleteConversation(cmd.Context(), args[0]); err != nil {
					return err
				}
				a.log.Info("conversation deleted", "conversation", args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Deleted"), args[0])
				return nil
			})
		},
	}

	var format, outDir string
	exp := &cobra.Command{
		Use:     "export <id>",
		Short:   "Write a saved conversation to a Markdown or JSON file",
		Example: `  gaia history export 3f2a... --format json -o ~/exports`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := export.New(format, nil); err != nil {
				return &UsageError{Msg: err.Error()}
			}
			return withStore(cmd.Context(), opts, func(a *app, s *storage.Store) error {
				exporter, err := export.New(format, &export.Options{
					IncludeMetadata:   true,
					IncludeTimestamps: true,
					BotName:           a.cfg.Chat.BotName,
				})
				if err != nil {
					return err
				}
				return a.exportConversation(cmd.Context(), cmd.OutOrStdout(), s, args[0], exporter, outDir)
			})
		},
	}
	exp.Flags().StringVarP(&format, "format", "f", "markdown", "export format: markdown or json")
	exp.Flags().StringVarP(&outDir, "output", "o", ".", "directory to write the file to")

	cmd.AddCommand(list, show, del, exp)
	return cmd
}

// withStore loads the app, opens the store, runs fn and closes both.
func withStore(ctx context.Context, opts *globalOptions, fn func(*app, *storage.Store) error) error {
	a, err := opts.load()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Storage.Enabled {
		return errStorageDisabled
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(a, s)
}

func listConversations(ctx context.Context, out io.Writer, s *storage.Store, limit int) error {
	convs, err := s.ListConversations(ctx, limit)
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		fmt.Fprintln(out, "No saved conversations.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-32s  %-13s  %5s  %s\n", "ID", "Title", "Tone", "Msgs", "Updated")
	for _, c := range convs {
		title := c.Title
		if title == "" {
			title = "New Conversation"
		}
		fmt.Fprintf(out, "%-36s  %s  %-13s  %5d  %s\n",
			c.ID,
			runewidth.FillRight(util.TruncateWidth(title, 32), 32),
			c.Tone,
			c.MessageCount,
			c.UpdatedAt.Local().Format(listTimeLayout),
		)
	}
	fmt.Fprintf(out, "\nTotal: %d conversation(s)\n", len(convs))
	return nil
}

func (a *app) showConversation(ctx context.Context, out io.Writer, s *storage.Store, id string) error {
	conv, err := s.LoadConversation(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, TitleStyle.Render(conv.GetTitle()))
	fmt.Fprintf(out, "%s%s\n", LabelStyle.Render("ID"), conv.ID)
	fmt.Fprintf(out, "%s%s\n", LabelStyle.Render("Tone"), conv.Tone)
	fmt.Fprintf(out, "%s%s\n", LabelStyle.Render("Model"), conv.Model)
	fmt.Fprintf(out, "%s%s\n", LabelStyle.Render("Created"), conv.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintln(out)

	theme := styles.NewTheme(styles.PaletteFor(string(conv.Tone)))
	theme.SetSize(terminalWidth(out), 0)
	list := components.NewMessageList(theme, a.cfg.Chat.BotName)
	list.ShowTimestamps = a.cfg.UI.ShowTimestamps
	list.Highlight = a.cfg.UI.HighlightCode
	list.ListNumbering, _ = components.ParseListNumbering(a.cfg.UI.ListNumbering)

	msgs := make([]model.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, *m)
	}
	_, err = fmt.Fprintln(out, list.View(msgs))
	return err
}

func (a *app) exportConversation(ctx context.Context, out io.Writer, s *storage.Store, id string, exporter export.Exporter, dir string) error {
	conv, err := s.LoadConversation(ctx, id)
	if err != nil {
		return err
	}
	path, err := export.ToFile(conv, exporter, dir, time.Now())
	if err != nil {
		return err
	}
	a.log.Info("conversation exported", "conversation", id, "path", path)
	fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Exported to"), path)
	return nil
}
