// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/session"
)

// maxStdinQuestion bounds a question read from a pipe.
const maxStdinQuestion = 1 << 20

// =============================================================================
// ASK COMMAND
// =============================================================================

type askOptions struct {
	glamour bool
	raw     bool
}

func newAskCommand(opts *globalOptions) *cobra.Command {
	ao := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the reply",
		Long: `Ask one question and print the reply.

The question is taken from the arguments, or from stdin when none are given.
Output is rendered for the terminal; when stdout is not a terminal the reply
is printed as it arrives, unformatted.`,
		Example: `  gaia ask "What is a goroutine?"
  git diff | gaia ask --tone Condescending`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinQuestion))
				if err != nil {
					return fmt.Errorf("read question: %w", err)
				}
				question = string(data)
			}
			if strings.TrimSpace(question) == "" {
				return &UsageError{Msg: "no question given"}
			}

			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runAsk(cmd.Context(), cmd.OutOrStdout(), question, ao)
		},
	}

	cmd.Flags().BoolVar(&ao.glamour, "glamour", false, "render the reply as full markdown with glamour")
	cmd.Flags().BoolVar(&ao.raw, "raw", false, "print the reply text without formatting")
	return cmd
}

func (a *app) runAsk(ctx context.Context, out io.Writer, question string, ao *askOptions) error {
	if a.cfg.Provider.APIKey == "" {
		return fmt.Errorf("%w: run 'gaia config set-key' or set GAIA_API_KEY", cloud.ErrNotConfigured)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.log.Warn("transcript store unavailable", "error", err)
	}
	raw := ao.raw || !isTerminal(out)
	sessOpts := session.Options{
		ErrorReply: a.cfg.Chat.ErrorReply,
		Stream:     a.cfg.Provider.Stream && raw,
		Logger:     a.log,
	}
	if store != nil {
		defer store.Close()
		sessOpts.Recorder = store
	}

	sess := session.New(a.newConversation(""), a.newClient(a.cfg, a.cfg.Provider.APIKey), sessOpts)

	var streamed bool
	var onToken func(string)
	if sessOpts.Stream {
		onToken = func(s string) {
			streamed = true
			io.WriteString(out, s)
		}
	}

	reply, err := sess.Send(ctx, question, onToken)
	if err != nil {
		// One-shot callers want the real failure, not the chat error reply.
		return err
	}

	switch {
	case streamed:
		_, err = fmt.Fprintln(out)
	case raw:
		_, err = fmt.Fprintln(out, reply.Text)
	case ao.glamour:
		err = renderGlamour(out, reply.Text)
	default:
		newReplPrinter(out, a.cfg).reply(sess.Tone(), reply)
	}
	return err
}

// renderGlamour renders text as full CommonMark for the terminal behind out.
func renderGlamour(out io.Writer, text string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth(out)-4),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	rendered, err := r.Render(text)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}
