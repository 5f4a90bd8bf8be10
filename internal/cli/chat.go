// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/commands"
	"github.com/jeranaias/gaia-tui/internal/config"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/session"
	"github.com/jeranaias/gaia-tui/internal/ui/components"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader provides input history and line editing for line-mode chat.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader(historyFile string, complete liner.Completer) *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	if complete != nil {
		line.SetCompleter(complete)
	}

	r := &lineReader{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

// read prompts for one line. Non-blank input is added to the history.
func (r *lineReader) read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// close persists the history and restores the terminal.
func (r *lineReader) close() {
	// SECURITY: history may contain private prompts; owner-only.
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat line by line without the full-screen UI",
		Long: `Chat line by line. Replies are rendered inline.

Commands inside the chat (Tab completes them):
  /tone [name]  show or change the tone
  /new          start a new conversation
  /copy         copy the last reply to the clipboard
  /help         show this list
  /quit         leave (also Ctrl+D)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()
			if a.cfg.Provider.APIKey == "" {
				return fmt.Errorf("%w: run 'gaia config set-key' or set GAIA_API_KEY", cloud.ErrNotConfigured)
			}
			return a.runChat(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// replPrinter renders conversation output for line mode.
type replPrinter struct {
	out       io.Writer
	cfg       *config.Config
	numbering components.ListNumbering
}

func newReplPrinter(out io.Writer, cfg *config.Config) *replPrinter {
	numbering, _ := components.ParseListNumbering(cfg.UI.ListNumbering)
	return &replPrinter{out: out, cfg: cfg, numbering: numbering}
}

// reply prints the bot name line and the rendered reply.
func (p *replPrinter) reply(tone model.Tone, msg *model.Message) {
	palette := styles.PaletteFor(string(tone))
	name := TitleStyle.Foreground(palette.Primary).Render(p.cfg.Chat.BotName)
	if p.cfg.UI.ShowTimestamps {
		name += " " + DimStyle.Render(msg.Clock())
	}
	fmt.Fprintln(p.out, name)
	fmt.Fprintln(p.out, components.RenderMarkdown(msg.Text, components.RenderOptions{
		Palette:       palette,
		Width:         terminalWidth(p.out) - 2,
		ListNumbering: p.numbering,
		Highlight:     p.cfg.UI.HighlightCode,
	}))
	fmt.Fprintln(p.out)
}

func (a *app) runChat(ctx context.Context, out io.Writer) error {
	store, err := a.openStore(ctx)
	if err != nil {
		a.log.Warn("transcript store unavailable", "error", err)
	}
	sessOpts := session.Options{ErrorReply: a.cfg.Chat.ErrorReply, Logger: a.log}
	if store != nil {
		defer store.Close()
		sessOpts.Recorder = store
	}

	client := a.newClient(a.cfg, a.cfg.Provider.APIKey)
	sess := session.New(a.newConversation(a.cfg.Chat.WelcomeMessage), client, sessOpts)
	printer := newReplPrinter(out, a.cfg)

	reg := commands.NewRegistry()
	reader := newLineReader(config.HistoryPath(), reg.Complete)
	defer reader.close()

	fmt.Fprintln(out, DimStyle.Render(components.Disclaimer+"  /help for commands, Ctrl+D to quit."))
	fmt.Fprintln(out)
	for _, m := range sess.Messages() {
		printer.reply(sess.Tone(), &m)
	}

	for {
		input, err := reader.read(PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt or Ctrl+D both end the chat.
			fmt.Fprintln(out)
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := a.replCommand(out, reg, sess, input); quit {
				return nil
			}
			continue
		}

		// Ctrl+C while waiting cancels only this request.
		reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		fmt.Fprintln(out, DimStyle.Render(a.cfg.Chat.BotName+" is typing..."))
		reply, err := sess.Send(reqCtx, input, nil)
		stop()

		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, WarningStyle.Render("[Cancelled]"))
		} else if err != nil {
			a.log.Warn("chat request failed", "error", err)
		}
		if reply != nil {
			printer.reply(sess.Tone(), reply)
		}
	}
}

// replCommand handles a slash command. It returns true to quit.
func (a *app) replCommand(out io.Writer, reg *commands.Registry, sess *session.Session, input string) bool {
	res := reg.Parse(input)
	if res.Error != nil {
		msg := res.Error.Error()
		if errors.Is(res.Error, commands.ErrUnknownCommand) {
			msg = "Unknown command " + res.CommandName + ". Type /help."
		}
		fmt.Fprintln(out, ErrorStyle.Render(msg))
		return false
	}

	switch res.Command.Action {
	case commands.ActionQuit:
		return true

	case commands.ActionNew:
		sess.Reset(a.cfg.Chat.WelcomeMessage)
		fmt.Fprintln(out, SuccessStyle.Render("Started a new conversation."))

	case commands.ActionTone:
		if len(res.Args) == 0 {
			fmt.Fprintf(out, "Tone: %s (available: %s)\n", sess.Tone(), toneNames())
			return false
		}
		tone, _ := model.ParseTone(res.Args[0])
		sess.SetTone(tone)
		fmt.Fprintf(out, "Tone set to %s.\n", tone)

	case commands.ActionCopy:
		text := sess.LastReply()
		if text == "" {
			fmt.Fprintln(out, WarningStyle.Render("No reply to copy yet."))
			return false
		}
		if err := clipboard.WriteAll(text); err != nil {
			fmt.Fprintln(out, ErrorStyle.Render("Copy failed: "+err.Error()))
			return false
		}
		fmt.Fprintln(out, SuccessStyle.Render("Reply copied to clipboard."))

	case commands.ActionHelp:
		for _, line := range reg.HelpLines() {
			fmt.Fprintln(out, line)
		}
	}
	return false
}
