// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/gaia-tui/internal/markdown"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/ui/components"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// maxRenderInput bounds the text accepted by the render command.
const maxRenderInput = 8 << 20

// =============================================================================
// RENDER COMMAND
// =============================================================================

type renderOptions struct {
	width     int
	numbering string
	user      bool
	blocks    bool
}

func newRenderCommand(opts *globalOptions) *cobra.Command {
	ro := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown from a file or stdin the way replies are shown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			data, err := io.ReadAll(io.LimitReader(in, maxRenderInput))
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			numbering, ok := components.ParseListNumbering(ro.numbering)
			if !ok {
				return &UsageError{Msg: fmt.Sprintf("unknown list numbering %q, want position, sequential or source", ro.numbering)}
			}

			out := cmd.OutOrStdout()
			if ro.blocks {
				return dumpBlocks(out, string(data))
			}

			tone, _ := model.ParseTone(opts.tone)
			width := ro.width
			if width == 0 {
				width = terminalWidth(out)
			}
			rendered := components.RenderMarkdown(string(data), components.RenderOptions{
				Palette:       styles.PaletteFor(string(tone)),
				IsUser:        ro.user,
				Width:         width,
				ListNumbering: numbering,
				Highlight:     true,
			})
			_, err = fmt.Fprintln(out, rendered)
			return err
		},
	}

	cmd.Flags().IntVarP(&ro.width, "width", "w", 0, "wrap width (default: terminal width, negative: no wrapping)")
	cmd.Flags().StringVar(&ro.numbering, "numbering", "position", "ordered list numbering: position, sequential or source")
	cmd.Flags().BoolVar(&ro.user, "user", false, "use the user bubble colors")
	cmd.Flags().BoolVar(&ro.blocks, "blocks", false, "print the parsed blocks and spans instead of rendering")
	return cmd
}

// dumpBlocks prints one line per block with its inline spans, for debugging
// how a reply is segmented.
func dumpBlocks(out io.Writer, text string) error {
	for i, b := range markdown.Segment(text) {
		var line string
		switch b := b.(type) {
		case markdown.Heading:
			line = fmt.Sprintf("h%d %s", b.Level, spanList(b.Text))
		case markdown.Paragraph:
			line = "p " + spanList(b.Text)
		case markdown.CodeBlock:
			line = fmt.Sprintf("code[%s] %q", b.Language, b.Text)
		case markdown.ListItem:
			if b.Ordered {
				line = fmt.Sprintf("ol(%d) %s", b.Number, spanList(b.Text))
			} else {
				line = "ul " + spanList(b.Text)
			}
		}
		if _, err := fmt.Fprintf(out, "%3d  %s\n", i, line); err != nil {
			return err
		}
	}
	return nil
}

func spanList(text string) string {
	spans := markdown.Format(text)
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		var kind string
		switch s.(type) {
		case markdown.Code:
			kind = "code"
		case markdown.Bold:
			kind = "bold"
		case markdown.Italic:
			kind = "italic"
		default:
			kind = "text"
		}
		parts = append(parts, fmt.Sprintf("%s%q", kind, s.Content()))
	}
	return strings.Join(parts, " ")
}
