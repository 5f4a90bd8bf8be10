// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/gaia-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown with YAML front matter.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	return &MarkdownExporter{options: opts.withDefaults()}
}

// frontMatter is the YAML header of a markdown export.
type frontMatter struct {
	Title     string `yaml:"title"`
	ID        string `yaml:"id"`
	Tone      string `yaml:"tone"`
	Model     string `yaml:"model,omitempty"`
	Date      string `yaml:"date"`
	Updated   string `yaml:"updated"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a conversation to Markdown.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, errors.New("conversation is nil")
	}
	msgs := visibleMessages(conv, e.options.IncludeWelcome)
	if len(msgs) == 0 {
		return nil, errors.New("conversation has no messages")
	}
	if conv.CreatedAt.IsZero() {
		return nil, errors.New("conversation has invalid creation timestamp")
	}

	title := conv.GetTitle()
	now := e.options.Now()
	var sb strings.Builder

	if e.options.IncludeMetadata {
		// yaml.v3 quotes titles containing ':' or '#', which a hand-written
		// header would get wrong.
		header, err := yaml.Marshal(frontMatter{
			Title:     title,
			ID:        conv.ID,
			Tone:      string(conv.Tone),
			Model:     conv.Model,
			Date:      conv.CreatedAt.Format(time.RFC3339),
			Updated:   conv.UpdatedAt.Format(time.RFC3339),
			Messages:  len(msgs),
			Exported:  now.Format(time.RFC3339),
			Generator: "gaia",
		})
		if err != nil {
			return nil, fmt.Errorf("encode front matter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(header)
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(title))

	if e.options.IncludeMetadata {
		fmt.Fprintf(&sb, "- **Tone**: %s\n", conv.Tone)
		if conv.Model != "" {
			fmt.Fprintf(&sb, "- **Model**: %s\n", conv.Model)
		}
		fmt.Fprintf(&sb, "- **Created**: %s\n", formatTimestamp(conv.CreatedAt))
		fmt.Fprintf(&sb, "- **Messages**: %d\n", len(msgs))
		sb.WriteString("\n---\n\n")
	}

	for i, msg := range msgs {
		label := e.roleLabel(msg.Role)
		if e.options.IncludeTimestamps {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, msg.Timestamp.Format("15:04:05"))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}

		// Replies are already markdown.
		sb.WriteString(strings.TrimSpace(msg.Text))
		sb.WriteString("\n\n")

		if i < len(msgs)-1 {
			sb.WriteString("---\n\n")
		}
	}

	fmt.Fprintf(&sb, "\n---\n\n*Exported from gaia on %s*\n", now.Format("January 2, 2006 at 3:04 PM"))
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

func (e *MarkdownExporter) roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return "You"
	case model.RoleAssistant:
		return e.options.BotName
	case model.RoleSystem:
		return "System"
	case "":
		return "Unknown"
	default:
		return string(role)
	}
}

// escapeMarkdown escapes characters that would break formatting in a heading.
func escapeMarkdown(s string) string {
	return strings.NewReplacer(
		"#", `\#`,
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"`", "\\`",
	).Replace(s)
}
