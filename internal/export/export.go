// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation to one file format.
type Exporter interface {
	// Export returns the encoded conversation.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the extension including the dot, e.g. ".md".
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds front matter and a session summary.
	IncludeMetadata bool

	// IncludeTimestamps adds the time to each message heading.
	IncludeTimestamps bool

	// IncludeWelcome keeps the seeded greeting.
	IncludeWelcome bool

	// BotName labels assistant messages. Default: "Assistant".
	BotName string

	// Now stamps the export. Default: time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		BotName:           "Assistant",
		Now:               time.Now,
	}
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.BotName == "" {
		out.BotName = "Assistant"
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}

// New returns the exporter for format: "markdown" (or "md") and "json".
func New(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q, want markdown or json", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile exports conv into dir and returns the written path. The file name
// is derived from the title and the export time.
func ToFile(conv *model.Conversation, exporter Exporter, dir string, now time.Time) (string, error) {
	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	filename := fmt.Sprintf("conversation_%s_%s%s",
		sanitizeFilename(conv.GetTitle()),
		now.Format("20060102_150405"),
		exporter.FileExtension(),
	)
	outputPath := filepath.Join(dir, filename)
	// SECURITY: transcripts are private; owner-only like the database.
	if err := util.WriteFileAtomic(outputPath, content, 0600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// visibleMessages returns the messages to export.
func visibleMessages(conv *model.Conversation, includeWelcome bool) []*model.Message {
	out := make([]*model.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		if m.Welcome && !includeWelcome {
			continue
		}
		out = append(out, m)
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 50
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
