// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"

	"github.com/jeranaias/gaia-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes the conversation structure as indented JSON.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	return &JSONExporter{options: opts.withDefaults()}
}

// Export converts a conversation to JSON.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, errors.New("conversation is nil")
	}
	// Welcome messages are tagged json:"-"; filter them so the message
	// list matches what was stored.
	out := *conv
	out.Messages = visibleMessages(conv, e.options.IncludeWelcome)
	return json.MarshalIndent(&out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
