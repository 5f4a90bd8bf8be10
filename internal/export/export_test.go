// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/gaia-tui/internal/model"
)

var fixedNow = time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

func testConversation() *model.Conversation {
	conv := model.NewConversation(model.ToneAgreeable, "Hello!")
	conv.Model = "gpt-4o-mini"
	conv.AddUserMessage("What is 2+2: math #1?")
	conv.AddAssistantMessage("It's **4**.\n\n```go\nfmt.Println(4)\n```")
	return conv
}

func TestNew(t *testing.T) {
	for _, format := range []string{"markdown", "md", "MD", "json"} {
		exp, err := New(format, nil)
		require.NoError(t, err, format)
		assert.NotNil(t, exp)
	}

	_, err := New("html", nil)
	assert.Error(t, err)
}

func TestMarkdownExporter(t *testing.T) {
	opts := DefaultOptions()
	opts.BotName = "gAIa"
	opts.Now = func() time.Time { return fixedNow }

	out, err := NewMarkdownExporter(opts).Export(testConversation())
	require.NoError(t, err)
	text := string(out)

	t.Run("front matter parses", func(t *testing.T) {
		require.True(t, strings.HasPrefix(text, "---\n"))
		end := strings.Index(text[4:], "---\n")
		require.Positive(t, end)

		var fm frontMatter
		require.NoError(t, yaml.Unmarshal([]byte(text[4:4+end]), &fm))
		assert.Equal(t, "What is 2+2: math #1?", fm.Title)
		assert.Equal(t, "Agreeable", fm.Tone)
		assert.Equal(t, "gpt-4o-mini", fm.Model)
		assert.Equal(t, 2, fm.Messages)
		assert.Equal(t, fixedNow.Format(time.RFC3339), fm.Exported)
	})

	t.Run("messages", func(t *testing.T) {
		assert.Contains(t, text, `# What is 2+2: math \#1?`)
		assert.Contains(t, text, "### You <sub>")
		assert.Contains(t, text, "### gAIa <sub>")
		assert.Contains(t, text, "```go\nfmt.Println(4)\n```")
		assert.NotContains(t, text, "Hello!", "welcome is skipped")
	})
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	out, err := NewMarkdownExporter(&Options{}).Export(testConversation())
	require.NoError(t, err)

	text := string(out)
	assert.False(t, strings.HasPrefix(text, "---"))
	assert.Contains(t, text, "### You\n\n")
	assert.Contains(t, text, "### Assistant\n\n")
}

func TestMarkdownExporter_Empty(t *testing.T) {
	conv := model.NewConversation(model.ToneNeutral, "Hello!")

	_, err := NewMarkdownExporter(nil).Export(conv)
	assert.Error(t, err)

	out, err := NewMarkdownExporter(&Options{IncludeWelcome: true}).Export(conv)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Hello!")

	_, err = NewMarkdownExporter(nil).Export(nil)
	assert.Error(t, err)
}

func TestJSONExporter(t *testing.T) {
	conv := testConversation()
	out, err := NewJSONExporter(nil).Export(conv)
	require.NoError(t, err)

	var decoded model.Conversation
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, conv.ID, decoded.ID)
	assert.Equal(t, model.ToneAgreeable, decoded.Tone)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, model.RoleUser, decoded.Messages[0].Role)

	// The source conversation is not modified.
	assert.Len(t, conv.Messages, 3)
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	conv := testConversation()

	path, err := ToFile(conv, NewJSONExporter(nil), dir, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "conversation_What_is_2+2-_math_#1-_20250304_103000.json", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "conversation"},
		{"plain", "plain"},
		{"a/b\\c:d", "a-b-c-d"},
		{"tab\there", "tab_here"},
		{"bell\x07", "bell-"},
		{strings.Repeat("é", 60), strings.Repeat("é", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
