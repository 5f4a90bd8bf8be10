// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gaia-tui/internal/markdown"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

func TestMain(m *testing.M) {
	styles.DisableColor()
	os.Exit(m.Run())
}

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func plain(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

func plainLines(s string) []string {
	lines := strings.Split(plain(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func opts(width int) RenderOptions {
	return RenderOptions{Palette: styles.NeutralPalette, Width: width}
}

// =============================================================================
// ORDINALS
// =============================================================================

func TestOrdinals(t *testing.T) {
	blocks := []markdown.Block{
		markdown.ListItem{Text: "a", Ordered: true, Number: 1},
		markdown.ListItem{Text: "b", Ordered: true, Number: 2},
		markdown.Paragraph{Text: "between"},
		markdown.ListItem{Text: "c", Ordered: true, Number: 7},
		markdown.ListItem{Text: "d"},
		markdown.ListItem{Text: "e", Ordered: true, Number: 9},
	}

	tests := []struct {
		mode ListNumbering
		want []int
	}{
		{NumberByPosition, []int{1, 2, 0, 4, 0, 6}},
		{"", []int{1, 2, 0, 4, 0, 6}},
		{NumberSequential, []int{1, 2, 0, 1, 0, 1}},
		{NumberFromSource, []int{1, 2, 0, 7, 0, 9}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, Ordinals(blocks, tt.mode))
		})
	}
}

func TestParseListNumbering(t *testing.T) {
	for in, want := range map[string]ListNumbering{
		"":            NumberByPosition,
		"position":    NumberByPosition,
		" Sequential": NumberSequential,
		"SOURCE":      NumberFromSource,
	} {
		got, ok := ParseListNumbering(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseListNumbering("roman")
	assert.False(t, ok)
	assert.Equal(t, NumberByPosition, got)
}

// =============================================================================
// BLOCK RENDERING
// =============================================================================

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown("", opts(40)))
	assert.Equal(t, "", RenderMarkdown("```go\nnever closed", opts(40)))
}

func TestRenderMarkdown_HeadingAndList(t *testing.T) {
	out := plainLines(RenderMarkdown("# Title\n- a\n1. b\n2. c", opts(40)))

	require.Len(t, out, 5)
	assert.Equal(t, "Title", out[0])
	assert.Equal(t, "", out[1])
	assert.Equal(t, "• a", out[2])
	assert.Equal(t, "3. b", out[3])
	assert.Equal(t, "4. c", out[4])
}

func TestRenderMarkdown_SequentialNumbering(t *testing.T) {
	o := opts(40)
	o.ListNumbering = NumberSequential
	out := plainLines(RenderMarkdown("# Title\n1. b\n1. c", o))

	assert.Equal(t, []string{"Title", "", "1. b", "2. c"}, out)
}

func TestRenderMarkdown_InlineSpans(t *testing.T) {
	out := plain(RenderMarkdown("use `go test` and **bold** or *soft*", opts(0)))

	assert.Contains(t, out, "go test")
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "soft")
	assert.NotContains(t, out, "`")
	assert.NotContains(t, out, "*")
}

func TestRenderMarkdown_ParagraphKeepsLineBreaks(t *testing.T) {
	out := plainLines(RenderMarkdown("first line\nsecond line", opts(40)))
	assert.Equal(t, []string{"first line", "second line"}, out)
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	out := plain(RenderMarkdown("```go\nfmt.Println(\"**not bold**\")\n```", opts(60)))

	assert.Contains(t, out, "go")
	assert.Contains(t, out, `fmt.Println("**not bold**")`)
	assert.Contains(t, out, "╭")
}

func TestRenderMarkdown_CodeBlockHighlighted(t *testing.T) {
	o := opts(60)
	o.Highlight = true
	out := plain(RenderMarkdown("```go\nx := 1\n```", o))
	assert.Contains(t, out, "x := 1")
}

func TestRenderMarkdown_Wraps(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	out := plainLines(RenderMarkdown(text, opts(12)))

	require.Greater(t, len(out), 1)
	for _, line := range out {
		assert.LessOrEqual(t, lipgloss.Width(line), 12, line)
	}
	assert.Equal(t, text, strings.Join(out, " "))
}

func TestRenderMarkdown_ListHangingIndent(t *testing.T) {
	out := plainLines(RenderMarkdown("- alpha beta gamma", opts(10)))

	require.Len(t, out, 3)
	assert.Equal(t, "• alpha", out[0])
	assert.Equal(t, "  beta", out[1])
	assert.Equal(t, "  gamma", out[2])
}

// =============================================================================
// SPAN LAYOUT
// =============================================================================

func TestWrapWords_BreaksLongWords(t *testing.T) {
	st := styles.NewMarkdownStyles(styles.NeutralPalette, false)
	lines := layoutSpans([]markdown.Span{markdown.Text("abcdefghij")}, lipgloss.NewStyle(), st, 4)

	var got []string
	for _, l := range lines {
		got = append(got, plain(l))
	}
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, got)
}

func TestWrapWords_GluedSpans(t *testing.T) {
	st := styles.NewMarkdownStyles(styles.NeutralPalette, false)
	spans := markdown.Format("foo**bar** baz")
	lines := layoutSpans(spans, lipgloss.NewStyle(), st, 0)

	require.Len(t, lines, 1)
	assert.Equal(t, "foobar baz", plain(lines[0]))
}

func TestWrapWords_WideRunes(t *testing.T) {
	st := styles.NewMarkdownStyles(styles.NeutralPalette, false)
	lines := layoutSpans([]markdown.Span{markdown.Text("日本語テキスト")}, lipgloss.NewStyle(), st, 6)

	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 6)
	}
	assert.Len(t, lines, 3)
}

// =============================================================================
// CHAT ELEMENTS
// =============================================================================

func testTheme(width int) *styles.Theme {
	theme := styles.NewTheme(styles.NeutralPalette)
	theme.SetSize(width, 24)
	return theme
}

func TestMessageList_UserRightAligned(t *testing.T) {
	ml := NewMessageList(testTheme(80), "gAIa")
	msg := model.Message{
		Role:      model.RoleUser,
		Text:      "hi",
		Timestamp: time.Date(2025, 3, 1, 14, 7, 0, 0, time.UTC),
	}

	out := plain(ml.Bubble(msg))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "    "), "user bubble should be indented: %q", lines[0])
	assert.Equal(t, "hi", strings.TrimSpace(lines[0]))
	assert.Equal(t, "02:07 PM", strings.TrimSpace(lines[1]))
}

func TestMessageList_AssistantBubble(t *testing.T) {
	ml := NewMessageList(testTheme(80), "gAIa")
	ml.ShowTimestamps = false
	msg := model.Message{Role: model.RoleAssistant, Text: "**Hello**"}

	out := plain(ml.Bubble(msg))
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "gAIa", strings.TrimSpace(lines[0]))
	assert.Contains(t, out, "Hello")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "PM")
	assert.NotContains(t, out, "AM")
}

func TestMessageList_View(t *testing.T) {
	ml := NewMessageList(testTheme(60), "gAIa")
	out := plain(ml.View([]model.Message{
		{Role: model.RoleAssistant, Text: "Welcome"},
		{Role: model.RoleUser, Text: "Question"},
	}))

	assert.Less(t, strings.Index(out, "Welcome"), strings.Index(out, "Question"))
}

func TestChromeElements(t *testing.T) {
	theme := testTheme(80)

	assert.Contains(t, plain(Footer(theme)), Disclaimer)
	assert.Contains(t, plain(Typing(theme, "gAIa", "*")), "typing")

	header := plain(Header(theme, "gAIa", model.ToneAgreeable))
	assert.Contains(t, header, "gAIa")
	assert.Contains(t, header, "Agreeable")
	assert.Equal(t, 80, lipgloss.Width(header))
}

func TestKeyPrompt(t *testing.T) {
	theme := testTheme(100)
	out := plain(KeyPrompt(theme, "> sk-...", "Please enter an API key"))

	assert.Contains(t, out, KeyPromptTitle)
	assert.Contains(t, out, "To use this chatbot")
	assert.Contains(t, out, KeyPromptURL)
	assert.Contains(t, out, "Please enter an API key")
	assert.Contains(t, out, KeyPromptSubmit)
}
