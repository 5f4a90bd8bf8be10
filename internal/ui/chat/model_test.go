// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/config"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/session"
	"github.com/jeranaias/gaia-tui/internal/ui/components"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

func TestMain(m *testing.M) {
	styles.DisableColor()
	os.Exit(m.Run())
}

// =============================================================================
// HELPERS
// =============================================================================

// echoProvider answers with the last user turn, or waits for cancellation
// when hang is set.
type echoProvider struct {
	hang bool
}

func (p echoProvider) Complete(ctx context.Context, msgs []cloud.ChatMessage) (string, error) {
	if p.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "echo: " + msgs[len(msgs)-1].Content, nil
}

func newTestModel(t *testing.T, provider session.Completer) Model {
	t.Helper()
	cfg := config.Default()
	conv := model.NewConversation(model.ToneNeutral, cfg.Chat.WelcomeMessage)
	sess := session.New(conv, provider, session.Options{})
	return New(Options{
		Config:  cfg,
		Session: sess,
		NewProvider: func(_ *config.Config, apiKey string) session.Completer {
			return echoProvider{}
		},
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// submit types text, presses Enter and runs the request synchronously.
func submit(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = typeText(t, m, text)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.Waiting())

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	reply := batch[0]()
	m, _ = update(t, m, reply)
	return m
}

// =============================================================================
// KEY SCREEN
// =============================================================================

func TestNew_ShowsKeyPromptWithoutProvider(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Contains(t, m.View(), components.KeyPromptTitle)
}

func TestKeyPrompt_RejectsBadKey(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), cloud.ErrKeyEmpty.Error())

	m = typeText(t, m, "pk-123")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), cloud.ErrKeyBadPrefix.Error())
	assert.False(t, m.Session().HasProvider())
}

func TestKeyPrompt_MasksInput(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeText(t, m, "sk-secret")
	assert.NotContains(t, m.View(), "sk-secret")
}

func TestKeyPrompt_AcceptsKey(t *testing.T) {
	var gotKey, savedKey string
	cfg := config.Default()
	sess := session.New(model.NewConversation(model.ToneNeutral, "hi"), nil, session.Options{})
	m := New(Options{
		Config:  cfg,
		Session: sess,
		NewProvider: func(_ *config.Config, apiKey string) session.Completer {
			gotKey = apiKey
			return echoProvider{}
		},
		SaveKey: func(apiKey string) error {
			savedKey = apiKey
			return nil
		},
	})

	m = typeText(t, m, "sk-test")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "sk-test", gotKey)
	assert.Equal(t, "sk-test", savedKey)
	assert.True(t, sess.HasProvider())
	assert.NotContains(t, m.View(), components.KeyPromptTitle)
	assert.Contains(t, m.View(), components.Disclaimer)
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func TestChat_ShowsWelcomeAndChrome(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	view := m.View()

	assert.Contains(t, view, "gAIa")
	assert.Contains(t, view, "Hello! I'm gaia")
	assert.Contains(t, view, "Type your message...")
	assert.Contains(t, view, components.Disclaimer)
}

func TestChat_SubmitRoundTrip(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m = submit(t, m, "hello there")

	assert.False(t, m.Waiting())
	assert.Empty(t, m.input.Value())

	msgs := m.Session().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello there", msgs[1].Text)
	assert.Equal(t, "echo: hello there", msgs[2].Text)
	assert.Contains(t, m.View(), "echo: hello there")
}

func TestChat_BlankSubmitIgnored(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m = typeText(t, m, "   ")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, m.Waiting())
	assert.Len(t, m.Session().Messages(), 1)
}

func TestChat_SubmitWhileWaiting(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m = typeText(t, m, "first")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Waiting())

	m = typeText(t, m, "second")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "second", m.input.Value())
	assert.Equal(t, statusBusy, m.status)
	m.cancel.stop()
}

func TestChat_CancelStopsReply(t *testing.T) {
	m := newTestModel(t, echoProvider{hang: true})
	m = typeText(t, m, "slow question")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, statusStopped, m.status)

	batch := cmd().(tea.BatchMsg)
	reply, ok := batch[0]().(replyMsg)
	require.True(t, ok)
	assert.True(t, errors.Is(reply.Err, context.Canceled))

	m, _ = update(t, m, reply)
	assert.False(t, m.Waiting())
	assert.Equal(t, session.DefaultErrorReply, m.Session().LastReply())
}

func TestChat_StreamingShowsPartialReply(t *testing.T) {
	m := newTestModel(t, echoProvider{hang: true})
	m = typeText(t, m, "stream please")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	defer m.cancel.stop()

	for _, w := range strings.Fields("partial answer arriving word by word and then some more words to pass the batch size") {
		m.stream.Write(w + " ")
	}
	m, cmd := update(t, m, streamTickMsg{})

	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "partial answer")
}

func TestChat_StreamTickIgnoredWhenIdle(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	_, cmd := update(t, m, streamTickMsg{})
	assert.Nil(t, cmd)
}

func TestChat_CycleTone(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	start := m.Session().Tone()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})

	next := start.Next()
	assert.Equal(t, next, m.Session().Tone())
	assert.Equal(t, styles.PaletteFor(string(next)), m.theme.Palette)
	assert.Contains(t, m.headerView(), next.String())
}

func TestChat_CopyReply(t *testing.T) {
	var copied string
	cfg := config.Default()
	sess := session.New(model.NewConversation(model.ToneNeutral, cfg.Chat.WelcomeMessage), echoProvider{}, session.Options{})
	m := New(Options{
		Config:  cfg,
		Session: sess,
		Clipboard: func(text string) error {
			copied = text
			return nil
		},
	})

	// The welcome message is not a reply.
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Nil(t, cmd)
	assert.Equal(t, statusNothingCopy, m.status)

	m = submit(t, m, "copy me")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "echo: copy me", copied)
	assert.Equal(t, statusCopied, m.status)
}

func TestChat_NewConversation(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m = submit(t, m, "one")
	before := m.Session().ConversationID()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	assert.NotEqual(t, before, m.Session().ConversationID())
	assert.Len(t, m.Session().Messages(), 1)
	assert.NotContains(t, m.View(), "echo: one")
}

func TestChat_NotConfiguredReturnsToKeyPrompt(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m.Session().SetProvider(nil)

	m = typeText(t, m, "hello")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	batch := cmd().(tea.BatchMsg)
	m, _ = update(t, m, batch[0]())

	assert.Contains(t, m.View(), components.KeyPromptTitle)
}

func TestChat_HelpToggle(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	short := lipgloss.Height(m.statusView())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Greater(t, lipgloss.Height(m.statusView()), short)
	assert.Contains(t, m.View(), "change tone")
}

func TestChat_Resize(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, 100, lipgloss.Width(m.headerView()))
	assert.LessOrEqual(t, lipgloss.Height(m.View()), 30)
}

func TestChat_QuitCancelsRequest(t *testing.T) {
	m := newTestModel(t, echoProvider{hang: true})
	m = typeText(t, m, "q")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.cancel.active())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, m.cancel.active())
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// command types a slash command and presses Enter.
func command(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m = typeText(t, m, text)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestCommand_Tone(t *testing.T) {
	m := newTestModel(t, echoProvider{})

	m, cmd := command(t, m, "/tone condescending")
	assert.Nil(t, cmd)
	assert.Equal(t, model.ToneCondescending, m.Session().Tone())
	assert.Empty(t, m.input.Value())
	assert.Len(t, m.Session().Messages(), 1, "commands are not sent")

	m, _ = command(t, m, "/tone")
	assert.Equal(t, "Tone: Condescending", m.status)

	m, _ = command(t, m, "/tone grumpy")
	assert.Equal(t, model.ToneCondescending, m.Session().Tone())
	assert.Contains(t, m.status, "invalid value")
}

func TestCommand_UnknownAndHelp(t *testing.T) {
	m := newTestModel(t, echoProvider{})

	m, _ = command(t, m, "/bogus")
	assert.Contains(t, m.status, "unknown command")

	m, _ = command(t, m, "/help")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "/tone [name]")
}

func TestCommand_NewAndQuit(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m = submit(t, m, "one")
	before := m.Session().ConversationID()

	m, _ = command(t, m, "/new")
	assert.NotEqual(t, before, m.Session().ConversationID())

	_, cmd := command(t, m, "/q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCommand_QuitWhileWaiting(t *testing.T) {
	m := newTestModel(t, echoProvider{hang: true})
	m = typeText(t, m, "wait")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Waiting())

	_, cmd := command(t, m, "/quit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, m.cancel.active())
}

func TestComplete_TabExtendsCommand(t *testing.T) {
	m := newTestModel(t, echoProvider{})

	m = typeText(t, m, "/to")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/tone ", m.input.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/tone ", m.input.Value())
	assert.Contains(t, m.status, "/tone Agreeable")

	m = typeText(t, m, "ag")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/tone Agreeable ", m.input.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, model.ToneAgreeable, m.Session().Tone())
}

func TestComplete_IgnoresPlainText(t *testing.T) {
	m := newTestModel(t, echoProvider{})
	m = typeText(t, m, "hello")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "hello", m.input.Value())
	assert.Empty(t, m.status)
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestReload_AppliesSettings(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "GAIA_API_KEY", "GAIA_MODEL", "GAIA_BASE_URL", "GAIA_TONE"} {
		t.Setenv(k, "")
	}
	m := newTestModel(t, nil)

	cfg := config.Default()
	cfg.Chat.BotName = "Sage"
	cfg.Chat.Tone = string(model.ToneAgreeable)
	cfg.Chat.InputPlaceholder = "Ask away"
	cfg.Provider.APIKey = "sk-from-file"

	m, cmd := update(t, m, reloadMsg{Reload: config.Reload{Config: cfg}})

	assert.Nil(t, cmd) // no reload channel
	assert.Equal(t, statusReloaded, m.status)
	assert.Equal(t, model.ToneAgreeable, m.Session().Tone())
	assert.True(t, m.Session().HasProvider())

	view := m.View()
	assert.Contains(t, view, "Sage")
	assert.Contains(t, view, "Agreeable")
	assert.Contains(t, view, "Ask away")
}

func TestReload_KeepsSettingsOnError(t *testing.T) {
	t.Setenv("GAIA_TONE", "")
	m := newTestModel(t, echoProvider{})

	m, _ = update(t, m, reloadMsg{Reload: config.Reload{Err: errors.New("bad toml")}})
	assert.Contains(t, m.status, "bad toml")

	cfg := config.Default()
	cfg.Chat.Tone = "sarcastic"
	m, _ = update(t, m, reloadMsg{Reload: config.Reload{Config: cfg}})
	assert.Contains(t, m.status, "Config not reloaded")
	assert.Equal(t, model.ToneNeutral, m.Session().Tone())
}

func TestWaitForReload(t *testing.T) {
	assert.Nil(t, waitForReload(nil))

	ch := make(chan config.Reload, 1)
	ch <- config.Reload{Err: errors.New("x")}
	msg := waitForReload(ch)()
	r, ok := msg.(reloadMsg)
	require.True(t, ok)
	assert.EqualError(t, r.Err, "x")

	close(ch)
	assert.Nil(t, waitForReload(ch)())
}
