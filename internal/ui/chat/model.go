// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gaia-tui/internal/commands"
	"github.com/jeranaias/gaia-tui/internal/config"
	"github.com/jeranaias/gaia-tui/internal/logging"
	"github.com/jeranaias/gaia-tui/internal/session"
	"github.com/jeranaias/gaia-tui/internal/ui/components"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// Size used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// screen selects what the model draws.
type screen int

const (
	screenKeyPrompt screen = iota
	screenChat
)

// ProviderFactory builds a chat provider for apiKey using the provider
// settings in cfg.
type ProviderFactory func(cfg *config.Config, apiKey string) session.Completer

// Options configures a chat Model.
type Options struct {
	// Context bounds every request. Defaults to context.Background().
	Context context.Context

	Config  *config.Config
	Session *session.Session
	Theme   *styles.Theme
	Logger  *logging.Logger

	// NewProvider is called when a key is entered or the config changes.
	NewProvider ProviderFactory

	// SaveKey persists a key entered on the key screen. Optional.
	SaveKey func(apiKey string) error

	// Reloads delivers config file changes. Optional.
	Reloads <-chan config.Reload

	// Clipboard replaces the system clipboard, mainly for tests.
	Clipboard func(text string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen and the key screen in
// front of it.
type Model struct {
	ctx   context.Context
	cfg   *config.Config
	sess  *session.Session
	theme *styles.Theme
	list  *components.MessageList
	log   *logging.Logger

	newProvider ProviderFactory
	saveKey     func(string) error
	clipboard   func(string) error
	reloads     <-chan config.Reload

	registry *commands.Registry
	keys     KeyMap
	help     help.Model
	input    textinput.Model
	keyInput textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	screen   screen
	keyErr   string
	status   string
	partial  string
	waiting  bool
	showHelp bool

	width  int
	height int

	// Shared across model copies.
	stream *StreamingBuffer
	cancel *cancelManager
}

// New creates the chat model. The key screen is shown first when the
// session has no provider yet.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.PaletteFor(string(opts.Session.Tone())))
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = copyToClipboard
	}

	m := Model{
		ctx:         ctx,
		cfg:         cfg,
		sess:        opts.Session,
		theme:       theme,
		list:        components.NewMessageList(theme, cfg.Chat.BotName),
		log:         log,
		newProvider: opts.NewProvider,
		saveKey:     opts.SaveKey,
		clipboard:   clip,
		reloads:     opts.Reloads,
		registry:    commands.NewRegistry(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:    viewport.New(defaultWidth, defaultHeight),
		stream:      NewStreamingBuffer(),
		cancel:      newCancelManager(),
		width:       defaultWidth,
		height:      defaultHeight,
	}

	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.CharLimit = 0

	m.keyInput = textinput.New()
	m.keyInput.Placeholder = components.KeyPromptPlaceholder
	m.keyInput.EchoMode = textinput.EchoPassword
	m.keyInput.EchoCharacter = '•'
	m.keyInput.Prompt = "> "
	m.keyInput.Width = 48

	m.applyPresentation(cfg)

	if opts.Session.HasProvider() {
		m.screen = screenChat
		m.input.Focus()
	} else {
		m.screen = screenKeyPrompt
		m.keyInput.Focus()
	}

	m.layout()
	return m
}

// Init starts the cursor blink and the config reload listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForReload(m.reloads))
}

// applyPresentation copies the display settings of cfg into the widgets.
func (m *Model) applyPresentation(cfg *config.Config) {
	m.list.BotName = cfg.Chat.BotName
	m.list.ShowTimestamps = cfg.UI.ShowTimestamps
	m.list.Highlight = cfg.UI.HighlightCode
	m.list.ListNumbering, _ = components.ParseListNumbering(cfg.UI.ListNumbering)

	m.input.Placeholder = cfg.Chat.InputPlaceholder
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.Placeholder
	m.keyInput.PromptStyle = m.theme.InputPrompt
	m.keyInput.PlaceholderStyle = m.theme.Placeholder
	m.spinner.Style = m.theme.Typing
}

// Session returns the session driven by the model.
func (m Model) Session() *session.Session {
	return m.sess
}

// Waiting reports whether a reply is outstanding.
func (m Model) Waiting() bool {
	return m.waiting
}

// provider builds a provider, or returns nil when no factory was given.
func (m *Model) provider(apiKey string) session.Completer {
	if m.newProvider == nil {
		return nil
	}
	return m.newProvider(m.cfg, apiKey)
}
