// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/config"
	"github.com/jeranaias/gaia-tui/internal/logging"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/storage"
	"github.com/jeranaias/gaia-tui/internal/ui/styles"
)

// Version information (set at build time via -ldflags).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL OPTIONS
// =============================================================================

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	tone       string
	model      string
	noColor    bool
	verbose    bool
}

// app is everything a command needs after flags and config are resolved.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     *logging.Logger
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the gaia command tree. Without a subcommand it
// starts the full-screen chat.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "gaia",
		Short: "Chat with an AI assistant in your terminal",
		Long: `gaia is a terminal chat client for OpenAI-compatible APIs.

Replies are rendered with a small markdown subset: headings, paragraphs,
fenced code blocks, bulleted and numbered lists, inline code, bold and
italic. Run without a command to open the full-screen chat.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor || os.Getenv("NO_COLOR") != "" {
				styles.DisableColor()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.gaia/config.toml)")
	flags.StringVar(&opts.tone, "tone", "", "assistant tone: Neutral, Condescending or Agreeable")
	flags.StringVar(&opts.model, "model", "", "model name sent to the API")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details to the log file")

	tui := newTUICommand(opts)
	root.RunE = tui.RunE
	root.Flags().AddFlagSet(tui.Flags())

	root.AddCommand(
		tui,
		newChatCommand(opts),
		newAskCommand(opts),
		newRenderCommand(opts),
		newHistoryCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// Execute runs the CLI and exits with a code describing the failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(ExitCode(err))
	}
}

// =============================================================================
// APP SETUP
// =============================================================================

// load resolves the config file, applies environment and flag overrides
// and opens the log.
func (o *globalOptions) load() (*app, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	var cfg *config.Config
	if _, statErr := os.Stat(path); statErr == nil {
		cfg, err = config.LoadFromPath(path)
	} else {
		// A missing file means defaults; it is created on first save.
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
		err = cfg.Validate()
	}
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	if o.tone != "" {
		tone, ok := model.ParseTone(o.tone)
		if !ok {
			return nil, &UsageError{Msg: fmt.Sprintf("unknown tone %q, want one of %s", o.tone, toneNames())}
		}
		cfg.Chat.Tone = string(tone)
	}
	if o.model != "" {
		cfg.Provider.Model = o.model
	}
	styles.ApplyThemeMode(cfg.UI.Theme)

	mode := cfg.Log.Mode
	if o.verbose {
		mode = "dev"
	}
	log, err := logging.New(mode, cfg.LogPath())
	if err != nil {
		// Logging is best effort; the chat still works without it.
		log = logging.Nop()
	}

	return &app{cfg: cfg, cfgPath: path, log: log}, nil
}

// resolveConfigPath returns the file that settings are read from and saved
// to: the --config flag, else an existing config.toml or config.json, else
// config.toml.
func (o *globalOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return filepath.Abs(o.configPath)
	}
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := config.ConfigPathJSON()
	if err == nil {
		if _, err := os.Stat(jsonPath); err == nil {
			return jsonPath, nil
		}
	}
	return tomlPath, nil
}

func toneNames() string {
	names := make([]string, 0, len(model.Tones))
	for _, t := range model.Tones {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

// close flushes the log.
func (a *app) close() {
	a.log.Sync()
}

// newClient builds the provider client for apiKey from the provider settings.
func (a *app) newClient(cfg *config.Config, apiKey string) *cloud.Client {
	p := cfg.Provider
	return cloud.NewClient(apiKey).
		WithBaseURL(p.BaseURL).
		WithModel(p.Model).
		WithTemperature(p.Temperature).
		WithMaxTokens(p.MaxTokens).
		WithTimeout(time.Duration(p.TimeoutSecs) * time.Second).
		WithMaxRetries(p.MaxRetries).
		WithRateLimit(p.RequestsPerMinute).
		WithLogger(a.log)
}

// openStore opens the transcript database, or returns nil when storage is
// disabled.
func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	if !a.cfg.Storage.Enabled {
		return nil, nil
	}
	store, err := storage.Open(ctx, a.cfg.StoragePath())
	if err != nil {
		return nil, fmt.Errorf("open transcript store: %w", err)
	}
	return store, nil
}

// newConversation starts a conversation with the configured tone, model and
// history limit.
func (a *app) newConversation(welcome string) *model.Conversation {
	tone, _ := model.ParseTone(a.cfg.Chat.Tone)
	conv := model.NewConversation(tone, welcome)
	conv.Model = a.cfg.Provider.Model
	conv.MaxHistory = a.cfg.Chat.MaxMessageHistory
	return conv
}

// saveAPIKey writes apiKey to the config file.
func (a *app) saveAPIKey(apiKey string) error {
	return writeAPIKey(a.cfgPath, apiKey)
}

// writeAPIKey stores apiKey in the file at path without baking in any
// environment overrides.
func writeAPIKey(path, apiKey string) error {
	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}
	cfg.Provider.APIKey = strings.TrimSpace(apiKey)
	if err := config.Save(cfg, path); err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

// loadFileConfig reads only what is in the file at path, over the defaults.
func loadFileConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	var err error
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = config.LoadJSON(cfg, path)
	} else {
		err = config.LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return cfg, nil
}
