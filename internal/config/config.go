// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gaia configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider" json:"provider"`
	Chat     ChatConfig     `toml:"chat" json:"chat"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Storage  StorageConfig  `toml:"storage" json:"storage"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// ProviderConfig describes the chat completions endpoint.
type ProviderConfig struct {
	BaseURL string `toml:"base_url" json:"base_url"`
	APIKey  string `toml:"api_key" json:"api_key"`
	Model   string `toml:"model" json:"model"`

	Temperature float64 `toml:"temperature" json:"temperature"`
	MaxTokens   int     `toml:"max_tokens" json:"max_tokens"`

	TimeoutSecs       int  `toml:"timeout_secs" json:"timeout_secs"`
	MaxRetries        int  `toml:"max_retries" json:"max_retries"`
	RequestsPerMinute int  `toml:"requests_per_minute" json:"requests_per_minute"`
	Stream            bool `toml:"stream" json:"stream"`
}

// ChatConfig holds the conversation text and persona.
type ChatConfig struct {
	BotName          string `toml:"bot_name" json:"bot_name"`
	WelcomeMessage   string `toml:"welcome_message" json:"welcome_message"`
	InputPlaceholder string `toml:"input_placeholder" json:"input_placeholder"`
	Tone             string `toml:"tone" json:"tone"`

	// MaxMessageHistory caps the earlier messages sent per request (0 = all).
	MaxMessageHistory int `toml:"max_message_history" json:"max_message_history"`

	ErrorReply string `toml:"error_reply" json:"error_reply"`
}

// UIConfig contains terminal display preferences.
type UIConfig struct {
	ShowTimestamps      bool   `toml:"show_timestamps" json:"show_timestamps"`
	ShowTypingIndicator bool   `toml:"show_typing_indicator" json:"show_typing_indicator"`
	ListNumbering       string `toml:"list_numbering" json:"list_numbering"` // position, sequential, source
	HighlightCode       bool   `toml:"highlight_code" json:"highlight_code"`
	Theme               string `toml:"theme" json:"theme"` // auto, dark, light
}

// StorageConfig controls the transcript database.
type StorageConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Path    string `toml:"path" json:"path"` // empty = ~/.gaia/history.db
}

// LogConfig controls the log file.
type LogConfig struct {
	Mode string `toml:"mode" json:"mode"` // dev, prod
	Path string `toml:"path" json:"path"` // empty = ~/.gaia/gaia.log
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:     cloud.DefaultBaseURL,
			Model:       cloud.DefaultModel,
			Temperature: cloud.DefaultTemperature,
			TimeoutSecs: int(cloud.DefaultTimeout / time.Second),
			MaxRetries:  cloud.DefaultMaxRetries,
		},
		Chat: ChatConfig{
			BotName:          "gAIa",
			WelcomeMessage:   "Hello! I'm gaia, your AI assistant. How can I help you today?",
			InputPlaceholder: "Type your message...",
			Tone:             string(model.ToneNeutral),
			ErrorReply:       "Sorry, I encountered an error. Please try again.",
		},
		UI: UIConfig{
			ShowTimestamps:      true,
			ShowTypingIndicator: true,
			ListNumbering:       "position",
			HighlightCode:       true,
			Theme:               "auto",
		},
		Storage: StorageConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the gaia configuration directory. GAIA_HOME overrides
// the default ~/.gaia.
func ConfigDir() (string, error) {
	if dir := os.Getenv("GAIA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gaia"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// inConfigDir resolves name against ConfigDir, or returns override if set.
func inConfigDir(override, name string) string {
	if override != "" {
		return override
	}
	dir, err := ConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// StoragePath returns the transcript database path.
func (c *Config) StoragePath() string {
	return inConfigDir(c.Storage.Path, "history.db")
}

// LogPath returns the log file path.
func (c *Config) LogPath() string {
	return inConfigDir(c.Log.Path, "gaia.log")
}

// HistoryPath returns the line-mode REPL history file path.
func HistoryPath() string {
	return inConfigDir("", "chat_history")
}

// ensureSecurePermissions tightens a config file to 0600.
// SECURITY: The file may hold an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.gaia/config.toml, falling back to config.json and then to the
// defaults. A missing file is not an error. Environment overrides are
// applied last, then the result is validated.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file. Files ending in
// .json are decoded as JSON, everything else as TOML. Keys absent from the
// file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	// SECURITY: Tighten permissions before reading a file that may hold a key.
	_ = ensureSecurePermissions(path)

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	_ = ensureSecurePermissions(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// fillDefaults restores defaults for text settings that were explicitly
// emptied in the file.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if strings.TrimSpace(cfg.Provider.BaseURL) == "" {
		cfg.Provider.BaseURL = defaults.Provider.BaseURL
	}
	cfg.Provider.BaseURL = strings.TrimRight(cfg.Provider.BaseURL, "/")
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = defaults.Provider.Model
	}
	if cfg.Provider.TimeoutSecs == 0 {
		cfg.Provider.TimeoutSecs = defaults.Provider.TimeoutSecs
	}

	if cfg.Chat.BotName == "" {
		cfg.Chat.BotName = defaults.Chat.BotName
	}
	if cfg.Chat.InputPlaceholder == "" {
		cfg.Chat.InputPlaceholder = defaults.Chat.InputPlaceholder
	}
	if cfg.Chat.Tone == "" {
		cfg.Chat.Tone = defaults.Chat.Tone
	}
	if cfg.Chat.ErrorReply == "" {
		cfg.Chat.ErrorReply = defaults.Chat.ErrorReply
	}

	if cfg.UI.ListNumbering == "" {
		cfg.UI.ListNumbering = defaults.UI.ListNumbering
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = defaults.Log.Mode
	}

	// Canonical tone spelling so lookups are exact.
	if tone, ok := model.ParseTone(cfg.Chat.Tone); ok {
		cfg.Chat.Tone = string(tone)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path (the default TOML path when empty).
// SECURITY: The file is written atomically with 0600 permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPathTOML()
		if err != nil {
			return err
		}
		path = p
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with a short header.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# gaia configuration file\n")
	buf.WriteString("# Generated by gaia - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validNumbering = map[string]bool{"position": true, "sequential": true, "source": true}
	validThemes    = map[string]bool{"auto": true, "dark": true, "light": true}
	validLogModes  = map[string]bool{"dev": true, "development": true, "prod": true, "production": true}
)

// Validate checks every setting and returns all problems at once as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// ==========================================================================
	// Provider
	// ==========================================================================

	if u, err := url.Parse(c.Provider.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("provider.base_url", "invalid URL '%s', must be http(s)://host[/path]", c.Provider.BaseURL)
	}
	if c.Provider.APIKey != "" {
		if err := cloud.ValidateAPIKey(c.Provider.APIKey); err != nil {
			add("provider.api_key", "%v", err)
		}
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		add("provider.temperature", "must be between 0 and 2, got %v", c.Provider.Temperature)
	}
	if c.Provider.MaxTokens < 0 {
		add("provider.max_tokens", "must not be negative")
	}
	if c.Provider.TimeoutSecs < 1 || c.Provider.TimeoutSecs > 600 {
		add("provider.timeout_secs", "must be between 1 and 600, got %d", c.Provider.TimeoutSecs)
	}
	if c.Provider.MaxRetries < 0 || c.Provider.MaxRetries > 10 {
		add("provider.max_retries", "must be between 0 and 10, got %d", c.Provider.MaxRetries)
	}
	if c.Provider.RequestsPerMinute < 0 {
		add("provider.requests_per_minute", "must not be negative")
	}

	// ==========================================================================
	// Chat
	// ==========================================================================

	if strings.TrimSpace(c.Chat.BotName) == "" {
		add("chat.bot_name", "must not be empty")
	}
	if _, ok := model.ParseTone(c.Chat.Tone); !ok {
		add("chat.tone", "invalid tone '%s', must be one of: Neutral, Condescending, Agreeable", c.Chat.Tone)
	}
	if c.Chat.MaxMessageHistory < 0 {
		add("chat.max_message_history", "must not be negative")
	}

	// ==========================================================================
	// UI and logging
	// ==========================================================================

	if !validNumbering[strings.ToLower(c.UI.ListNumbering)] {
		add("ui.list_numbering", "invalid mode '%s', must be one of: position, sequential, source", c.UI.ListNumbering)
	}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		add("ui.theme", "invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme)
	}
	if !validLogModes[strings.ToLower(c.Log.Mode)] {
		add("log.mode", "invalid mode '%s', must be one of: dev, prod", c.Log.Mode)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - GAIA_API_KEY (or OPENAI_API_KEY): provider.api_key
//   - GAIA_MODEL: provider.model
//   - GAIA_BASE_URL: provider.base_url
//   - GAIA_TONE: chat.tone
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if key := os.Getenv("GAIA_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if m := os.Getenv("GAIA_MODEL"); m != "" {
		c.Provider.Model = m
	}
	if u := os.Getenv("GAIA_BASE_URL"); u != "" {
		c.Provider.BaseURL = strings.TrimRight(u, "/")
	}
	if t := os.Getenv("GAIA_TONE"); t != "" {
		if tone, ok := model.ParseTone(t); ok {
			c.Chat.Tone = string(tone)
		} else {
			c.Chat.Tone = t
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by dotted key, e.g. "chat.tone".
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value by dotted key. String values are converted to the
// field's type.
func (c *Config) Set(key string, value any) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	if key == "" || len(parts) != 2 {
		return reflect.Value{}, fmt.Errorf("invalid key %q, want section.name", key)
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", part)
		}
		v = field
	}
	return reflect.Value{}, errors.New("unreachable")
}

// normalizeFieldName converts snake_case or kebab-case to the Go field name.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue assigns value to field, parsing strings as needed.
func setFieldValue(field reflect.Value, value any) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int:
			n, err := strconv.Atoi(strings.TrimSpace(strVal))
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(int64(n))
			return nil
		case reflect.Float64:
			f, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %w", err)
			}
			field.SetFloat(f)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(strings.TrimSpace(strVal))
			if err != nil {
				return fmt.Errorf("invalid boolean value: %w", err)
			}
			field.SetBool(b)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.IsValid() && val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.IsValid() && val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys lists every settable key in dot notation.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// Redacted returns a copy safe to print: the API key is masked.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Provider.APIKey != "" {
		out.Provider.APIKey = cloud.MaskKey(out.Provider.APIKey)
	}
	return &out
}

// String renders the redacted configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Redacted()); err != nil {
		return fmt.Sprintf("config encode error: %v", err)
	}
	return buf.String()
}
