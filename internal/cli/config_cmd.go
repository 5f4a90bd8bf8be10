// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func newConfigCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (API key masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", a.cfgPath, a.cfg)
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.resolveConfigPath()
			if err != nil {
				return &ConfigError{Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	keys := &cobra.Command{
		Use:   "keys",
		Short: "List the settable keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range config.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
		},
	}

	get := &cobra.Command{
		Use:   "get <section.key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.close()
			v, err := a.cfg.Redacted().Get(args[0])
			if err != nil {
				return &UsageError{Msg: err.Error()}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <section.key> <value>",
		Short: "Change one setting in the config file",
		Example: `  gaia config set chat.tone Agreeable
  gaia config set ui.list_numbering sequential`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(opts, cmd.OutOrStdout(), args[0], args[1])
		},
	}

	setKey := &cobra.Command{
		Use:   "set-key",
		Short: "Prompt for an API key and save it",
		Long: `Prompt for an API key and save it to the config file.

Input is hidden when stdin is a terminal. Otherwise the first line of stdin
is used, so the key can be piped in. Keys are created at ` + keyURL,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, err := readAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return saveKey(opts, cmd.OutOrStdout(), apiKey)
		},
	}

	cmd.AddCommand(show, path, keys, get, set, setKey)
	return cmd
}

const keyURL = "https://platform.openai.com/api-keys"

func setConfigValue(opts *globalOptions, out io.Writer, key, value string) error {
	path, err := opts.resolveConfigPath()
	if err != nil {
		return &ConfigError{Err: err}
	}
	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Msg: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.Save(cfg, path); err != nil {
		return &ConfigError{Err: err}
	}
	fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Saved"), key)
	return nil
}

// readAPIKey reads a key with echo off from a terminal, or one line from
// a pipe.
func readAPIKey(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Enter Your OpenAI API Key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read key: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func saveKey(opts *globalOptions, out io.Writer, apiKey string) error {
	if err := cloud.ValidateAPIKey(apiKey); err != nil {
		return err
	}
	path, err := opts.resolveConfigPath()
	if err != nil {
		return &ConfigError{Err: err}
	}
	if err := writeAPIKey(path, apiKey); err != nil {
		return err
	}
	// SECURITY: echo only the fingerprint, never the key.
	fmt.Fprintf(out, "%s %s to %s\n", SuccessStyle.Render("Saved key"), cloud.MaskKey(apiKey), path)
	return nil
}
