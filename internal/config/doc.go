// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for gaia.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, validation and live reload.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GAIA_API_KEY, OPENAI_API_KEY, GAIA_MODEL,
//     GAIA_BASE_URL, GAIA_TONE)
//   - ~/.gaia/config.toml
//   - ~/.gaia/config.json
//   - Built-in defaults
//
// GAIA_HOME moves the whole ~/.gaia directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//
// There is no process-wide instance: the loaded *Config is passed to the
// components that need it. A Watcher delivers a freshly loaded *Config each
// time the file changes on disk.
package config
