// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the gaia command line.
//
// Commands:
//
//	gaia                      full-screen chat (same as gaia tui)
//	gaia chat                 line-mode chat with input history
//	gaia ask "question"       one-shot question, reply on stdout
//	gaia render [file]        render markdown the way replies are shown
//	gaia history list|show|delete|export
//	gaia config show|path|keys|get|set|set-key
//
// Every command reads ~/.gaia/config.toml (or --config), then applies
// GAIA_* environment overrides and the --tone and --model flags. Errors
// are mapped to exit codes by ExitCode.
package cli
