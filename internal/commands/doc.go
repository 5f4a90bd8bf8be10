// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash commands shared by the full-screen
// and line-mode chats.
//
// A Registry parses input such as "/tone agreeable" into a ParseResult
// whose Command.Action tells the front end what to do. Complete offers tab
// completion for command names and enumerated arguments.
//
//	reg := commands.NewRegistry()
//	res := reg.Parse(input)
//	if res.IsCommand && res.Error == nil {
//	    switch res.Command.Action {
//	    case commands.ActionTone:
//	        ...
//	    }
//	}
package commands
