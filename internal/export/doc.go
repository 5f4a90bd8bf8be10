// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes saved conversations to Markdown or JSON files.
//
// # Usage
//
//	exp, err := export.New("markdown", &export.Options{IncludeMetadata: true})
//	if err != nil {
//	    return err
//	}
//	path, err := export.ToFile(conv, exp, ".", time.Now())
//
// Markdown exports start with YAML front matter (title, tone, model and
// dates) and give each message a level-three heading. JSON exports are the
// conversation structure itself. Welcome greetings are left out unless
// Options.IncludeWelcome is set.
package export
