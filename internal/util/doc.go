// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the gaia packages.
//
// # Key Functions
//
// Text:
//   - StringWidth, TruncateWidth, SplitWidth: terminal column math on
//     top of go-runewidth, so CJK and emoji take their real width
//   - NormalizeInput: NFC normalisation of typed or pasted user input
//   - Summarize: one-line title for a conversation
//
// Files:
//   - WriteFileAtomic: crash-safe write with fsync and rename
//
// # Usage
//
//	title := util.Summarize(firstPrompt, 48)
//	if err := util.WriteFileAtomic(path, data, 0600); err != nil {
//	    return err
//	}
package util
