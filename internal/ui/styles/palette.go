// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// TONE PALETTES
// =============================================================================

// Palette is the accent color set of one conversation tone.
type Palette struct {
	Name string

	// Primary tints headings and the header bar.
	Primary lipgloss.Color
	// Secondary tints list markers and the typing indicator.
	Secondary lipgloss.Color
	// UserBg fills user bubbles; the dark variant is used on dark terminals.
	UserBg lipgloss.AdaptiveColor
}

// Built-in palettes, keyed by tone name.
var (
	NeutralPalette = Palette{
		Name:      "Neutral",
		Primary:   lipgloss.Color("#a8c5e8"), // Soft Blue
		Secondary: lipgloss.Color("#c8b8db"), // Light Purple
		UserBg:    lipgloss.AdaptiveColor{Light: "#a8c5e8", Dark: "#8bb3d9"},
	}

	CondescendingPalette = Palette{
		Name:      "Condescending",
		Primary:   lipgloss.Color("#f5a5a5"), // Soft Red
		Secondary: lipgloss.Color("#ffc1a8"), // Peach
		UserBg:    lipgloss.AdaptiveColor{Light: "#f5a5a5", Dark: "#e88d8d"},
	}

	AgreeablePalette = Palette{
		Name:      "Agreeable",
		Primary:   lipgloss.Color("#b8e6b8"), // Soft Green
		Secondary: lipgloss.Color("#a8d8c8"), // Mint
		UserBg:    lipgloss.AdaptiveColor{Light: "#b8e6b8", Dark: "#9dd49d"},
	}
)

var palettes = map[string]Palette{
	NeutralPalette.Name:       NeutralPalette,
	CondescendingPalette.Name: CondescendingPalette,
	AgreeablePalette.Name:     AgreeablePalette,
}

// PaletteFor returns the palette of the named tone, or NeutralPalette when
// the name is unknown.
func PaletteFor(tone string) Palette {
	if p, ok := palettes[tone]; ok {
		return p
	}
	return NeutralPalette
}
