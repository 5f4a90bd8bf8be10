// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Header bar and prompt box background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#181825"}

// Border - Bubble borders and separators
var Border = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#CDD6F4"}

// TextSecondary - Hints and secondary labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#A6ADC8"}

// TextMuted - Timestamps, footer and placeholders
var TextMuted = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#6C7086"}

// TextOnAccent - Text drawn on pastel tone backgrounds
var TextOnAccent = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#11111B"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Danger - Validation errors and failed requests
var Danger = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}

// Link - URLs shown in hints
var Link = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#89B4FA"}

// =============================================================================
// INLINE CODE
// =============================================================================

// CodeBg - Inline code tint inside assistant bubbles
var CodeBg = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#313244"}

// CodeBgOnAccent - Inline code tint inside user bubbles
var CodeBgOnAccent = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#585B70"}

// =============================================================================
// TERMINAL MODES
// =============================================================================

// ApplyThemeMode forces the light or dark variant of every AdaptiveColor.
// "auto" (or anything else) keeps lipgloss background detection.
func ApplyThemeMode(mode string) {
	switch strings.ToLower(mode) {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// DisableColor strips all color and attributes from rendered output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
