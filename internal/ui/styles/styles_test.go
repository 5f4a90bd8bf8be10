// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// PALETTE TESTS
// =============================================================================

func TestPaletteFor(t *testing.T) {
	tests := []struct {
		tone string
		want Palette
	}{
		{"Neutral", NeutralPalette},
		{"Condescending", CondescendingPalette},
		{"Agreeable", AgreeablePalette},
		{"", NeutralPalette},
		{"Sarcastic", NeutralPalette},
		{"neutral", NeutralPalette},
	}

	for _, tt := range tests {
		if got := PaletteFor(tt.tone); got != tt.want {
			t.Errorf("PaletteFor(%q) = %s, want %s", tt.tone, got.Name, tt.want.Name)
		}
	}
}

func TestPaletteColors(t *testing.T) {
	if CondescendingPalette.Primary != lipgloss.Color("#f5a5a5") {
		t.Errorf("Condescending primary = %s", CondescendingPalette.Primary)
	}
	if AgreeablePalette.UserBg.Dark != "#9dd49d" {
		t.Errorf("Agreeable dark user background = %s", AgreeablePalette.UserBg.Dark)
	}
	for _, p := range []Palette{NeutralPalette, CondescendingPalette, AgreeablePalette} {
		if p.Primary == "" || p.Secondary == "" || p.UserBg.Light == "" || p.UserBg.Dark == "" {
			t.Errorf("palette %s has an empty color", p.Name)
		}
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme(AgreeablePalette)
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
	if theme.Palette.Name != "Agreeable" {
		t.Errorf("Palette = %s, want Agreeable", theme.Palette.Name)
	}
	if theme.UserBubble.Render("hi") == "" {
		t.Error("UserBubble should render")
	}
}

func TestThemeSetPalette(t *testing.T) {
	theme := NewTheme(NeutralPalette)
	theme.SetPalette(CondescendingPalette)

	if theme.Palette.Name != "Condescending" {
		t.Errorf("Palette = %s, want Condescending", theme.Palette.Name)
	}
	if got := theme.BotName.GetForeground(); got != CondescendingPalette.Primary {
		t.Errorf("BotName foreground = %v, want %v", got, CondescendingPalette.Primary)
	}
}

func TestBubbleWidth(t *testing.T) {
	theme := NewTheme(NeutralPalette)

	theme.SetSize(100, 40)
	if got := theme.BubbleWidth(); got != 70 {
		t.Errorf("BubbleWidth() = %d, want 70", got)
	}

	theme.SetSize(10, 40)
	if got := theme.BubbleWidth(); got != 20 {
		t.Errorf("BubbleWidth() narrow = %d, want 20", got)
	}
}

func TestNewMarkdownStyles(t *testing.T) {
	assistant := NewMarkdownStyles(NeutralPalette, false)
	user := NewMarkdownStyles(NeutralPalette, true)

	if assistant.InlineCode.GetBackground() != CodeBg {
		t.Error("assistant inline code should use CodeBg")
	}
	if user.InlineCode.GetBackground() != CodeBgOnAccent {
		t.Error("user inline code should use CodeBgOnAccent")
	}
	if !assistant.Bold.GetBold() || !assistant.Italic.GetItalic() {
		t.Error("bold and italic styles should set their attributes")
	}
}
