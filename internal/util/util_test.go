// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// =============================================================================
// FILE TESTS
// =============================================================================

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	if err := WriteFileAtomic(path, []byte("first"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("perm = %o, want 600", perm)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".gaia-tmp-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestStringWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"日本語", 6},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.in); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 0, ""},
		{"hello", 2, "he"},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := TruncateWidth(tt.in, tt.width); got != tt.want {
			t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestSplitWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"abc", 5, []string{"abc"}},
		{"abcdefg", 3, []string{"abc", "def", "g"}},
		{"日本語", 4, []string{"日本", "語"}},
		{"日本", 1, []string{"日", "本"}},
		{"abc", 0, []string{"abc"}},
	}
	for _, tt := range tests {
		got := SplitWidth(tt.in, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("SplitWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestNormalizeInput(t *testing.T) {
	decomposed := "e\u0301"
	if got := NormalizeInput(decomposed); got != "\u00e9" {
		t.Errorf("NormalizeInput(%q) = %q, want composed é", decomposed, got)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize("  what   is\nthe weather\ttoday?  ", 100)
	if got != "what is the weather today?" {
		t.Errorf("Summarize() = %q", got)
	}
	if got := Summarize("a very long question about many things", 12); got != "a very lo..." {
		t.Errorf("Summarize() truncated = %q", got)
	}
}
