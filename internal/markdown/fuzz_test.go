// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file contains fuzz tests for the block segmenter and inline formatter.
// Run with: go test -fuzz=FuzzSegment ./internal/markdown/
package markdown

import (
	"strings"
	"sync"
	"testing"
)

func FuzzSegment(f *testing.F) {
	f.Add("")
	f.Add("# Title\n- a\n- b")
	f.Add("Hi\n```go\nx := 1\n```\nBye")
	f.Add("```\nunterminated")
	f.Add("1. one\n2. two\n\npara\r\nmore")
	f.Add("   ```\n```\n```")
	f.Add("-　wide space")

	f.Fuzz(func(t *testing.T, input string) {
		blocks := Segment(input)
		assertLineBound(t, input)

		for _, b := range blocks {
			switch blk := b.(type) {
			case Heading:
				if blk.Level < 1 || blk.Level > 3 {
					t.Fatalf("heading level %d out of range", blk.Level)
				}
			case Paragraph:
				if strings.TrimSpace(blk.Text) == "" {
					t.Fatalf("blank paragraph from %q", input)
				}
			case ListItem:
				if !blk.Ordered && blk.Number != 0 {
					t.Fatalf("unordered item with number %d", blk.Number)
				}
			}
		}
	})
}

func FuzzFormat(f *testing.F) {
	f.Add("")
	f.Add("**a `b**c` d**")
	f.Add("**bold *not-italic* still-bold**")
	f.Add("``a`")
	f.Add("*****")
	f.Add("`*`**`**")

	f.Fuzz(func(t *testing.T, input string) {
		spans := Format(input)
		if len(spans) == 0 {
			t.Fatal("Format returned no spans")
		}
		if got := markup(spans); got != input {
			t.Fatalf("markup(Format(%q)) = %q", input, got)
		}
		for i, s := range spans {
			switch v := s.(type) {
			case Code:
				if v == "" || strings.Contains(string(v), codeDelim) {
					t.Fatalf("bad code span %q", v)
				}
			case Bold:
				if v == "" {
					t.Fatal("empty bold span")
				}
			case Italic:
				if v == "" || strings.Contains(string(v), italicDelim) {
					t.Fatalf("bad italic span %q", v)
				}
			case Text:
				if i > 0 {
					if _, prev := spans[i-1].(Text); prev {
						t.Fatalf("adjacent text spans in %q", input)
					}
				}
			}
		}
	})
}

func TestConcurrentUse(t *testing.T) {
	const input = "# Head\nsome **bold** and `code`\n- item *one*\n```go\nfmt.Println()\n```"
	wantBlocks := Segment(input)
	wantSpans := Format(input)

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if len(Segment(input)) != len(wantBlocks) {
				errs <- "segment mismatch"
			}
			if markup(Format(input)) != markup(wantSpans) {
				errs <- "format mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
