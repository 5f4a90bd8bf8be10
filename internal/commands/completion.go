// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMPLETION
// =============================================================================

// Complete returns the full input lines that input could complete to,
// best match first. Only command names and enumerated argument values are
// completed.
func (r *Registry) Complete(input string) []string {
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	parts := splitCommandLine(input)
	trailingSpace := strings.HasSuffix(input, " ")

	// Still typing the command name.
	if len(parts) <= 1 && !trailingSpace {
		partial := input
		var out []string
		for _, cmd := range r.order {
			if cmd.Hidden {
				continue
			}
			if hasPrefixFold(cmd.Name, partial) {
				out = append(out, cmd.Name)
			}
		}
		return out
	}

	cmd := r.Get(parts[0])
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := ""
	if trailingSpace {
		argIndex++
	} else {
		partial = parts[len(parts)-1]
	}
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	prefix := strings.Join(parts[:argIndex+1], " ") + " "
	var out []string
	for _, v := range cmd.Args[argIndex].Values {
		if hasPrefixFold(v, partial) {
			out = append(out, prefix+v)
		}
	}
	return out
}

// CommonPrefix returns the longest case-sensitive prefix shared by all
// candidates.
func CommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	first, last := sorted[0], sorted[len(sorted)-1]
	i := 0
	for i < len(first) && i < len(last) && first[i] == last[i] {
		i++
	}
	return first[:i]
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
