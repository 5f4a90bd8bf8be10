// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownCommand is returned for a slash command nothing is registered
// under.
var ErrUnknownCommand = errors.New("unknown command")

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing user input.
type ParseResult struct {
	// IsCommand is true if the input starts with /
	IsCommand bool

	// Command is the matched command (nil if not found)
	Command *Command

	// CommandName is the raw command name (e.g., "/help")
	CommandName string

	// Args are the parsed arguments
	Args []string

	// Error is set when the command is unknown or its arguments are invalid.
	Error error
}

// =============================================================================
// PARSER
// =============================================================================

// Parse parses user input. Input that does not start with / is not a
// command and is returned with IsCommand false.
func (r *Registry) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ParseResult{}
	}

	result := ParseResult{IsCommand: true}
	parts := splitCommandLine(input)
	if len(parts) == 0 {
		result.Error = fmt.Errorf("%w: /", ErrUnknownCommand)
		return result
	}

	result.CommandName = parts[0]
	result.Args = parts[1:]
	result.Command = r.Get(result.CommandName)
	if result.Command == nil {
		result.Error = fmt.Errorf("%w: %s", ErrUnknownCommand, result.CommandName)
		return result
	}
	result.Error = ValidateArgs(result.Command, result.Args)
	return result
}

// IsCommand returns true if the input appears to be a command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

// splitCommandLine splits a command line into tokens, respecting single
// and double quotes. Inside quotes a backslash escapes a quote or a
// backslash.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingle, inDouble, escaped, quoted bool

	flush := func() {
		if current.Len() > 0 || quoted {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		quoted = false
	}

	for _, r := range input {
		switch {
		case escaped:
			if r != '"' && r != '\'' && r != '\\' {
				current.WriteRune('\\')
			}
			current.WriteRune(r)
			escaped = false

		case r == '\\' && (inSingle || inDouble):
			escaped = true

		case r == '\'' && !inDouble:
			inSingle = !inSingle
			quoted = true

		case r == '"' && !inSingle:
			inDouble = !inDouble
			quoted = true

		case unicode.IsSpace(r) && !inSingle && !inDouble:
			flush()

		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	flush()
	return tokens
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateArgs validates arguments against a command's argument definitions.
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}
	if len(args) > len(cmd.Args) {
		return &ValidationError{
			Command: cmd.Name,
			Message: "too many arguments",
			Got:     strings.Join(args[len(cmd.Args):], " "),
		}
	}

	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{
					Command:  cmd.Name,
					Arg:      def.Name,
					Message:  "required argument missing",
					Expected: def.Description,
				}
			}
			continue
		}
		if len(def.Values) > 0 && !containsFold(def.Values, args[i]) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid value",
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// ValidationError represents an argument validation error.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Command)
	if e.Arg != "" {
		sb.WriteString(" " + e.Arg)
	}
	sb.WriteString(": " + e.Message)
	if e.Got != "" {
		fmt.Fprintf(&sb, " %q", e.Got)
	}
	if e.Expected != "" {
		sb.WriteString(" (expected " + e.Expected + ")")
	}
	return sb.String()
}
