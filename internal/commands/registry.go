// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/gaia-tui/internal/model"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Action identifies what a command does. Front ends switch on it.
type Action int

const (
	ActionHelp Action = iota
	ActionQuit
	ActionNew
	ActionTone
	ActionCopy
)

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/tone [name]")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	Action Action

	// Hidden commands don't appear in help
	Hidden bool
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Description string

	// Values, when set, is the closed set of accepted values.
	Values []string
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry. Names are case-insensitive.
func (r *Registry) Register(cmd *Command) {
	name := strings.ToLower(cmd.Name)
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, cmd)
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[strings.ToLower(alias)] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	return r.aliases[name]
}

// All returns all registered commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, len(r.order))
	copy(out, r.order)
	return out
}

// HelpLines returns one aligned "usage  description" line per visible
// command.
func (r *Registry) HelpLines() []string {
	width := 0
	for _, cmd := range r.order {
		if !cmd.Hidden {
			width = max(width, runewidth.StringWidth(cmd.usage()))
		}
	}

	lines := make([]string, 0, len(r.order))
	for _, cmd := range r.order {
		if cmd.Hidden {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %s", runewidth.FillRight(cmd.usage(), width), cmd.Description))
	}
	return lines
}

func (c *Command) usage() string {
	if c.Usage != "" {
		return c.Usage
	}
	return c.Name
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	tones := make([]string, len(model.Tones))
	for i, t := range model.Tones {
		tones[i] = t.String()
	}

	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Action:      ActionHelp,
	})

	r.Register(&Command{
		Name:        "/tone",
		Aliases:     []string{"/t"},
		Description: "Show or change the assistant tone",
		Usage:       "/tone [name]",
		Args: []ArgDef{
			{Name: "name", Description: "tone name", Values: tones},
		},
		Action: ActionTone,
	})

	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n", "/clear"},
		Description: "Start a new conversation",
		Action:      ActionNew,
	})

	r.Register(&Command{
		Name:        "/copy",
		Aliases:     []string{"/y"},
		Description: "Copy the last reply to the clipboard",
		Action:      ActionCopy,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Leave gaia",
		Action:      ActionQuit,
	})
}
