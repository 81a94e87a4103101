// Package cmd implements the command dispatch framework every plot-facing
// command (WorldEdit, redpiler control, plot administration) registers
// into: a name/alias registry, a Source abstraction over whoever issued the
// command, and an Output buffer commands write their response into.
package cmd

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Source is whoever invoked a command: a console, a remote admin
// connection, or an in-world actor. Actor identifies which WorldEdit
// session (selection, clipboard, undo history) a Source's edits belong to.
type Source interface {
	Name() string
	Actor() uuid.UUID
	SendCommandOutput(o *Output)
}

// Output accumulates a command's response lines for its Source.
type Output struct {
	lines []string
	errs  []string
}

// Print appends a formatted informational line.
func (o *Output) Print(format string, args ...any) {
	o.lines = append(o.lines, fmt.Sprintf(format, args...))
}

// Error appends a formatted error line.
func (o *Output) Error(format string, args ...any) {
	o.errs = append(o.errs, fmt.Sprintf(format, args...))
}

// Lines returns every printed informational line.
func (o *Output) Lines() []string { return o.lines }

// Errors returns every printed error line.
func (o *Output) Errors() []string { return o.errs }

// Command is one registered command: a name, its aliases, a one-line
// description shown by /help, and the handler itself.
type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Run(src Source, o *Output, args []string)
}

var (
	mu       sync.Mutex
	registry []Command
	byAlias  = map[string]Command{}
)

// Register adds c to the registry under its name and every alias. A later
// registration of the same name/alias replaces the earlier one, matching
// the teacher's own last-registration-wins command table.
func Register(c Command) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, c)
	byAlias[c.Name()] = c
	for _, a := range c.Aliases() {
		byAlias[a] = c
	}
}

// ByAlias looks up a command by its name or any alias.
func ByAlias(name string) (Command, bool) {
	mu.Lock()
	defer mu.Unlock()
	c, ok := byAlias[name]
	return c, ok
}

// All returns every registered command, sorted by name, for /help.
func All() []Command {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Command, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ExecuteLine parses and runs a full command line (including its leading
// "/"). The optional before hook may veto execution, e.g. for permission
// checks, by returning false.
func ExecuteLine(source Source, commandLine string, before func(Command, []string) bool) {
	if source == nil {
		panic("cmd.ExecuteLine: source must not be nil")
	}
	commandLine = strings.TrimSpace(commandLine)
	if commandLine == "" {
		return
	}
	args := strings.Fields(commandLine)
	name, ok := strings.CutPrefix(args[0], "/")
	if !ok || name == "" {
		return
	}

	command, ok := ByAlias(name)
	if !ok {
		out := &Output{}
		out.Error("unknown command: %s", name)
		source.SendCommandOutput(out)
		return
	}
	if before != nil && !before(command, args[1:]) {
		return
	}
	out := &Output{}
	command.Run(source, out, args[1:])
	source.SendCommandOutput(out)
}
