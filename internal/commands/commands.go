// Package commands is the console's command registry. Every console line is a
// subcommand with its own flags; positional arguments after the flags are
// passed to Run.
package commands

import (
	"flag"
	"fmt"
	"sort"
	"strings"
)

// Command is a subcommand with its own flags and a Run function. Run is
// called after FlagSet.Parse succeeds and receives the remaining positional
// arguments.
type Command struct {
	Name    string
	Desc    string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry holds subcommands by name. Add commands with Register; run a
// console line with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. name is the line's first token; desc is the
// one-line help text.
func (r *Registry) Register(name, desc string, fs *flag.FlagSet, run func(args []string) error) {
	r.cmds[name] = &Command{Name: name, Desc: desc, FlagSet: fs, Run: run}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help returns one "name  desc" line per command, sorted by name.
func (r *Registry) Help() []string {
	names := r.Names()
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	lines := make([]string, 0, len(names))
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, n, r.cmds[n].Desc))
	}
	return lines
}

// Execute tokenizes line by spaces and runs the subcommand in the first
// token. Returns an error for an empty line, unknown command, flag parse
// error, or from Run.
func (r *Registry) Execute(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s (try help)", args[0])
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return err
	}
	return cmd.Run(cmd.FlagSet.Args())
}
