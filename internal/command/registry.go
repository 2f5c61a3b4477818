package command

import (
	"sort"
)

// Handler runs one command against the session's book.
type Handler func(s *Session, args []string) (Reply, error)

// Command is a registered command and its aliases.
type Command struct {
	Name    string
	Aliases []string
	Mutates bool // the book is saved after a successful run
	Run     Handler
}

// Registry maps command names and aliases to commands.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	byName map[string]*Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// Register adds c under its name and aliases. Overwrites existing entries.
// Panics if the name is empty or Run is nil (programmer error).
func (r *Registry) Register(c Command) {
	if c.Name == "" {
		panic("command: Register called with empty name")
	}
	if c.Run == nil {
		panic("command: Register called with nil handler")
	}
	cmd := &c
	r.byName[c.Name] = cmd
	for _, a := range c.Aliases {
		r.byName[a] = cmd
	}
}

// Lookup returns the command registered under name or alias.
func (r *Registry) Lookup(name string) (*Command, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, &UnknownCommandError{Name: name}
	}
	return c, nil
}

// Names returns every registered name and alias in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a Registry holding the address book commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range builtins() {
		r.Register(c)
	}
	return r
}
