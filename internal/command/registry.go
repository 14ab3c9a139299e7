// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/oops"
)

// Registry holds commands and their aliases. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Entry
	aliases  map[string]string
	logger   *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger means slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		commands: make(map[string]Entry),
		aliases:  make(map[string]string),
		logger:   logger,
	}
}

// Register adds a command. A command with the same name is replaced and a
// warning logged, so scripts can override builtins.
func (r *Registry) Register(entry Entry) error {
	if err := ValidateCommandName(entry.Name); err != nil {
		return err
	}
	if entry.Handler == nil {
		return oops.Code(CodeInvalidName).
			With("command", entry.Name).
			Errorf("command %s has no handler", entry.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.commands[entry.Name]; ok {
		r.logger.Warn("command conflict: overwriting existing command",
			"command", entry.Name,
			"previous_source", existing.Source,
			"new_source", entry.Source)
	}
	r.commands[entry.Name] = entry
	return nil
}

// Alias maps a short name to a registered command. Aliases never chain.
func (r *Registry) Alias(alias, target string) error {
	if err := ValidateAliasName(alias); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[target]; !ok {
		return ErrUnknownCommand(target)
	}
	if _, ok := r.commands[alias]; ok {
		return oops.Code(CodeInvalidName).
			With("alias", alias).
			Errorf("alias %s shadows a command", alias)
	}
	r.aliases[alias] = target
	return nil
}

// Get retrieves a command by canonical name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.commands[name]
	return entry, ok
}

// Resolve looks a name up as a command first, then as an alias.
func (r *Registry) Resolve(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.commands[name]; ok {
		return entry, true
	}
	if target, ok := r.aliases[name]; ok {
		entry, ok := r.commands[target]
		return entry, ok
	}
	return Entry{}, false
}

// Unregister removes a command and any aliases pointing at it.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[name]; !ok {
		return false
	}
	delete(r.commands, name)
	for alias, target := range r.aliases {
		if target == name {
			delete(r.aliases, alias)
		}
	}
	return true
}

// All returns every command sorted by name.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.commands))
	for _, e := range r.commands {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.Name, b.Name) })
	return entries
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}
