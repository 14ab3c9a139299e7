// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package script

import (
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// AllCommands grants every command.
const AllCommands = "**"

// Grants limits which commands each script may call through neon.call and
// the convenience functions.
//
// Patterns use '.' as the segment separator: "rep.*" matches "rep.add" and
// "rep.get", "**" matches any command.
//
// Grants is safe for concurrent use.
type Grants struct {
	mu       sync.RWMutex
	byScript map[string][]compiledGrant
}

type compiledGrant struct {
	pattern string
	glob    glob.Glob
}

// NewGrants returns an empty grant table.
func NewGrants() *Grants {
	return &Grants{byScript: make(map[string][]compiledGrant)}
}

// Set replaces the patterns for a script. Nothing changes if any pattern
// fails to compile.
func (g *Grants) Set(script string, patterns []string) error {
	if script == "" {
		return oops.Code(CodeInvalidName).Errorf("script name is required")
	}
	compiled := make([]compiledGrant, len(patterns))
	for i, p := range patterns {
		if p == "" {
			return oops.Code(CodeInvalidGrant).With("script", script).With("index", i).Errorf("empty grant pattern")
		}
		gl, err := glob.Compile(p, '.')
		if err != nil {
			return oops.Code(CodeInvalidGrant).With("script", script).With("pattern", p).Wrapf(err, "compile grant")
		}
		compiled[i] = compiledGrant{pattern: p, glob: gl}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.byScript[script] = compiled
	return nil
}

// Remove drops every grant for script.
func (g *Grants) Remove(script string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.byScript, script)
}

// Patterns returns a copy of the patterns granted to script.
func (g *Grants) Patterns(script string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	grants, ok := g.byScript[script]
	if !ok {
		return nil
	}
	out := make([]string, len(grants))
	for i, c := range grants {
		out[i] = c.pattern
	}
	return out
}

// Allowed reports whether script may call command. Unknown scripts are
// denied.
func (g *Grants) Allowed(script, command string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.byScript[script] {
		if c.glob.Match(command) {
			return true
		}
	}
	return false
}
