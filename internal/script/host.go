// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package script

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/neonreach/neonreach/internal/command"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// Host loads Lua scripts and runs their hooks. Every Run gets a fresh
// sandboxed state with the neon module installed.
type Host struct {
	dispatcher    *command.Dispatcher
	grants        *Grants
	defaultGrants []string
	logger        *slog.Logger
	timeout       time.Duration
	callStack     int

	mu      sync.RWMutex
	scripts map[string]string
	closed  bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for host and neon.log output.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithTimeout bounds each Run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) { h.timeout = d }
}

// WithGrants shares a grant table with the host.
func WithGrants(g *Grants) Option {
	return func(h *Host) {
		if g != nil {
			h.grants = g
		}
	}
}

// WithDefaultGrants sets the patterns given to scripts loaded without
// grants of their own.
func WithDefaultGrants(patterns ...string) Option {
	return func(h *Host) { h.defaultGrants = slices.Clone(patterns) }
}

// WithCallStackSize limits Lua call depth.
func WithCallStackSize(n int) Option {
	return func(h *Host) { h.callStack = n }
}

// NewHost creates a script host that runs commands through d.
func NewHost(d *command.Dispatcher, opts ...Option) (*Host, error) {
	if d == nil {
		return nil, oops.Code(CodeNilDispatcher).Errorf("dispatcher is required")
	}
	h := &Host{
		dispatcher:    d,
		grants:        NewGrants(),
		defaultGrants: []string{AllCommands},
		logger:        slog.Default(),
		timeout:       DefaultTimeout,
		callStack:     256,
		scripts:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Grants returns the host's grant table.
func (h *Host) Grants() *Grants { return h.grants }

// Load compiles code and stores it under name, replacing any earlier
// version. The chunk is not executed.
func (h *Host) Load(ctx context.Context, name, code string) error {
	if name == "" {
		return oops.Code(CodeInvalidName).With("operation", "load").Errorf("script name is required")
	}

	L, err := newState(ctx, h.callStack)
	if err != nil {
		return err
	}
	defer L.Close()
	if _, err := L.LoadString(code); err != nil {
		return oops.Code(CodeLoadFailed).
			In("script").
			With("script", name).
			With("operation", "load").
			Hint("syntax error").
			Wrap(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return oops.Code(CodeHostClosed).With("script", name).With("operation", "load").Errorf("host is closed")
	}
	if h.grants.Patterns(name) == nil {
		if err := h.grants.Set(name, h.defaultGrants); err != nil {
			return err
		}
	}
	h.scripts[name] = code
	h.logger.DebugContext(ctx, "script loaded", "script", name, "grants", h.grants.Patterns(name))
	return nil
}

// LoadFile loads the script at path and returns its name, the file name
// without extension.
func (h *Host) LoadFile(ctx context.Context, path string) (string, error) {
	code, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", oops.Code(CodeLoadFailed).
			In("script").
			With("path", path).
			With("operation", "load").
			Hint("failed to read script file").
			Wrap(err)
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name, h.Load(ctx, name, string(code))
}

// Unload removes a script and its grants.
func (h *Host) Unload(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.scripts[name]; !ok {
		return oops.Code(CodeNotLoaded).With("script", name).With("operation", "unload").Errorf("script not loaded")
	}
	delete(h.scripts, name)
	h.grants.Remove(name)
	return nil
}

// Scripts returns the loaded script names in order.
func (h *Host) Scripts() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.scripts))
	for name := range h.scripts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run executes the script's chunk and then, when hook is non-empty and
// the script defines it, calls hook(args...). The hook's first return
// value is converted back to Go. A missing hook is not an error.
func (h *Host) Run(ctx context.Context, name, hook string, args ...any) (any, error) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return nil, oops.Code(CodeHostClosed).With("script", name).Errorf("host is closed")
	}
	code, ok := h.scripts[name]
	h.mu.RUnlock()
	if !ok {
		return nil, oops.Code(CodeNotLoaded).With("script", name).With("operation", "run").Errorf("script not loaded")
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	L, err := newState(ctx, h.callStack)
	if err != nil {
		return nil, err
	}
	defer L.Close()
	h.register(L, name)

	if err := L.DoString(code); err != nil {
		return nil, runError(ctx, err, name, "load")
	}
	if hook == "" {
		return nil, nil
	}

	fn := L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		h.logger.DebugContext(ctx, "script has no hook", "script", name, "hook", hook)
		return nil, nil
	}

	luaArgs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		v, err := toLua(L, a)
		if err != nil {
			return nil, oops.With("script", name).With("hook", hook).Wrap(err)
		}
		luaArgs = append(luaArgs, v)
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, luaArgs...); err != nil {
		return nil, runError(ctx, err, name, hook)
	}
	ret := L.Get(-1)
	L.Pop(1)

	out, err := fromLua(ret)
	if err != nil {
		return nil, oops.With("script", name).With("hook", hook).Wrap(err)
	}
	return out, nil
}

// Close unloads every script. Later calls fail with CodeHostClosed.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name := range h.scripts {
		h.grants.Remove(name)
	}
	h.closed = true
	h.scripts = nil
	return nil
}

func runError(ctx context.Context, err error, name, operation string) error {
	if ctx.Err() != nil {
		return oops.Code(CodeTimeout).
			In("script").
			With("script", name).
			With("operation", operation).
			Hint("script exceeded its time budget").
			Wrap(err)
	}
	return oops.Code(CodeRuntimeError).
		In("script").
		With("script", name).
		With("operation", operation).
		Wrap(err)
}
