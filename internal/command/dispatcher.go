// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neonreach/neonreach/internal/game"
	"github.com/neonreach/neonreach/pkg/errutil"
)

var tracer = otel.Tracer("neonreach/command")

// Result is what callers of the bridge see: a success flag with either
// data or a reason and error code.
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Failure builds a failed Result from err. Errors without an oops code are
// reported as CodeInternal.
func Failure(err error) Result {
	code := errutil.Code(err)
	if code == "" {
		code = CodeInternal
	}
	return Result{Success: false, Reason: Reason(err), Code: code}
}

// Dispatcher resolves commands in a registry and runs them against an engine.
type Dispatcher struct {
	registry *Registry
	engine   *game.Engine
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher. Returns an error if registry or
// engine is nil.
func NewDispatcher(registry *Registry, engine *game.Engine, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if engine == nil {
		return nil, ErrNilEngine
	}
	d := &Dispatcher{registry: registry, engine: engine, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Registry returns the dispatcher's registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch parses a command line and runs it.
func (d *Dispatcher) Dispatch(ctx context.Context, input string) Result {
	parsed, err := Parse(input)
	if err != nil {
		return Failure(err)
	}
	return d.Call(ctx, parsed.Name, parsed.Args...)
}

// Call runs a command with already-typed arguments. Handler panics are
// recovered and reported as CodeInternal.
func (d *Dispatcher) Call(ctx context.Context, name string, args ...any) (res Result) {
	metrics := newMetricsRecorder(name)
	defer metrics.record()

	ctx, span := tracer.Start(ctx, "command.execute",
		trace.WithAttributes(
			attribute.String("command.name", name),
			attribute.Int("command.args", len(args)),
		),
	)
	defer func() {
		if !res.Success {
			span.SetStatus(codes.Error, res.Reason)
			span.SetAttributes(attribute.String("command.error_code", res.Code))
		}
		span.End()
	}()

	entry, ok := d.registry.Resolve(name)
	if !ok {
		metrics.status = StatusNotFound
		return Failure(ErrUnknownCommand(name))
	}
	metrics.source = entry.Source
	span.SetAttributes(
		attribute.String("command.source", entry.Source),
		attribute.String("command.resolved", entry.Name),
	)

	if len(args) < entry.MinArgs {
		metrics.status = StatusInvalidArgs
		return Failure(ErrInvalidArgs(entry.Name, entry.Usage))
	}

	exec := &Execution{Name: entry.Name, Args: args, Engine: d.engine, Usage: entry.Usage}
	data, err := d.run(ctx, entry, exec)
	if err != nil {
		if errutil.HasCode(err, CodeInvalidArgs) {
			metrics.status = StatusInvalidArgs
		}
		span.RecordError(err)
		d.logger.DebugContext(ctx, "command failed",
			"command", entry.Name,
			"source", entry.Source,
			"code", errutil.Code(err),
			"error", err)
		return Failure(err)
	}

	metrics.status = StatusSuccess
	return Result{Success: true, Data: data}
}

func (d *Dispatcher) run(ctx context.Context, entry Entry, exec *Execution) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "command handler panicked",
				"command", entry.Name,
				"panic", r)
			data, err = nil, errPanic(entry.Name, r)
		}
	}()
	return entry.Handler(ctx, exec)
}
