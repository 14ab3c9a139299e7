// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package command bridges textual and scripted commands to the game engine.
package command

import (
	"context"
	"math"
	"strconv"

	"github.com/neonreach/neonreach/internal/game"
)

// Handler runs a command. The returned value becomes Result.Data.
type Handler func(ctx context.Context, exec *Execution) (any, error)

// Entry is a registered command.
type Entry struct {
	Name    string // canonical name, e.g. "rep.add"
	Handler Handler
	Help    string // one line
	Usage   string // e.g. "rep.add <faction> <delta> [reason]"
	Source  string // "core" or the registering script
	// MinArgs is checked before the handler runs.
	MinArgs int
}

// Execution carries the arguments and engine for one command call.
// Args hold string, int, float64 or bool values.
type Execution struct {
	Name   string
	Args   []any
	Engine *game.Engine
	// Usage is copied from the entry for argument errors.
	Usage string
}

// Len returns the number of arguments.
func (e *Execution) Len() int { return len(e.Args) }

func (e *Execution) arg(i int) (any, bool) {
	if i < 0 || i >= len(e.Args) {
		return nil, false
	}
	return e.Args[i], true
}

// String returns argument i as text. Numbers and booleans are formatted,
// so ids that look numeric still work.
func (e *Execution) String(i int) (string, error) {
	v, ok := e.arg(i)
	if !ok {
		return "", ErrInvalidArgs(e.Name, e.Usage)
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	return "", ErrInvalidArgs(e.Name, e.Usage)
}

// Int returns argument i as an integer. Whole floats and numeric strings
// are accepted.
func (e *Execution) Int(i int) (int, error) {
	v, ok := e.arg(i)
	if !ok {
		return 0, ErrInvalidArgs(e.Name, e.Usage)
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int(x), nil
		}
	case string:
		if n, err := strconv.Atoi(x); err == nil {
			return n, nil
		}
	}
	return 0, ErrInvalidArgs(e.Name, e.Usage)
}

// Float returns argument i as a float.
func (e *Execution) Float(i int) (float64, error) {
	v, ok := e.arg(i)
	if !ok {
		return 0, ErrInvalidArgs(e.Name, e.Usage)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f, nil
		}
	}
	return 0, ErrInvalidArgs(e.Name, e.Usage)
}

// Bool returns argument i as a boolean.
func (e *Execution) Bool(i int) (bool, error) {
	v, ok := e.arg(i)
	if !ok {
		return false, ErrInvalidArgs(e.Name, e.Usage)
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b, nil
		}
	}
	return false, ErrInvalidArgs(e.Name, e.Usage)
}

// OptString returns argument i, or def when it is absent.
func (e *Execution) OptString(i int, def string) (string, error) {
	if i >= len(e.Args) {
		return def, nil
	}
	return e.String(i)
}

// OptInt returns argument i, or def when it is absent.
func (e *Execution) OptInt(i, def int) (int, error) {
	if i >= len(e.Args) {
		return def, nil
	}
	return e.Int(i)
}

// OptBool returns argument i, or def when it is absent.
func (e *Execution) OptBool(i int, def bool) (bool, error) {
	if i >= len(e.Args) {
		return def, nil
	}
	return e.Bool(i)
}
