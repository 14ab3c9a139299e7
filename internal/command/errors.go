// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"github.com/samber/oops"
)

// Error codes for command dispatch failures. Engine errors keep their own
// codes; anything uncoded is reported as CodeInternal.
const (
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeParseError     = "PARSE_ERROR"
	CodeUnknownCommand = "UNKNOWN_COMMAND"
	CodeInvalidArgs    = "INVALID_ARGS"
	CodeInvalidName    = "INVALID_COMMAND_NAME"
	CodeNilRegistry    = "NIL_REGISTRY"
	CodeNilEngine      = "NIL_ENGINE"
	CodeInternal       = "INTERNAL"
)

// ErrUnknownCommand creates an error for an unregistered command.
func ErrUnknownCommand(cmd string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", cmd).
		Errorf("unknown command: %s", cmd)
}

// ErrInvalidArgs creates an error carrying the command's usage line.
func ErrInvalidArgs(cmd, usage string) error {
	return oops.Code(CodeInvalidArgs).
		With("command", cmd).
		With("usage", usage).
		Errorf("invalid arguments for %s", cmd)
}

// ErrNilRegistry is returned by NewDispatcher without a registry.
var ErrNilRegistry = oops.Code(CodeNilRegistry).Errorf("registry is nil")

// ErrNilEngine is returned by NewDispatcher without an engine.
var ErrNilEngine = oops.Code(CodeNilEngine).Errorf("engine is nil")

// Reason extracts a caller-facing message from an error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "internal error"
	}
	if oopsErr.Code() == CodeInvalidArgs {
		if usage, ok := oopsErr.Context()["usage"].(string); ok && usage != "" {
			return "usage: " + usage
		}
	}
	return oopsErr.Error()
}

func errPanic(cmd string, recovered any) error {
	return oops.Code(CodeInternal).
		With("command", cmd).
		Errorf("command %s failed: %v", cmd, recovered)
}
