// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package script

// Error codes returned by the host and by script calls.
const (
	CodeStateFailed   = "SCRIPT_STATE_FAILED"
	CodeLoadFailed    = "SCRIPT_LOAD_FAILED"
	CodeNotLoaded     = "SCRIPT_NOT_LOADED"
	CodeRuntimeError  = "SCRIPT_RUNTIME_ERROR"
	CodeTimeout       = "SCRIPT_TIMEOUT"
	CodeHostClosed    = "SCRIPT_HOST_CLOSED"
	CodeInvalidValue  = "SCRIPT_INVALID_VALUE"
	CodeInvalidName   = "SCRIPT_INVALID_NAME"
	CodeInvalidGrant  = "SCRIPT_INVALID_GRANT"
	CodeDenied        = "SCRIPT_COMMAND_DENIED"
	CodeNilDispatcher = "SCRIPT_NIL_DISPATCHER"
)
