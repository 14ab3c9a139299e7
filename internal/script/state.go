// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package script runs quest and combat scripts in a sandboxed Lua state
// with access to the command bridge.
package script

import (
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

type library struct {
	name string
	fn   lua.LGFunction
}

// Safe: base, table, string, math. Blocked: os, io, debug, package, channel, coroutine.
var safeLibraries = []library{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// Base functions that reach the filesystem or compile arbitrary chunks.
var blockedBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load", "require", "collectgarbage"}

// newState returns a fresh sandboxed state bound to ctx. Execution stops
// with an error once ctx is done.
func newState(ctx context.Context, maxCallStack int) (*lua.LState, error) {
	opts := lua.Options{SkipOpenLibs: true}
	if maxCallStack > 0 {
		opts.CallStackSize = maxCallStack
	}
	L := lua.NewState(opts)

	for _, lib := range safeLibraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.Code(CodeStateFailed).With("library", lib.name).Wrapf(err, "open library")
		}
	}
	for _, fn := range blockedBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}

	L.SetContext(ctx)
	return L, nil
}
