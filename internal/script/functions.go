// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package script

import (
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/neonreach/neonreach/internal/command"
	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/shop"
)

// ModuleName is the Lua global holding the host functions.
const ModuleName = "neon"

// register installs the neon module for script.
//
//	neon.call(name, ...)                       -> {success, reason, code, data}
//	neon.add_reputation(faction, delta, [why]) -> score, tier | nil, reason
//	neon.standing(faction)                     -> tier, score | nil, reason
//	neon.transfer(territory, faction, [how])   -> true | nil, reason
//	neon.quote(shop, item, [qty])              -> buy, sell | nil, reason
//	neon.log(level, message)
func (h *Host) register(L *lua.LState, script string) {
	mod := L.NewTable()
	L.SetField(mod, "call", L.NewFunction(h.callFn(script)))
	L.SetField(mod, "add_reputation", L.NewFunction(h.addReputationFn(script)))
	L.SetField(mod, "standing", L.NewFunction(h.standingFn(script)))
	L.SetField(mod, "transfer", L.NewFunction(h.transferFn(script)))
	L.SetField(mod, "quote", L.NewFunction(h.quoteFn(script)))
	L.SetField(mod, "log", L.NewFunction(h.logFn(script)))
	L.SetGlobal(ModuleName, mod)
}

// call runs a command on behalf of script after the grant check. Grants
// are matched against the canonical name, so aliases cannot bypass them.
func (h *Host) call(ctx context.Context, script, name string, args ...any) command.Result {
	canonical := name
	if entry, ok := h.dispatcher.Registry().Resolve(name); ok {
		canonical = entry.Name
	}
	if !h.grants.Allowed(script, canonical) {
		h.logger.WarnContext(ctx, "script command denied", "script", script, "command", canonical)
		return command.Failure(oops.Code(CodeDenied).
			With("script", script).
			With("command", canonical).
			Errorf("script %s may not call %s", script, canonical))
	}
	return h.dispatcher.Call(ctx, name, args...)
}

func (h *Host) callFn(script string) lua.LGFunction {
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		args, err := argsFromLua(L, 2)
		if err != nil {
			L.RaiseError("neon.call(%s): %s", name, err.Error())
			return 0
		}
		res := h.call(L.Context(), script, name, args...)
		L.Push(resultTable(L, res))
		return 1
	}
}

func resultTable(L *lua.LState, res command.Result) *lua.LTable {
	t := L.NewTable()
	data, err := toLua(L, res.Data)
	if err != nil {
		res = command.Failure(err)
		data = lua.LNil
	}
	t.RawSetString("success", lua.LBool(res.Success))
	if res.Reason != "" {
		t.RawSetString("reason", lua.LString(res.Reason))
	}
	if res.Code != "" {
		t.RawSetString("code", lua.LString(res.Code))
	}
	t.RawSetString("data", data)
	return t
}

func fail(L *lua.LState, res command.Result) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(res.Reason))
	return 2
}

func (h *Host) addReputationFn(script string) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckString(1)
		delta := L.CheckInt(2)
		reason := L.OptString(3, "")

		res := h.call(L.Context(), script, "rep.add", id, delta, reason)
		change, ok := res.Data.(faction.ReputationChange)
		if !res.Success || !ok {
			return fail(L, res)
		}
		L.Push(lua.LNumber(change.NewScore))
		L.Push(lua.LString(change.NewTier.String()))
		return 2
	}
}

func (h *Host) standingFn(script string) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckString(1)

		res := h.call(L.Context(), script, "rep.get", id)
		st, ok := res.Data.(faction.Standing)
		if !res.Success || !ok {
			return fail(L, res)
		}
		L.Push(lua.LString(st.Tier.String()))
		L.Push(lua.LNumber(st.Score))
		return 2
	}
}

func (h *Host) transferFn(script string) lua.LGFunction {
	return func(L *lua.LState) int {
		territory := L.CheckString(1)
		to := L.CheckString(2)
		method := L.OptString(3, "")

		res := h.call(L.Context(), script, "territory.transfer", territory, to, method)
		if !res.Success {
			return fail(L, res)
		}
		L.Push(lua.LTrue)
		return 1
	}
}

func (h *Host) quoteFn(script string) lua.LGFunction {
	return func(L *lua.LState) int {
		shopID := L.CheckString(1)
		itemID := L.CheckString(2)
		qty := L.OptInt(3, 1)

		res := h.call(L.Context(), script, "shop.quote", shopID, itemID, qty)
		q, ok := res.Data.(shop.Quote)
		if !res.Success || !ok {
			return fail(L, res)
		}
		L.Push(lua.LNumber(q.Buy))
		L.Push(lua.LNumber(q.Sell))
		return 2
	}
}

func (h *Host) logFn(script string) lua.LGFunction {
	return func(L *lua.LState) int {
		level := L.CheckString(1)
		message := L.CheckString(2)

		ctx := L.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		logger := h.logger.With("script", script)
		switch level {
		case "debug":
			logger.DebugContext(ctx, message)
		case "warn":
			logger.WarnContext(ctx, message)
		case "error":
			logger.ErrorContext(ctx, message)
		default:
			logger.InfoContext(ctx, message)
		}
		return 0
	}
}
