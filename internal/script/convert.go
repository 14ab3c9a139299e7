// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package script

import (
	"encoding/json"
	"math"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

const maxTableDepth = 32

// Largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// fromLua converts a Lua value to string, int, float64, bool, nil,
// []any or map[string]any. Sequences 1..n become slices.
func fromLua(v lua.LValue) (any, error) {
	return fromLuaDepth(v, 0)
}

func fromLuaDepth(v lua.LValue, depth int) (any, error) {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(x), nil
	case lua.LString:
		return string(x), nil
	case lua.LNumber:
		return number(float64(x)), nil
	case *lua.LTable:
		if depth >= maxTableDepth {
			return nil, oops.Code(CodeInvalidValue).With("depth", depth).Errorf("table nested too deeply")
		}
		return tableFromLua(x, depth+1)
	}
	return nil, oops.Code(CodeInvalidValue).With("type", v.Type().String()).Errorf("cannot convert %s", v.Type())
}

func number(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return int(f)
	}
	return f
}

func tableFromLua(t *lua.LTable, depth int) (any, error) {
	n := t.MaxN()
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })

	if n > 0 && n == count {
		out := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			v, err := fromLuaDepth(t.RawGetInt(i), depth)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	out := make(map[string]any, count)
	var err error
	t.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		var key string
		switch kk := k.(type) {
		case lua.LString:
			key = string(kk)
		case lua.LNumber:
			key = kk.String()
		default:
			err = oops.Code(CodeInvalidValue).With("type", k.Type().String()).Errorf("unsupported table key")
			return
		}
		out[key], err = fromLuaDepth(v, depth)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// argsFromLua reads call arguments from stack position start onward.
// Only scalars are accepted since commands take string, number and
// boolean arguments.
func argsFromLua(L *lua.LState, start int) ([]any, error) {
	top := L.GetTop()
	args := make([]any, 0, max(top-start+1, 0))
	for i := start; i <= top; i++ {
		v := L.Get(i)
		switch v.Type() {
		case lua.LTString, lua.LTNumber, lua.LTBool:
			a, _ := fromLua(v)
			args = append(args, a)
		default:
			return nil, oops.Code(CodeInvalidValue).With("position", i).With("type", v.Type().String()).
				Errorf("argument %d must be a string, number or boolean", i-start+1)
		}
	}
	return args, nil
}

// toLua converts a Go value to Lua. Structs and other composite values go
// through their JSON encoding, so field names follow the json tags.
func toLua(L *lua.LState, v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case lua.LValue:
		return x, nil
	case string:
		return lua.LString(x), nil
	case bool:
		return lua.LBool(x), nil
	case int:
		return lua.LNumber(x), nil
	case int64:
		return lua.LNumber(x), nil
	case float64:
		return lua.LNumber(x), nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return lua.LNil, oops.Code(CodeInvalidValue).Wrapf(err, "encode %T", v)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return lua.LNil, oops.Code(CodeInvalidValue).Wrapf(err, "decode %T", v)
	}
	return jsonToLua(L, decoded), nil
}

func jsonToLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case float64:
		return lua.LNumber(x)
	case []any:
		t := L.CreateTable(len(x), 0)
		for _, item := range x {
			t.Append(jsonToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(x))
		for k, item := range x {
			t.RawSetString(k, jsonToLua(L, item))
		}
		return t
	}
	return lua.LNil
}
