// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/neonreach/neonreach/pkg/errutil"
)

func newTestState(t *testing.T) *lua.LState {
	t.Helper()
	L, err := newState(context.Background(), 0)
	require.NoError(t, err)
	t.Cleanup(L.Close)
	return L
}

func TestFromLua(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want any
	}{
		{"nil", "nil", nil},
		{"integer", "42", 42},
		{"negative", "-7", -7},
		{"float", "1.25", 1.25},
		{"string", `"corp1"`, "corp1"},
		{"bool", "true", true},
		{"sequence", "{1, 2, 3}", []any{1, 2, 3}},
		{"record", `{tier = "Friendly", score = 60}`, map[string]any{"tier": "Friendly", "score": 60}},
		{"nested", `{spread = {{id = "gang2"}}}`, map[string]any{"spread": []any{map[string]any{"id": "gang2"}}}},
		{"sparse", `{[1] = "a", [3] = "c"}`, map[string]any{"1": "a", "3": "c"}},
		{"empty", "{}", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newTestState(t)
			require.NoError(t, L.DoString("value = "+tt.expr))
			got, err := fromLua(L.GetGlobal("value"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromLua_Rejects(t *testing.T) {
	L := newTestState(t)
	require.NoError(t, L.DoString(`
		fn = function() end
		deep = {}
		local cur = deep
		for i = 1, 40 do cur.next = {} cur = cur.next end
	`))

	_, err := fromLua(L.GetGlobal("fn"))
	errutil.AssertErrorCode(t, err, CodeInvalidValue)

	_, err = fromLua(L.GetGlobal("deep"))
	errutil.AssertErrorCode(t, err, CodeInvalidValue)
}

func TestToLua_UsesJSONNames(t *testing.T) {
	L := newTestState(t)
	type change struct {
		FactionID string   `json:"factionId"`
		NewScore  int      `json:"newScore"`
		Tags      []string `json:"tags"`
		Skipped   string   `json:"-"`
	}

	v, err := toLua(L, change{FactionID: "corp1", NewScore: 60, Tags: []string{"quest"}, Skipped: "x"})
	require.NoError(t, err)
	L.SetGlobal("change", v)
	require.NoError(t, L.DoString(`ok = change.factionId == "corp1" and change.newScore == 60 and change.tags[1] == "quest" and change.Skipped == nil`))
	assert.Equal(t, lua.LTrue, L.GetGlobal("ok"))

	_, err = toLua(L, make(chan int))
	errutil.AssertErrorCode(t, err, CodeInvalidValue)
}

func TestArgsFromLua(t *testing.T) {
	L := newTestState(t)
	L.Push(lua.LString("rep.add"))
	L.Push(lua.LString("corp1"))
	L.Push(lua.LNumber(50))
	L.Push(lua.LTrue)

	args, err := argsFromLua(L, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{"corp1", 50, true}, args)

	L.Push(L.NewTable())
	_, err = argsFromLua(L, 2)
	errutil.AssertErrorCode(t, err, CodeInvalidValue)
}
