// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/pkg/errutil"
)

func noopHandler(context.Context, *Execution) (any, error) { return nil, nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(Entry{
		Name:    "rep.get",
		Handler: noopHandler,
		Usage:   "rep.get <faction>",
		Help:    "Show reputation",
		Source:  "core",
		MinArgs: 1,
	}))

	got, ok := reg.Get("rep.get")
	require.True(t, ok)
	assert.Equal(t, "rep.get <faction>", got.Usage)
	assert.Equal(t, 1, got.MinArgs)

	_, ok = reg.Get("nope")
	assert.False(t, ok)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	reg := NewRegistry(nil)

	err := reg.Register(Entry{Name: "Rep.Add", Handler: noopHandler})
	errutil.AssertErrorCode(t, err, CodeInvalidName)

	err = reg.Register(Entry{Name: "rep.add"})
	errutil.AssertErrorCode(t, err, CodeInvalidName)
}

func TestRegistry_OverwriteWarns(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, reg.Register(Entry{Name: "rep.add", Handler: noopHandler, Source: "core"}))
	require.NoError(t, reg.Register(Entry{Name: "rep.add", Handler: noopHandler, Source: "quests.lua"}))

	got, _ := reg.Get("rep.add")
	assert.Equal(t, "quests.lua", got.Source)
	assert.Contains(t, buf.String(), "overwriting existing command")
	assert.Contains(t, buf.String(), "previous_source=core")
}

func TestRegistry_Aliases(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(Entry{Name: "shop.buy", Handler: noopHandler}))
	require.NoError(t, reg.Register(Entry{Name: "shop.sell", Handler: noopHandler}))

	require.NoError(t, reg.Alias("buy", "shop.buy"))
	errutil.AssertErrorCode(t, reg.Alias("buy2", "shop.steal"), CodeUnknownCommand)
	errutil.AssertErrorCode(t, reg.Alias("shop.sell", "shop.buy"), CodeInvalidName)

	entry, ok := reg.Resolve("buy")
	require.True(t, ok)
	assert.Equal(t, "shop.buy", entry.Name)

	_, ok = reg.Get("buy")
	assert.False(t, ok, "Get does not follow aliases")

	assert.True(t, reg.Unregister("shop.buy"))
	_, ok = reg.Resolve("buy")
	assert.False(t, ok)
	assert.Empty(t, reg.Aliases())
	assert.False(t, reg.Unregister("shop.buy"))
}

func TestRegistry_AllSorted(t *testing.T) {
	reg := NewRegistry(nil)
	for _, name := range []string{"shop.buy", "economy.reset", "rep.add"} {
		require.NoError(t, reg.Register(Entry{Name: name, Handler: noopHandler}))
	}
	var names []string
	for _, e := range reg.All() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"economy.reset", "rep.add", "shop.buy"}, names)
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = reg.Register(Entry{Name: "rep.add", Handler: noopHandler})
		}()
		go func() {
			defer wg.Done()
			_, _ = reg.Resolve("rep.add")
			_ = reg.All()
		}()
	}
	wg.Wait()
	_, ok := reg.Get("rep.add")
	assert.True(t, ok)
}

func TestValidateCommandName(t *testing.T) {
	for _, name := range []string{"rep.add", "economy.reset", "faction.set_relation", "buy"} {
		assert.NoError(t, ValidateCommandName(name), name)
	}
	for _, name := range []string{"", " rep.add", "rep..add", "rep.", "1rep", "rep-add", "a.b.c.d.e.f.g.h.i.j.k.l.m.n.o.p.q.r.s.t.u"} {
		assert.Error(t, ValidateCommandName(name), name)
	}
}
