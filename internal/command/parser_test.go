// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/pkg/errutil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs []any
	}{
		{
			name:     "bare command",
			input:    "rep.list",
			wantName: "rep.list",
			wantArgs: []any{},
		},
		{
			name:     "quoted reason",
			input:    `rep.add corp1 50 "quest complete"`,
			wantName: "rep.add",
			wantArgs: []any{"corp1", 50, "quest complete"},
		},
		{
			name:     "negative delta",
			input:    "rep.add maelstrom -25",
			wantName: "rep.add",
			wantArgs: []any{"maelstrom", -25},
		},
		{
			name:     "float and dotted word",
			input:    "economy.supply weapons.power 1.25 shortage",
			wantName: "economy.supply",
			wantArgs: []any{"weapons.power", 1.25, "shortage"},
		},
		{
			name:     "booleans",
			input:    "faction.activate corp1 false",
			wantName: "faction.activate",
			wantArgs: []any{"corp1", false},
		},
		{
			name:     "surrounding whitespace",
			input:    "   shop.buy\tarasaka-store  smart-pistol 2  ",
			wantName: "shop.buy",
			wantArgs: []any{"arasaka-store", "smart-pistol", 2},
		},
		{
			name:     "escaped quote",
			input:    `rep.add corp1 5 "said \"hi\""`,
			wantName: "rep.add",
			wantArgs: []any{"corp1", 5, `said "hi"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantArgs, got.Args)
			assert.Equal(t, tt.input, got.Raw)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("   ")
	errutil.AssertErrorCode(t, err, CodeEmptyInput)

	for _, input := range []string{`rep.add "unterminated`, "42 corp1", "rep.add corp1 @50"} {
		_, err := Parse(input)
		errutil.AssertErrorCode(t, err, CodeParseError)
	}
}
