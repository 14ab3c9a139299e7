// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/oops"
)

// commandLexer splits a command line into words, quoted strings and
// numbers. Words may contain dots, dashes and colons so ids like
// "tech.drones" or "rivalry:maelstrom" stay whole.
var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Word", Pattern: `[A-Za-z_][\w\-.:/]*`},
	{Name: "whitespace", Pattern: `\s+`},
})

// commandLine is: name arg*
type commandLine struct {
	Pos  lexer.Position `parser:""`
	Name string         `parser:"@Word"`
	Args []*argument    `parser:"@@*"`
}

type argument struct {
	Float *float64 `parser:"  @Float"`
	Int   *int     `parser:"| @Int"`
	Str   *string  `parser:"| @String"`
	Bool  *string  `parser:"| @('true' | 'false')"`
	Word  *string  `parser:"| @Word"`
}

func (a *argument) value() any {
	switch {
	case a.Float != nil:
		return *a.Float
	case a.Int != nil:
		return *a.Int
	case a.Str != nil:
		return *a.Str
	case a.Bool != nil:
		return *a.Bool == "true"
	case a.Word != nil:
		return *a.Word
	}
	return nil
}

var lineParser *participle.Parser[commandLine]

func init() {
	var err error
	lineParser, err = participle.Build[commandLine](
		participle.Lexer(commandLexer),
		participle.Unquote("String"),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to build command parser: %v", err))
	}
}

// Parsed is a parsed command line.
type Parsed struct {
	Name string
	Args []any
	Raw  string
}

// Parse turns `rep.add corp1 50 "quest complete"` into a name and typed
// arguments: quoted strings and bare words become string, integers int,
// decimals float64, and true/false bool.
func Parse(input string) (*Parsed, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, oops.Code(CodeEmptyInput).Errorf("no command provided")
	}

	line, err := lineParser.ParseString("", trimmed)
	if err != nil {
		return nil, oops.Code(CodeParseError).
			With("input", input).
			Wrapf(err, "parse command")
	}

	args := make([]any, 0, len(line.Args))
	for _, a := range line.Args {
		args = append(args, a.value())
	}
	return &Parsed{Name: line.Name, Args: args, Raw: input}, nil
}
