// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Command gen-schema writes the world seed JSON Schema.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neonreach/neonreach/internal/seed"
)

func main() {
	out := filepath.Join("schemas", "seed.schema.json")
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	schema, err := seed.GenerateSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, schema, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", out)
}
