// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package seed

import _ "embed"

//go:embed default.yaml
var defaultSeed []byte

// Default returns the built-in world seed.
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// DefaultBytes returns the raw built-in seed.
func DefaultBytes() []byte {
	return append([]byte(nil), defaultSeed...)
}
