// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package seed

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/shop"
)

// SchemaID is the $id of the seed schema.
const SchemaID = "https://neonreach.dev/schemas/seed.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jschema.Schema
	compileErr     error
)

func enumSchema[T ~string](values []T) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string"}
	for _, v := range values {
		s.Enum = append(s.Enum, string(v))
	}
	return s
}

// enumMapper renders the string enums as closed enums.
func enumMapper(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeFor[faction.Type]():
		return enumSchema(faction.Types())
	case reflect.TypeFor[faction.Relationship]():
		return enumSchema(faction.Relationships())
	case reflect.TypeFor[shop.VendorType]():
		return enumSchema(shop.VendorTypes())
	case reflect.TypeFor[shop.Rarity]():
		return enumSchema(shop.Rarities())
	}
	return nil
}

// GenerateSchema generates the JSON Schema for seed files.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		Mapper:         enumMapper,
	}
	schema := r.Reflect(&File{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Neonreach World Seed"
	schema.Description = "Schema for world seed files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// ValidateSchema validates YAML data against the seed schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("seed data is empty")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	sch, err := compiled()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := sch.Validate(toJSONTypes(doc)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiled() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		var raw []byte
		raw, compileErr = GenerateSchema()
		if compileErr != nil {
			return
		}
		var doc any
		if compileErr = json.Unmarshal(raw, &doc); compileErr != nil {
			return
		}
		c := jschema.NewCompiler()
		if compileErr = c.AddResource("seed.schema.json", doc); compileErr != nil {
			return
		}
		compiledSchema, compileErr = c.Compile("seed.schema.json")
	})
	return compiledSchema, compileErr
}

// toJSONTypes normalizes YAML-decoded values to what encoding/json would
// produce, so integers become float64.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[k] = toJSONTypes(v)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = toJSONTypes(v)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case string, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var out any
			if err := json.Unmarshal(b, &out); err == nil {
				return out
			}
		}
		return val
	}
}

// FormatSchemaError strips the wrapper prefix from a validation error.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), "schema validation failed: ")
}
