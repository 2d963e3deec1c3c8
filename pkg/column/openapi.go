package column

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// ExtensionEncoded toggles escaping for a property-derived column.
	ExtensionEncoded = "x-grid-encoded"
	// ExtensionOrder positions a property-derived column; lower comes first.
	ExtensionOrder = "x-grid-order"
	// ExtensionHidden excludes a property from the column set.
	ExtensionHidden = "x-grid-hidden"
)

// FromOpenAPISchema infers columns from the properties of an object schema.
// Columns are ordered by x-grid-order, then by property name.
func FromOpenAPISchema(schema *openapi3.Schema) Set {
	if schema == nil || len(schema.Properties) == 0 {
		return Set{}
	}

	type entry struct {
		def   Definition
		order int
	}

	entries := make([]entry, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if strings.TrimSpace(name) == "" {
			continue
		}
		def := Definition{Field: name}
		order := math.MaxInt
		if ref != nil && ref.Value != nil {
			prop := ref.Value
			if hidden, ok := prop.Extensions[ExtensionHidden].(bool); ok && hidden {
				continue
			}
			def.Title = prop.Title
			if encoded, ok := prop.Extensions[ExtensionEncoded].(bool); ok {
				def.Raw = !encoded
			}
			if value, ok := orderValue(prop.Extensions[ExtensionOrder]); ok {
				order = value
			}
		}
		entries = append(entries, entry{def: def, order: order})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].def.Field < entries[j].def.Field
	})

	out := make(Set, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.def)
	}
	return out
}

// FromOpenAPIDocument loads an OpenAPI document and infers columns from the
// named component schema.
func FromOpenAPIDocument(ctx context.Context, raw []byte, schemaName string) (Set, error) {
	if len(raw) == 0 {
		return nil, errors.New("column: openapi document is empty")
	}
	name := strings.TrimSpace(schemaName)
	if name == "" {
		return nil, errors.New("column: schema name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("column: load openapi document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, fmt.Errorf("column: schema %q not found", name)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("column: schema %q not found", name)
	}
	return FromOpenAPISchema(ref.Value), nil
}

func orderValue(v any) (int, bool) {
	switch typed := v.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		if typed == math.Trunc(typed) {
			return int(typed), true
		}
	}
	return 0, false
}
