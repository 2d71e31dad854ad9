// Package docschema provides field schemas for dynamic JSON documents.
//
// Compiled-in Go types do not exist at the CLI or service boundary, so the
// selection is declared by name instead: a Set of named schemas, each an
// ordered list of fields with optional nested schema references. A document
// is a decoded JSON object wrapped together with its schema as a Doc, which
// the canonicalizer walks through the Set's Provider implementation.
package docschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"fieldhash.dev/fieldhash/canonical"
)

// FieldDef declares one selected field of a document schema.
//
// Schema optionally names the schema applied to the field's value; for list
// values it applies to each object element.
type FieldDef struct {
	Name   string
	Order  int
	Schema string
}

// Schema is a named, ordered field selection for JSON objects.
type Schema struct {
	Name   string
	Fields []FieldDef
}

// Set is a collection of schemas that resolve each other's references.
// A Set is immutable after Validate and safe for concurrent use.
type Set struct {
	schemas map[string]*Schema
}

// NewSet returns a Set holding the given schemas. Field lists are
// stable-sorted by order key, ties keeping declaration order.
func NewSet(schemas ...*Schema) (*Set, error) {
	s := &Set{schemas: make(map[string]*Schema, len(schemas))}
	for _, sc := range schemas {
		if sc.Name == "" {
			return nil, fmt.Errorf("docschema: schema with empty name")
		}
		if _, dup := s.schemas[sc.Name]; dup {
			return nil, fmt.Errorf("docschema: duplicate schema %q", sc.Name)
		}
		sorted := &Schema{Name: sc.Name, Fields: append([]FieldDef(nil), sc.Fields...)}
		sort.SliceStable(sorted.Fields, func(i, j int) bool {
			return sorted.Fields[i].Order < sorted.Fields[j].Order
		})
		s.schemas[sc.Name] = sorted
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Set) validate() error {
	for _, sc := range s.schemas {
		seen := make(map[string]bool, len(sc.Fields))
		for _, f := range sc.Fields {
			if f.Name == "" {
				return fmt.Errorf("docschema: schema %q has a field with empty name", sc.Name)
			}
			if seen[f.Name] {
				return fmt.Errorf("docschema: schema %q declares field %q twice", sc.Name, f.Name)
			}
			seen[f.Name] = true
			if f.Schema != "" {
				if _, ok := s.schemas[f.Schema]; !ok {
					return fmt.Errorf("docschema: schema %q field %q references unknown schema %q",
						sc.Name, f.Name, f.Schema)
				}
			}
		}
	}
	return nil
}

// Schema returns the named schema.
func (s *Set) Schema(name string) (*Schema, bool) {
	sc, ok := s.schemas[name]
	return sc, ok
}

// Names returns the schema names, sorted.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Doc pairs a decoded JSON object with the schema that selects its fields.
type Doc struct {
	set    *Set
	schema *Schema
	value  map[string]any
}

// Doc wraps value under the named schema for canonicalization.
func (s *Set) Doc(schemaName string, value map[string]any) (Doc, error) {
	sc, ok := s.schemas[schemaName]
	if !ok {
		return Doc{}, fmt.Errorf("docschema: unknown schema %q", schemaName)
	}
	return Doc{set: s, schema: sc, value: value}, nil
}

// Fields implements canonical.Provider for Doc values.
func (s *Set) Fields(v any) []canonical.Field {
	d, ok := v.(Doc)
	if !ok || d.schema == nil {
		return nil
	}
	out := make([]canonical.Field, 0, len(d.schema.Fields))
	for _, f := range d.schema.Fields {
		out = append(out, canonical.Field{Name: f.Name, Order: f.Order})
	}
	return out
}

// Read implements canonical.Provider. Values of fields carrying a schema
// reference are re-wrapped as Docs; object elements of list values
// likewise. Scalar values pass through untouched.
func (s *Set) Read(v any, f canonical.Field) (any, error) {
	d, ok := v.(Doc)
	if !ok {
		return nil, canonical.NewError(canonical.KindSchema, "FH-SCHEMA-002",
			fmt.Sprintf("document read against %T", v))
	}
	var def *FieldDef
	for i := range d.schema.Fields {
		if d.schema.Fields[i].Name == f.Name {
			def = &d.schema.Fields[i]
			break
		}
	}
	if def == nil {
		return nil, canonical.NewError(canonical.KindSchema, "FH-SCHEMA-001",
			fmt.Sprintf("field %q is not declared by schema %q", f.Name, d.schema.Name))
	}
	val, ok := d.value[f.Name]
	if !ok || val == nil {
		return nil, nil
	}
	if def.Schema == "" {
		return val, nil
	}
	ref := s.schemas[def.Schema]
	switch x := val.(type) {
	case map[string]any:
		return Doc{set: s, schema: ref, value: x}, nil
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Doc{set: s, schema: ref, value: m})
				continue
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return val, nil
	}
}

// DecodeDocument decodes a JSON object, keeping numbers as literals so that
// canonical encoding reproduces the source digits byte-exactly.
func DecodeDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("docschema: decoding document: %w", err)
	}
	// Trailing content after the object is a malformed document.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("docschema: trailing content after document")
	}
	return doc, nil
}
