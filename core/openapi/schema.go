// Package openapi holds the generated schema fragments, the registry they
// are committed into, and the OpenAPI 3.0 document they are served from.
package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ComponentsPrefix is the reference prefix for registered schemas.
const ComponentsPrefix = "#/components/schemas/"

// Schema is one inline fragment of the generated document. Properties keep
// declaration order, which is why this is not a go-openapi/spec.Schema:
// that type backs properties with a map and loses field order.
type Schema struct {
	Type     string
	Format   string
	Title    string
	Nullable bool

	Properties           []Property
	Items                *SchemaRef
	AdditionalProperties *SchemaRef
	AllOf                []SchemaRef
	AnyOf                []SchemaRef
}

// Property is one named member of an object fragment.
type Property struct {
	Name   string
	Schema SchemaRef
}

// SchemaRef is either a named reference into the registry or an inline
// fragment. A non-empty Ref wins.
type SchemaRef struct {
	Ref    string
	Inline *Schema
}

// RefTo returns a named reference.
func RefTo(name string) SchemaRef { return SchemaRef{Ref: name} }

// InlineSchema wraps s as an inline fragment.
func InlineSchema(s *Schema) SchemaRef { return SchemaRef{Inline: s} }

// IsRef reports whether r is a named reference.
func (r SchemaRef) IsRef() bool { return r.Ref != "" }

// Clone returns a shallow copy of s safe for per-call mutation of the
// top-level flags (nullable, title).
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// MarshalJSON writes the fragment with a fixed key order and properties in
// declaration order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	w := &fieldWriter{buf: &buf}

	if s.Type != "" {
		w.field("type", s.Type)
	}
	if s.Format != "" {
		w.field("format", s.Format)
	}
	if s.Title != "" {
		w.field("title", s.Title)
	}
	if s.Nullable {
		w.field("nullable", true)
	}
	if len(s.Properties) > 0 {
		w.key("properties")
		buf.WriteByte('{')
		for i, p := range s.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			w.raw(p.Name)
			buf.WriteByte(':')
			w.raw(p.Schema)
		}
		buf.WriteByte('}')
	}
	if s.Items != nil {
		w.field("items", s.Items)
	}
	if s.AdditionalProperties != nil {
		w.field("additionalProperties", s.AdditionalProperties)
	}
	if len(s.AllOf) > 0 {
		w.field("allOf", s.AllOf)
	}
	if len(s.AnyOf) > 0 {
		w.field("anyOf", s.AnyOf)
	}
	if w.err != nil {
		return nil, w.err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes either the $ref object or the inline fragment.
func (r SchemaRef) MarshalJSON() ([]byte, error) {
	if r.Ref != "" {
		return json.Marshal(map[string]string{"$ref": ComponentsPrefix + r.Ref})
	}
	if r.Inline == nil {
		return []byte("{}"), nil
	}
	return r.Inline.MarshalJSON()
}

type fieldWriter struct {
	buf   *bytes.Buffer
	wrote bool
	err   error
}

func (w *fieldWriter) key(name string) {
	if w.wrote {
		w.buf.WriteByte(',')
	}
	w.wrote = true
	fmt.Fprintf(w.buf, "%q:", name)
}

func (w *fieldWriter) field(name string, v any) {
	w.key(name)
	w.raw(v)
}

func (w *fieldWriter) raw(v any) {
	if w.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(b)
}
