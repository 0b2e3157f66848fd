// Package convert maps traced shapes onto schema fragments.
//
// The mapping is deterministic and never fails: shapes the schema model
// cannot express collapse to an untyped object fragment. Integer width and
// signedness are not encoded — every integer kind becomes "integer" — and
// tuples are approximated as an array constrained by allOf over the element
// fragments rather than a positional schema.
package convert

import (
	"github.com/artpar/tracedoc/core/openapi"
	"github.com/artpar/tracedoc/core/shape"
)

// Shape converts one shape descriptor to a fragment. Named references are
// registered through b as a side effect and stay references; nullability of
// optional shapes is the caller's concern, not encoded here.
func Shape(s shape.Shape, set shape.NamedSet, b openapi.Binder) openapi.SchemaRef {
	switch s.Kind {
	case shape.KindString:
		return inline("string")
	case shape.KindInt8, shape.KindInt16, shape.KindInt32, shape.KindInt64,
		shape.KindUint8, shape.KindUint16, shape.KindUint32, shape.KindUint64:
		return inline("integer")
	case shape.KindFloat32, shape.KindFloat64:
		return inline("number")
	case shape.KindBool:
		return inline("boolean")
	case shape.KindUnit:
		return inline("null")
	case shape.KindOptional:
		return Shape(*s.Elem, set, b)
	case shape.KindSeq:
		items := Shape(*s.Elem, set, b)
		return openapi.InlineSchema(&openapi.Schema{Type: "array", Items: &items})
	case shape.KindMap:
		// Map keys are assumed string-like; only the value shape is kept.
		value := Shape(*s.Value, set, b)
		return openapi.InlineSchema(&openapi.Schema{Type: "object", AdditionalProperties: &value})
	case shape.KindTuple:
		return openapi.InlineSchema(&openapi.Schema{Type: "array", AllOf: refs(s.Elems, set, b)})
	case shape.KindNamed:
		Bind(s.Name, set, b)
		return openapi.RefTo(s.Name)
	default:
		return inline("object")
	}
}

// Variant converts one enum variant payload to a fragment.
func Variant(v shape.Variant, set shape.NamedSet, b openapi.Binder) openapi.SchemaRef {
	switch v.Kind {
	case shape.VariantUnit:
		return inline("null")
	case shape.VariantNewtype:
		return Shape(*v.Inner, set, b)
	case shape.VariantTuple:
		return openapi.InlineSchema(&openapi.Schema{Type: "array", AllOf: refs(v.Elems, set, b)})
	case shape.VariantStruct:
		return openapi.InlineSchema(&openapi.Schema{Type: "object", Properties: properties(v.Fields, set, b)})
	default:
		return inline("object")
	}
}

// Container converts a whole named container shape to a registrable
// top-level fragment.
func Container(c shape.Container, set shape.NamedSet, b openapi.Binder) *openapi.Schema {
	switch c.Kind {
	case shape.ContainerStruct:
		return &openapi.Schema{Type: "object", Properties: properties(c.Fields, set, b)}
	case shape.ContainerWrapper:
		return transparent(*c.Inner, set, b)
	case shape.ContainerTupleStruct:
		return &openapi.Schema{Type: "array", AllOf: refs(c.Elems, set, b)}
	case shape.ContainerEnum:
		// Externally tagged: one single-key object per variant. This must
		// match the wire encoding the type actually produces.
		anyOf := make([]openapi.SchemaRef, 0, len(c.Variants))
		for _, v := range c.Variants {
			anyOf = append(anyOf, openapi.InlineSchema(&openapi.Schema{
				Type:       "object",
				Properties: []openapi.Property{{Name: v.Name, Schema: Variant(v, set, b)}},
			}))
		}
		return &openapi.Schema{Type: "object", AnyOf: anyOf}
	case shape.ContainerUnitStruct:
		return &openapi.Schema{Type: "null"}
	default:
		return &openapi.Schema{Type: "object"}
	}
}

// Bind registers name's container into the registry, converting it on first
// sight. Unknown names are skipped; the converter has no failure path.
func Bind(name string, set shape.NamedSet, b openapi.Binder) {
	c, ok := set[name]
	if !ok {
		return
	}
	b.Bind(name, func(b openapi.Binder) *openapi.Schema {
		return Container(c, set, b)
	})
}

// transparent resolves a wrapper's inner shape to an inline fragment. At
// this top level a named inner type is fully inlined — the wrapper
// disappears entirely — while the same reference nested anywhere below
// stays a reference. That asymmetry is what makes a wrapper type
// schema-identical to its payload without stopping the payload from being
// referenced normally elsewhere.
func transparent(inner shape.Shape, set shape.NamedSet, b openapi.Binder) *openapi.Schema {
	ref := Shape(inner, set, b)
	if !ref.IsRef() {
		return ref.Inline
	}
	c, ok := set[ref.Ref]
	if !ok {
		return &openapi.Schema{Type: "object"}
	}
	return Container(c, set, b)
}

func inline(typ string) openapi.SchemaRef {
	return openapi.InlineSchema(&openapi.Schema{Type: typ})
}

func properties(fields []shape.Field, set shape.NamedSet, b openapi.Binder) []openapi.Property {
	props := make([]openapi.Property, 0, len(fields))
	for _, f := range fields {
		props = append(props, openapi.Property{Name: f.Name, Schema: Shape(f.Shape, set, b)})
	}
	return props
}

func refs(elems []shape.Shape, set shape.NamedSet, b openapi.Binder) []openapi.SchemaRef {
	out := make([]openapi.SchemaRef, 0, len(elems))
	for _, e := range elems {
		out = append(out, Shape(e, set, b))
	}
	return out
}
