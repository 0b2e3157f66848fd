// Package foreign wraps values of types that were never written against
// this documentation system and gives them a schema anyway, by tracing
// their serialization shape with reflection.
//
// Three wrapper forms exist, with deliberately different schema fidelity:
//
//   - Foreign[T]: the plain wrapper; schema is a reference to T's
//     registered fragment.
//   - Optional[T]: presence tracked inside the wrapper; the schema is
//     marked nullable while keeping T's canonical name.
//   - *Foreign[T]: presence tracked outside the wrapper; absent values
//     still serialize to null, but the schema is Foreign[T]'s and is not
//     marked nullable. Callers who need a faithful schema should prefer
//     Optional[T].
package foreign

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/artpar/tracedoc/core/convert"
	"github.com/artpar/tracedoc/core/openapi"
	"github.com/artpar/tracedoc/core/shape"
)

// Provider is the capability a wrapped type exposes to the documentation
// layer: a canonical name, a schema reference, a registration side effect,
// and serialization of the wrapped value.
type Provider interface {
	Name() string
	SchemaRef() openapi.SchemaRef
	Register(reg *openapi.Registry) error
	JSONValue() (json.RawMessage, error)
}

// Foreign carries one value of a serializable type T.
type Foreign[T any] struct {
	Value T
}

// Wrap wraps v.
func Wrap[T any](v T) Foreign[T] { return Foreign[T]{Value: v} }

// Name returns the canonical registry name for T: the bare type identifier,
// except that a single-field wrapper around a named type takes the inner
// type's name. The unwrap applies exactly one level.
func (Foreign[T]) Name() string {
	name := typeName[T]()
	_, set, err := shape.TraceType[T]()
	if err != nil {
		return name
	}
	if inner, ok := unwrapName(name, set); ok {
		return inner
	}
	return name
}

// SchemaRef returns the reference callers embed in their own fragments.
// Container types yield a named reference (post wrapper-unwrap); scalar and
// composite roots yield the inline fragment directly.
func (Foreign[T]) SchemaRef() openapi.SchemaRef {
	name := typeName[T]()
	root, set, err := shape.TraceType[T]()
	if err != nil {
		return openapi.RefTo(name)
	}
	if inner, ok := unwrapName(name, set); ok {
		return openapi.RefTo(inner)
	}
	if _, ok := set[name]; ok {
		return openapi.RefTo(name)
	}
	return convert.Shape(root, set, discard{})
}

// Register commits T's fragment — and transitively everything it
// references — into reg. Registration is idempotent; a name collision with
// a different shape is returned as an error. A type whose shape cannot be
// traced registers as an untyped object so its reference still resolves.
func (Foreign[T]) Register(reg *openapi.Registry) error {
	name := typeName[T]()
	root, set, err := shape.TraceType[T]()
	if err != nil {
		return reg.Bind(name, func(openapi.Binder) *openapi.Schema {
			return &openapi.Schema{Type: "object"}
		})
	}
	if c, ok := set[name]; ok {
		schemaName := name
		if inner, ok := unwrapName(name, set); ok {
			schemaName = inner
		}
		return reg.Bind(schemaName, func(b openapi.Binder) *openapi.Schema {
			return convert.Container(c, set, b)
		})
	}
	// Non-container root: nothing to commit under T's own name, but named
	// types nested in it still register.
	return reg.With(func(b openapi.Binder) {
		convert.Shape(root, set, b)
	})
}

// JSONValue serializes the wrapped value.
func (f Foreign[T]) JSONValue() (json.RawMessage, error) {
	raw, err := json.Marshal(f.Value)
	if err != nil {
		return nil, fmt.Errorf("foreign: marshal %s: %w", typeName[T](), err)
	}
	return raw, nil
}

// Optional carries at most one value of T. Absence is tracked inside the
// wrapper, so the generated schema is nullable.
type Optional[T any] struct {
	Value *T
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: &v} }

// None returns the absent wrapper.
func None[T any]() Optional[T] { return Optional[T]{} }

// Name returns the same canonical name as the non-optional wrapper;
// optionality never renames the underlying type.
func (Optional[T]) Name() string { return Foreign[T]{}.Name() }

// SchemaRef returns the base fragment marked nullable. A named reference
// becomes an inline fragment carrying the referenced name as its title and
// the reference under allOf; an inline fragment has nullable set directly.
func (Optional[T]) SchemaRef() openapi.SchemaRef {
	base := Foreign[T]{}.SchemaRef()
	if base.IsRef() {
		return openapi.InlineSchema(&openapi.Schema{
			Title:    base.Ref,
			Nullable: true,
			AllOf:    []openapi.SchemaRef{base},
		})
	}
	s := base.Inline.Clone()
	if s == nil {
		s = &openapi.Schema{}
	}
	s.Nullable = true
	return openapi.InlineSchema(s)
}

// Register registers the underlying type, exactly as the plain wrapper.
func (Optional[T]) Register(reg *openapi.Registry) error {
	return Foreign[T]{}.Register(reg)
}

// JSONValue serializes the wrapped value. An absent value yields a nil
// message and no error; a nil message therefore means "legitimately
// absent", never a swallowed serialization failure.
func (o Optional[T]) JSONValue() (json.RawMessage, error) {
	if o.Value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(o.Value)
	if err != nil {
		return nil, fmt.Errorf("foreign: marshal %s: %w", typeName[T](), err)
	}
	return raw, nil
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// unwrapName resolves the transparent-wrapper naming rule: if name traced
// as a single-field wrapper whose inner shape is itself a named reference,
// the inner name is canonical. One level only.
func unwrapName(name string, set shape.NamedSet) (string, bool) {
	c, ok := set[name]
	if !ok || c.Kind != shape.ContainerWrapper {
		return "", false
	}
	if c.Inner.Kind != shape.KindNamed {
		return "", false
	}
	return c.Inner.Name, true
}

// discard satisfies openapi.Binder without registering anything; SchemaRef
// must not mutate the registry.
type discard struct{}

func (discard) Bind(string, openapi.BuildFunc) {}
