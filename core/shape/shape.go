// Package shape describes the serialization form of Go types.
// A Shape is the structural description of one value position; a Container
// is the shape of a whole named type. Shapes are produced by tracing with
// reflection (see Trace) rather than declared by hand, which lets the rest
// of the system document types that were never written against it.
package shape

// Kind discriminates the Shape union.
type Kind string

const (
	KindString  Kind = "string"
	KindInt8    Kind = "i8"
	KindInt16   Kind = "i16"
	KindInt32   Kind = "i32"
	KindInt64   Kind = "i64"
	KindUint8   Kind = "u8"
	KindUint16  Kind = "u16"
	KindUint32  Kind = "u32"
	KindUint64  Kind = "u64"
	KindFloat32 Kind = "f32"
	KindFloat64 Kind = "f64"
	KindBool    Kind = "bool"
	KindUnit    Kind = "unit"

	KindOptional Kind = "optional"
	KindSeq      Kind = "seq"
	KindMap      Kind = "map"
	KindTuple    Kind = "tuple"
	KindNamed    Kind = "named"
)

// Shape is one node of a traced serialization form. Exactly the fields
// relevant to Kind are set; a Shape is never mutated after tracing.
type Shape struct {
	Kind Kind

	// Elem is the payload for optional and seq shapes.
	Elem *Shape
	// Key and Value are set for map shapes.
	Key   *Shape
	Value *Shape
	// Elems are the positional element shapes of a tuple.
	Elems []Shape
	// Name is the referenced container name for named shapes.
	Name string
}

// Scalar returns a shape with no nested structure.
func Scalar(k Kind) Shape { return Shape{Kind: k} }

// Str returns the string scalar shape.
func Str() Shape { return Shape{Kind: KindString} }

// Optional wraps s as "present or absent".
func Optional(s Shape) Shape { return Shape{Kind: KindOptional, Elem: &s} }

// SeqOf returns the homogeneous sequence shape over s.
func SeqOf(s Shape) Shape { return Shape{Kind: KindSeq, Elem: &s} }

// MapOf returns the map shape with the given key and value shapes.
func MapOf(key, value Shape) Shape {
	return Shape{Kind: KindMap, Key: &key, Value: &value}
}

// TupleOf returns the positional tuple shape over elems.
func TupleOf(elems ...Shape) Shape { return Shape{Kind: KindTuple, Elems: elems} }

// Named returns a reference to the container registered under name.
func Named(name string) Shape { return Shape{Kind: KindNamed, Name: name} }

// ContainerKind discriminates the Container union.
type ContainerKind string

const (
	ContainerStruct      ContainerKind = "struct"
	ContainerWrapper     ContainerKind = "wrapper"
	ContainerTupleStruct ContainerKind = "tuple_struct"
	ContainerEnum        ContainerKind = "enum"
	ContainerUnitStruct  ContainerKind = "unit_struct"
)

// Field is one named struct member. Order within a container is the wire
// order and must be preserved by consumers.
type Field struct {
	Name  string
	Shape Shape
}

// Container is the shape of one named type.
type Container struct {
	Kind ContainerKind

	// Fields are set for struct containers, in declaration order.
	Fields []Field
	// Inner is the single wrapped shape of a wrapper container.
	Inner *Shape
	// Elems are the positional shapes of a tuple struct.
	Elems []Shape
	// Variants are set for enum containers, in declaration order.
	Variants []Variant
}

// VariantKind discriminates the Variant union.
type VariantKind string

const (
	VariantUnit    VariantKind = "unit"
	VariantNewtype VariantKind = "newtype"
	VariantTuple   VariantKind = "tuple"
	VariantStruct  VariantKind = "struct"
)

// Variant is one alternative of an enum container.
type Variant struct {
	Name string
	Kind VariantKind

	// Inner is the payload of a newtype variant.
	Inner *Shape
	// Elems are the positional payloads of a tuple variant.
	Elems []Shape
	// Fields are the members of a struct variant, in declaration order.
	Fields []Field
}

// NamedSet is the set of container shapes reachable from a traced type,
// keyed by canonical name.
type NamedSet map[string]Container

// Shaper lets a type declare its own container shape when reflection cannot
// see it — sum types encoded through a custom MarshalJSON, for instance.
// The declared shape is trusted verbatim; it must match what the type
// actually writes on the wire.
type Shaper interface {
	ContainerShape() Container
}
