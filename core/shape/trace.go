package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ErrOpaque reports a type whose serialization form cannot be derived:
// dynamic dispatch, non-JSON kinds, or a custom MarshalJSON with no
// declared shape. Callers must treat it as "shape unknown", not fatal.
var ErrOpaque = errors.New("shape: opaque type")

var (
	shaperType    = reflect.TypeOf((*Shaper)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	timeType      = reflect.TypeOf(time.Time{})
)

// Trace walks t and returns its root shape together with every named
// container shape reachable from it. On failure the set is nil and the
// error wraps ErrOpaque.
func Trace(t reflect.Type) (Shape, NamedSet, error) {
	tr := &tracer{set: NamedSet{}, visiting: map[reflect.Type]bool{}}
	root, err := tr.shapeOf(t)
	if err != nil {
		return Shape{}, nil, err
	}
	return root, tr.set, nil
}

// TraceType is Trace over a type parameter.
func TraceType[T any]() (Shape, NamedSet, error) {
	return Trace(reflect.TypeOf((*T)(nil)).Elem())
}

type tracer struct {
	set NamedSet
	// visiting holds struct types currently being walked so that
	// self-referential types resolve to a forward reference instead of
	// recursing forever.
	visiting map[reflect.Type]bool
}

func (tr *tracer) shapeOf(t reflect.Type) (Shape, error) {
	// A declared shape wins over anything reflection would infer.
	if c, ok := declaredShape(t); ok {
		name := t.Name()
		if name == "" {
			return Shape{}, fmt.Errorf("%w: unnamed %s declares a shape", ErrOpaque, t)
		}
		if _, seen := tr.set[name]; !seen {
			tr.set[name] = c
		}
		return Named(name), nil
	}

	if t == timeType {
		// time.Time marshals as an RFC 3339 string.
		return Str(), nil
	}
	if t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType) {
		return Shape{}, fmt.Errorf("%w: %s has custom JSON encoding", ErrOpaque, t)
	}

	switch t.Kind() {
	case reflect.String:
		return Str(), nil
	case reflect.Bool:
		return Scalar(KindBool), nil
	case reflect.Int8:
		return Scalar(KindInt8), nil
	case reflect.Int16:
		return Scalar(KindInt16), nil
	case reflect.Int32:
		return Scalar(KindInt32), nil
	case reflect.Int, reflect.Int64:
		return Scalar(KindInt64), nil
	case reflect.Uint8:
		return Scalar(KindUint8), nil
	case reflect.Uint16:
		return Scalar(KindUint16), nil
	case reflect.Uint32:
		return Scalar(KindUint32), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return Scalar(KindUint64), nil
	case reflect.Float32:
		return Scalar(KindFloat32), nil
	case reflect.Float64:
		return Scalar(KindFloat64), nil
	case reflect.Pointer:
		elem, err := tr.shapeOf(t.Elem())
		if err != nil {
			return Shape{}, err
		}
		return Optional(elem), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			// []byte marshals as a base64 string.
			return Str(), nil
		}
		elem, err := tr.shapeOf(t.Elem())
		if err != nil {
			return Shape{}, err
		}
		return SeqOf(elem), nil
	case reflect.Array:
		elem, err := tr.shapeOf(t.Elem())
		if err != nil {
			return Shape{}, err
		}
		return SeqOf(elem), nil
	case reflect.Map:
		key, err := tr.shapeOf(t.Key())
		if err != nil {
			return Shape{}, err
		}
		value, err := tr.shapeOf(t.Elem())
		if err != nil {
			return Shape{}, err
		}
		return MapOf(key, value), nil
	case reflect.Struct:
		return tr.structShape(t)
	default:
		return Shape{}, fmt.Errorf("%w: %s", ErrOpaque, t)
	}
}

func (tr *tracer) structShape(t reflect.Type) (Shape, error) {
	name := t.Name()
	if name == "" {
		// Anonymous struct literal: no stable name to register under.
		if t.NumField() == 0 {
			return Scalar(KindUnit), nil
		}
		return Shape{}, fmt.Errorf("%w: anonymous struct", ErrOpaque)
	}

	if _, done := tr.set[name]; done {
		return Named(name), nil
	}
	if tr.visiting[t] {
		return Named(name), nil
	}
	tr.visiting[t] = true
	defer delete(tr.visiting, t)

	c, err := tr.containerOf(t)
	if err != nil {
		return Shape{}, err
	}
	tr.set[name] = c
	return Named(name), nil
}

func (tr *tracer) containerOf(t reflect.Type) (Container, error) {
	if t.NumField() == 0 {
		return Container{Kind: ContainerUnitStruct}, nil
	}

	// A struct whose only member is an embedded struct is the transparent
	// wrapper form: encoding/json promotes the embedded fields, so the
	// wrapper is invisible on the wire.
	if t.NumField() == 1 {
		f := t.Field(0)
		if f.Anonymous && f.Tag.Get("json") == "" && isStructLike(f.Type) {
			inner, err := tr.shapeOf(f.Type)
			if err != nil {
				return Container{}, err
			}
			return Container{Kind: ContainerWrapper, Inner: &inner}, nil
		}
	}

	fields, err := tr.fieldsOf(t)
	if err != nil {
		return Container{}, err
	}
	if len(fields) == 0 {
		return Container{Kind: ContainerUnitStruct}, nil
	}
	return Container{Kind: ContainerStruct, Fields: fields}, nil
}

// fieldsOf returns the marshaled fields of t in declaration order,
// flattening embedded structs the way encoding/json promotes them.
func (tr *tracer) fieldsOf(t reflect.Type) ([]Field, error) {
	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		tagName, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && tagName == "" && isStructLike(f.Type) {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			promoted, err := tr.fieldsOf(ft)
			if err != nil {
				return nil, err
			}
			fields = append(fields, promoted...)
			continue
		}

		name := f.Name
		if tagName != "" {
			name = tagName
		}
		s, err := tr.shapeOf(f.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Shape: s})
	}
	return fields, nil
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func declaredShape(t reflect.Type) (Container, bool) {
	if t.Implements(shaperType) {
		return reflect.Zero(t).Interface().(Shaper).ContainerShape(), true
	}
	if reflect.PointerTo(t).Implements(shaperType) {
		return reflect.New(t).Interface().(Shaper).ContainerShape(), true
	}
	return Container{}, false
}
