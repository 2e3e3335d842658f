package scene

import (
	"fmt"
	"slices"
	"strings"

	"usdabc/internal/gf"
)

// Kind enumerates the value kinds an attribute can hold.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindVec3f
	KindToken
	KindIntArray
	KindFloatArray
	KindVec3fArray
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVec3f:
		return "float3"
	case KindToken:
		return "token"
	case KindIntArray:
		return "int[]"
	case KindFloatArray:
		return "float[]"
	case KindVec3fArray:
		return "float3[]"
	default:
		return "invalid"
	}
}

// IsArray reports whether the kind is one of the array kinds.
func (k Kind) IsArray() bool {
	return k == KindIntArray || k == KindFloatArray || k == KindVec3fArray
}

// typeNames maps declared attribute type names onto value kinds. Several
// geometric roles share one storage kind.
var typeNames = map[string]Kind{
	"int":        KindInt,
	"float":      KindFloat,
	"float3":     KindVec3f,
	"point3f":    KindVec3f,
	"vector3f":   KindVec3f,
	"normal3f":   KindVec3f,
	"token":      KindToken,
	"int[]":      KindIntArray,
	"float[]":    KindFloatArray,
	"float3[]":   KindVec3fArray,
	"point3f[]":  KindVec3fArray,
	"vector3f[]": KindVec3fArray,
	"normal3f[]": KindVec3fArray,
}

// KindForTypeName resolves a declared type name such as "point3f[]".
func KindForTypeName(name string) (Kind, error) {
	kind, ok := typeNames[strings.TrimSpace(name)]
	if !ok {
		return KindInvalid, fmt.Errorf("unknown value type %q", name)
	}
	return kind, nil
}

// Value is a tagged variant over the closed set of kinds. Exactly one payload
// field is meaningful, selected by kind. Array payloads are copied on the way
// in and out so values never alias caller slices.
type Value struct {
	kind   Kind
	i      int32
	f      float32
	v      gf.Vec3f
	tok    string
	ints   []int32
	floats []float32
	vecs   []gf.Vec3f
}

func IntValue(x int32) Value { return Value{kind: KindInt, i: x} }
func FloatValue(x float32) Value { return Value{kind: KindFloat, f: x} }
func Vec3fValue(x gf.Vec3f) Value { return Value{kind: KindVec3f, v: x} }
func TokenValue(x string) Value { return Value{kind: KindToken, tok: x} }
func IntArray(x []int32) Value { return Value{kind: KindIntArray, ints: slices.Clone(x)} }
func FloatArray(x []float32) Value { return Value{kind: KindFloatArray, floats: slices.Clone(x)} }
func Vec3fArray(x []gf.Vec3f) Value { return Value{kind: KindVec3fArray, vecs: slices.Clone(x)} }

// Kind returns the value's kind; KindInvalid for the zero Value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a payload.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

func (v Value) Int() (int32, bool) { return v.i, v.kind == KindInt }
func (v Value) Float() (float32, bool) { return v.f, v.kind == KindFloat }
func (v Value) Vec3f() (gf.Vec3f, bool) { return v.v, v.kind == KindVec3f }
func (v Value) Token() (string, bool) { return v.tok, v.kind == KindToken }

func (v Value) IntArray() ([]int32, bool) {
	if v.kind != KindIntArray {
		return nil, false
	}
	return slices.Clone(v.ints), true
}

func (v Value) FloatArray() ([]float32, bool) {
	if v.kind != KindFloatArray {
		return nil, false
	}
	return slices.Clone(v.floats), true
}

func (v Value) Vec3fArray() ([]gf.Vec3f, bool) {
	if v.kind != KindVec3fArray {
		return nil, false
	}
	return slices.Clone(v.vecs), true
}

// Len returns the element count of array values and 1 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindInvalid:
		return 0
	case KindIntArray:
		return len(v.ints)
	case KindFloatArray:
		return len(v.floats)
	case KindVec3fArray:
		return len(v.vecs)
	default:
		return 1
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return fmt.Sprint(v.i)
	case KindFloat:
		return fmt.Sprint(v.f)
	case KindVec3f:
		return v.v.String()
	case KindToken:
		return v.tok
	case KindIntArray:
		return fmt.Sprint(v.ints)
	case KindFloatArray:
		return fmt.Sprint(v.floats)
	case KindVec3fArray:
		return fmt.Sprint(v.vecs)
	default:
		return "<invalid>"
	}
}

// ValueType is the closed set of Go types a Value can be unpacked into.
type ValueType interface {
	int32 | float32 | gf.Vec3f | string | []int32 | []float32 | []gf.Vec3f
}

// ValueOf packs a Go value into the matching variant.
func ValueOf[T ValueType](x T) Value {
	switch x := any(x).(type) {
	case int32:
		return IntValue(x)
	case float32:
		return FloatValue(x)
	case gf.Vec3f:
		return Vec3fValue(x)
	case string:
		return TokenValue(x)
	case []int32:
		return IntArray(x)
	case []float32:
		return FloatArray(x)
	case []gf.Vec3f:
		return Vec3fArray(x)
	}
	panic("unreachable")
}

// As unpacks v into T, reporting false when the kinds differ.
func As[T ValueType](v Value) (T, bool) {
	var out T
	var ok bool
	switch p := any(&out).(type) {
	case *int32:
		*p, ok = v.Int()
	case *float32:
		*p, ok = v.Float()
	case *gf.Vec3f:
		*p, ok = v.Vec3f()
	case *string:
		*p, ok = v.Token()
	case *[]int32:
		*p, ok = v.IntArray()
	case *[]float32:
		*p, ok = v.FloatArray()
	case *[]gf.Vec3f:
		*p, ok = v.Vec3fArray()
	}
	return out, ok
}

// Get reads attr at tc and unpacks the result into T.
func Get[T ValueType](attr *Attribute, tc TimeCode) (T, bool) {
	v, ok := attr.Get(tc)
	if !ok {
		var zero T
		return zero, false
	}
	return As[T](v)
}
