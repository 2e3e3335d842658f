package archive

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"usdabc/internal/gf"
)

// Schema identifies what an object holds.
type Schema string

const (
	// SchemaCurves marks objects carrying curve geometry.
	SchemaCurves Schema = "curves"
	// SchemaXform marks hierarchy-only objects.
	SchemaXform Schema = "xform"
)

// DataType identifies the element type of a property's sample arrays.
type DataType string

const (
	TypeInt32   DataType = "int32[]"
	TypeFloat32 DataType = "float32[]"
	TypeVec3f   DataType = "vec3f[]"
)

// Curve object constants recorded alongside the basis.
const (
	CurveTypeCubic  = "cubic"
	WrapNonPeriodic = "nonperiodic"
)

// ErrObjectNotFound is returned when no object exists at a path.
var ErrObjectNotFound = errors.New("object not found")

// Info describes the archive as a whole.
type Info struct {
	ID            uuid.UUID
	Writer        string
	Source        string
	CreatedAt     time.Time
	SchemaVersion int
}

// Object is one node of the archive hierarchy with its properties.
type Object struct {
	Path       string
	Parent     string
	Schema     Schema
	SourceType string
	Basis      string
	CurveType  string
	Wrap       string
	Properties []Property
}

// Property returns the named property, or nil.
func (o *Object) Property(name string) *Property {
	if o == nil {
		return nil
	}
	for i := range o.Properties {
		if o.Properties[i].Name == name {
			return &o.Properties[i]
		}
	}
	return nil
}

// ObjectInfo summarises an object without loading sample payloads.
type ObjectInfo struct {
	Path       string
	Parent     string
	Schema     Schema
	SourceType string
	Basis      string
	Properties []PropertyInfo
}

// PropertyInfo summarises a property without loading sample payloads.
type PropertyInfo struct {
	Name       string
	Type       DataType
	Scope      string
	Static     bool
	NumSamples int
}

// Sample is one array value of a property. Exactly one of the typed slices is
// used, matching the property's DataType. Time is zero for static samples.
type Sample struct {
	Time    float64
	Int32   []int32
	Float32 []float32
	Vec3f   []gf.Vec3f
}

// Len returns the number of elements in the sample.
func (s Sample) Len(dt DataType) int {
	switch dt {
	case TypeInt32:
		return len(s.Int32)
	case TypeFloat32:
		return len(s.Float32)
	case TypeVec3f:
		return len(s.Vec3f)
	default:
		return 0
	}
}

// Property is a named, typed array attribute of an object. A static property
// holds exactly one sample that applies at every time.
type Property struct {
	Name    string
	Type    DataType
	Scope   string
	Static  bool
	Samples []Sample
}

// Times returns the sample times of an animated property, or nil for a static
// one.
func (p *Property) Times() []float64 {
	if p == nil || p.Static {
		return nil
	}
	times := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		times[i] = s.Time
	}
	return times
}

// Info returns the property's summary.
func (p *Property) Info() PropertyInfo {
	return PropertyInfo{Name: p.Name, Type: p.Type, Scope: p.Scope, Static: p.Static, NumSamples: len(p.Samples)}
}

// Element is the set of array element types a property can hold.
type Element interface {
	int32 | float32 | gf.Vec3f
}

// DataTypeOf returns the archive data type for element type T.
func DataTypeOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return TypeInt32
	case float32:
		return TypeFloat32
	default:
		return TypeVec3f
	}
}

// NewProperty builds a property from per-sample arrays. A nil times slice
// makes the property static, in which case values must hold one array.
// Otherwise times must be finite and strictly increasing with one array per
// time.
func NewProperty[T Element](name, scope string, times []float64, values [][]T) (Property, error) {
	prop := Property{Name: name, Type: DataTypeOf[T](), Scope: scope, Static: times == nil}
	if prop.Static {
		if len(values) != 1 {
			return Property{}, fmt.Errorf("property %s: static property needs exactly 1 sample, got %d", name, len(values))
		}
	} else {
		if len(values) != len(times) {
			return Property{}, fmt.Errorf("property %s: %d samples for %d times", name, len(values), len(times))
		}
		if err := checkTimes(times); err != nil {
			return Property{}, fmt.Errorf("property %s: %w", name, err)
		}
	}

	prop.Samples = make([]Sample, len(values))
	for i, v := range values {
		var s Sample
		if !prop.Static {
			s.Time = times[i]
		}
		switch vv := any(v).(type) {
		case []int32:
			s.Int32 = vv
		case []float32:
			s.Float32 = vv
		case []gf.Vec3f:
			s.Vec3f = vv
		}
		prop.Samples[i] = s
	}
	return prop, nil
}

// Values returns the property's per-sample arrays as element type T. It fails
// when T does not match the property's data type.
func Values[T Element](p *Property) ([][]T, error) {
	if p == nil {
		return nil, errors.New("property is nil")
	}
	if want := DataTypeOf[T](); p.Type != want {
		return nil, fmt.Errorf("property %s: has type %s, requested %s", p.Name, p.Type, want)
	}
	out := make([][]T, len(p.Samples))
	for i, s := range p.Samples {
		var v any
		switch p.Type {
		case TypeInt32:
			v = s.Int32
		case TypeFloat32:
			v = s.Float32
		default:
			v = s.Vec3f
		}
		out[i] = v.([]T)
	}
	return out, nil
}

func checkTimes(times []float64) error {
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("sample %d has non-finite time %v", i, t)
		}
		if i > 0 && t <= times[i-1] {
			return fmt.Errorf("sample times not strictly increasing at %d (%v after %v)", i, t, times[i-1])
		}
	}
	return nil
}
