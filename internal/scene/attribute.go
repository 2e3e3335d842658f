package scene

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

type timeSample struct {
	time  float64
	value Value
}

// Attribute is a named, typed property of a prim. A nil *Attribute behaves
// like an attribute with nothing authored.
type Attribute struct {
	name          string
	typeName      string
	kind          Kind
	def           Value
	samples       []timeSample
	interpolation string
}

// Name returns the attribute name.
func (a *Attribute) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// TypeName returns the declared type name, e.g. "point3f[]".
func (a *Attribute) TypeName() string {
	if a == nil {
		return ""
	}
	return a.typeName
}

// Kind returns the value kind implied by the declared type.
func (a *Attribute) Kind() Kind {
	if a == nil {
		return KindInvalid
	}
	return a.kind
}

// Get returns the value at tc. Default queries return only the default.
// EarliestTime returns the first time sample, or the default when no samples
// exist. Numeric queries use held interpolation and fall back to the default
// when the attribute is not time-varying.
func (a *Attribute) Get(tc TimeCode) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	switch tc.Kind() {
	case TimeDefault:
		return a.def, a.def.IsValid()
	case TimeEarliest:
		if len(a.samples) > 0 {
			return a.samples[0].value, true
		}
		return a.def, a.def.IsValid()
	}

	t, _ := tc.Time()
	if len(a.samples) == 0 {
		return a.def, a.def.IsValid()
	}
	if math.IsNaN(t) {
		return Value{}, false
	}
	// index of the first sample strictly after t
	idx := sort.Search(len(a.samples), func(i int) bool { return a.samples[i].time > t })
	if idx == 0 {
		return a.samples[0].value, true
	}
	return a.samples[idx-1].value, true
}

// Set authors value at tc. Setting at EarliestTime is rejected since it does
// not name a single coordinate.
func (a *Attribute) Set(value Value, tc TimeCode) error {
	if a == nil {
		return fmt.Errorf("set on missing attribute")
	}
	if value.Kind() != a.kind {
		return fmt.Errorf("attribute %s: cannot set %s value on %s attribute", a.name, value.Kind(), a.typeName)
	}
	switch tc.Kind() {
	case TimeDefault:
		a.def = value
		return nil
	case TimeEarliest:
		return fmt.Errorf("attribute %s: cannot author at the earliest-time sentinel", a.name)
	}
	t, _ := tc.Time()
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("attribute %s: invalid sample time %v", a.name, t)
	}
	idx := sort.Search(len(a.samples), func(i int) bool { return a.samples[i].time >= t })
	if idx < len(a.samples) && a.samples[idx].time == t {
		a.samples[idx].value = value
		return nil
	}
	a.samples = slices.Insert(a.samples, idx, timeSample{time: t, value: value})
	return nil
}

// TimeSamples returns the authored sample times in increasing order.
func (a *Attribute) TimeSamples() []float64 {
	if a == nil {
		return nil
	}
	times := make([]float64, len(a.samples))
	for i, s := range a.samples {
		times[i] = s.time
	}
	return times
}

// HasDefault reports whether a default value is authored.
func (a *Attribute) HasDefault() bool {
	return a != nil && a.def.IsValid()
}

// ValueMightBeTimeVarying reports whether any time samples are authored.
func (a *Attribute) ValueMightBeTimeVarying() bool {
	return a != nil && len(a.samples) > 0
}

// HasAuthoredValue reports whether a default or any sample is authored.
func (a *Attribute) HasAuthoredValue() bool {
	return a.HasDefault() || a.ValueMightBeTimeVarying()
}

// Interpolation returns the authored interpolation token, or "" when unset.
func (a *Attribute) Interpolation() string {
	if a == nil {
		return ""
	}
	return a.interpolation
}

// SetInterpolation authors the interpolation metadata token.
func (a *Attribute) SetInterpolation(token string) {
	if a != nil {
		a.interpolation = token
	}
}

// Clear removes the default and all time samples.
func (a *Attribute) Clear() {
	if a == nil {
		return
	}
	a.def = Value{}
	a.samples = nil
}
