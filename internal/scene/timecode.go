package scene

import (
	"math"
	"strconv"
)

// TimeCodeKind distinguishes the three ways an attribute can be queried.
type TimeCodeKind uint8

const (
	// TimeDefault addresses the time-independent default value.
	TimeDefault TimeCodeKind = iota
	// TimeSample addresses a numeric time coordinate.
	TimeSample
	// TimeEarliest addresses the earliest authored time sample, falling back
	// to the default when the attribute has no samples.
	TimeEarliest
)

// TimeCode is a time coordinate used to query and author attribute values.
// The zero value is the default time code.
type TimeCode struct {
	kind  TimeCodeKind
	value float64
}

// Default returns the default time code.
func Default() TimeCode { return TimeCode{kind: TimeDefault} }

// EarliestTime returns the sentinel that resolves to the earliest sample.
func EarliestTime() TimeCode { return TimeCode{kind: TimeEarliest} }

// At returns a time code addressing the numeric time t.
func At(t float64) TimeCode { return TimeCode{kind: TimeSample, value: t} }

// Kind reports which variant the time code holds.
func (tc TimeCode) Kind() TimeCodeKind { return tc.kind }

// IsDefault reports whether tc addresses the default value.
func (tc TimeCode) IsDefault() bool { return tc.kind == TimeDefault }

// IsEarliest reports whether tc is the earliest-time sentinel.
func (tc TimeCode) IsEarliest() bool { return tc.kind == TimeEarliest }

// Time returns the numeric time and whether tc carries one.
func (tc TimeCode) Time() (float64, bool) {
	if tc.kind != TimeSample {
		return 0, false
	}
	return tc.value, true
}

func (tc TimeCode) String() string {
	switch tc.kind {
	case TimeDefault:
		return "default"
	case TimeEarliest:
		return "earliest"
	default:
		if math.IsNaN(tc.value) {
			return "NaN"
		}
		return strconv.FormatFloat(tc.value, 'g', -1, 64)
	}
}

// ParseTimeCode accepts "default", "earliest", or a decimal time.
func ParseTimeCode(s string) (TimeCode, error) {
	switch s {
	case "", "default":
		return Default(), nil
	case "earliest":
		return EarliestTime(), nil
	}
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return TimeCode{}, err
	}
	return At(t), nil
}
