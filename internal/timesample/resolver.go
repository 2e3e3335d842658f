package timesample

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"usdabc/internal/faults"
	"usdabc/internal/scene"
)

// ResolveWriteTimes returns the time codes at which attr must be written: its
// authored sample times in increasing order without duplicates, or a single
// Default when only a default is authored, or nil when nothing is authored.
func ResolveWriteTimes(attr *scene.Attribute) []scene.TimeCode {
	if attr.ValueMightBeTimeVarying() {
		return toTimeCodes(attr.TimeSamples())
	}
	if attr.HasDefault() {
		return []scene.TimeCode{scene.Default()}
	}
	return nil
}

// UnionWriteTimes merges the write times of attributes that are encoded
// together. Default-only attributes contribute no times of their own; the
// result is [Default] only when none of them is time-varying.
func UnionWriteTimes(attrs ...*scene.Attribute) []scene.TimeCode {
	var times []float64
	authored := false
	for _, attr := range attrs {
		if !attr.HasAuthoredValue() {
			continue
		}
		authored = true
		times = append(times, attr.TimeSamples()...)
	}
	if !authored {
		return nil
	}
	if len(times) == 0 {
		return []scene.TimeCode{scene.Default()}
	}
	return toTimeCodes(times)
}

func toTimeCodes(times []float64) []scene.TimeCode {
	sorted := slices.Clone(times)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	out := make([]scene.TimeCode, len(sorted))
	for i, t := range sorted {
		out[i] = scene.At(t)
	}
	return out
}

// ArchiveTimes converts write time codes into an archive sample-time list.
// A nil list means the property is static.
func ArchiveTimes(tcs []scene.TimeCode) []float64 {
	var times []float64
	for _, tc := range tcs {
		if t, ok := tc.Time(); ok {
			times = append(times, t)
		}
	}
	return times
}

// SceneTimes maps an archive sample-time list back to the time codes the
// values should be authored at: Default for a static property, otherwise
// one numeric time code per sample.
func SceneTimes(times []float64) []scene.TimeCode {
	if len(times) == 0 {
		return []scene.TimeCode{scene.Default()}
	}
	out := make([]scene.TimeCode, len(times))
	for i, t := range times {
		out[i] = scene.At(t)
	}
	return out
}

// Resolution is the outcome of mapping a scene query onto archive samples.
type Resolution struct {
	// Index is the archive sample to read. Meaningful unless UseDefault.
	Index int
	// Static is set when the property has one time-independent sample.
	Static bool
	// UseDefault is set when no archive sample applies and the caller should
	// return the attribute's default value.
	UseDefault bool
}

// ResolveReadTime maps query onto the sample list times of one property.
//
// Static properties (no times) resolve to their single sample without
// consulting the list. EarliestTime resolves to the first sample. A numeric
// time resolves to the sample at that time, or the latest sample before it,
// clamped to the ends of the list. Default queries on time-varying
// properties and NaN times are ambiguous: the result has UseDefault set and
// the error wraps faults.ErrTimeResolutionAmbiguity.
func ResolveReadTime(query scene.TimeCode, times []float64) (Resolution, error) {
	if len(times) == 0 {
		return Resolution{Index: 0, Static: true}, nil
	}

	switch query.Kind() {
	case scene.TimeEarliest:
		return Resolution{Index: 0}, nil
	case scene.TimeDefault:
		return Resolution{UseDefault: true}, fmt.Errorf("%w: default queried on a property with %d time samples",
			faults.ErrTimeResolutionAmbiguity, len(times))
	}

	t, _ := query.Time()
	if math.IsNaN(t) {
		return Resolution{UseDefault: true}, fmt.Errorf("%w: NaN sample time", faults.ErrTimeResolutionAmbiguity)
	}
	// first sample strictly after t
	idx := sort.Search(len(times), func(i int) bool { return times[i] > t })
	if idx == 0 {
		return Resolution{Index: 0}, nil
	}
	return Resolution{Index: idx - 1}, nil
}
