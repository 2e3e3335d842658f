package hermite

import (
	"usdabc/internal/faults"
)

// Lerper interpolates between two per-vertex values. Hermite expansion never
// calls it; bezier expansion uses it for the handle positions.
type Lerper[T any] func(a, b T, t float32) T

// ExpandVertexRate lays per-vertex values (one per Hermite vertex) out on the
// native vertex layout described by counts. Hermite duplicates each value for
// its position/tangent pair; bezier keeps knot values and interpolates the
// handles at 1/3 and 2/3.
func ExpandVertexRate[T any](basis Basis, counts []int32, values []T, lerp Lerper[T]) ([]T, error) {
	total := 0
	for i, c := range counts {
		if c < 0 {
			return nil, faults.Shapef("", "", "curve %d has negative vertex count %d", i, c)
		}
		total += int(c)
	}
	if total != len(values) {
		return nil, faults.Shapef("", "", "%d vertex values for %d vertices", len(values), total)
	}

	out := make([]T, 0, basis.NativeCount(total))
	start := 0
	for _, c := range counts {
		span := values[start : start+int(c)]
		start += int(c)
		for i, v := range span {
			if basis != BasisBezier {
				out = append(out, v, v)
				continue
			}
			out = append(out, v)
			if i < len(span)-1 {
				next := span[i+1]
				out = append(out, lerp(v, next, 1.0/3.0), lerp(v, next, 2.0/3.0))
			}
		}
	}
	return out, nil
}

// CollapseVertexRate reverses ExpandVertexRate by keeping the value stored
// at each Hermite vertex's native slot.
func CollapseVertexRate[T any](basis Basis, nativeCounts []int32, values []T) ([]T, error) {
	total := 0
	for _, c := range nativeCounts {
		total += max(int(c), 0)
	}
	if total != len(values) {
		return nil, faults.Shapef("", "", "%d native vertex values for %d native vertices", len(values), total)
	}

	stride := 2
	if basis == BasisBezier {
		stride = 3
	}
	var out []T
	start := 0
	for i, c := range nativeCounts {
		n, ok := basis.HermiteCount(int(c))
		if !ok {
			return nil, faults.Shapef("", "", "curve %d: %d native vertices is not a valid %s curve", i, c, basis)
		}
		for j := 0; j < n; j++ {
			out = append(out, values[start+stride*j])
		}
		start += int(c)
	}
	return out, nil
}
