package gf

import "math"

// DefaultTolerance is the absolute per-component tolerance used when comparing
// round-tripped curve payloads.
const DefaultTolerance = 1e-5

// IsClose reports whether every component of a and b differs by at most tol.
func IsClose(a, b Vec3f, tol float64) bool {
	return IsCloseFloat(a.X, b.X, tol) &&
		IsCloseFloat(a.Y, b.Y, tol) &&
		IsCloseFloat(a.Z, b.Z, tol)
}

// IsCloseFloat reports whether a and b differ by at most tol.
func IsCloseFloat(a, b float32, tol float64) bool {
	return math.Abs(float64(a)-float64(b)) <= tol
}

// AllClose reports whether two vector sequences have the same length and are
// element-wise close.
func AllClose(a, b []Vec3f, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !IsClose(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// AllCloseFloat is the scalar counterpart of AllClose.
func AllCloseFloat(a, b []float32, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !IsCloseFloat(a[i], b[i], tol) {
			return false
		}
	}
	return true
}
