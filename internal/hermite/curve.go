package hermite

import (
	"usdabc/internal/faults"
	"usdabc/internal/gf"
)

// EncodeHermiteToNative interleaves one curve's positions and tangents in the
// hermite basis.
func EncodeHermiteToNative(points, tangents []gf.Vec3f) ([]gf.Vec3f, error) {
	return EncodeCurve(BasisHermite, points, tangents)
}

// DecodeNativeToHermite reverses EncodeHermiteToNative.
func DecodeNativeToHermite(native []gf.Vec3f) (points, tangents []gf.Vec3f, err error) {
	return DecodeCurve(BasisHermite, native)
}

// EncodeCurve converts one curve of at least two vertices to basis.
func EncodeCurve(basis Basis, points, tangents []gf.Vec3f) ([]gf.Vec3f, error) {
	n := len(points)
	if n != len(tangents) {
		return nil, faults.Shapef("", "", "%d tangents for %d points", len(tangents), n)
	}
	if n < 2 {
		return nil, faults.Shapef("", "", "curve has %d vertices, need at least 2", n)
	}

	out := make([]gf.Vec3f, basis.NativeCount(n))
	if basis == BasisBezier {
		for i := 0; i < n; i++ {
			out[3*i] = points[i]
			if i == n-1 {
				break
			}
			out[3*i+1] = offset(points[i], tangents[i], 1.0/3.0)
			out[3*i+2] = offset(points[i+1], tangents[i+1], -1.0/3.0)
		}
		return out, nil
	}

	for i := 0; i < n; i++ {
		out[2*i] = points[i]
		out[2*i+1] = tangents[i]
	}
	return out, nil
}

// DecodeCurve recovers one curve's positions and tangents.
func DecodeCurve(basis Basis, native []gf.Vec3f) (points, tangents []gf.Vec3f, err error) {
	n, ok := basis.HermiteCount(len(native))
	if !ok {
		return nil, nil, faults.Shapef("", "", "%d native vertices is not a valid %s curve", len(native), basis)
	}
	points = make([]gf.Vec3f, n)
	tangents = make([]gf.Vec3f, n)

	if basis == BasisBezier {
		for i := 0; i < n; i++ {
			points[i] = native[3*i]
			if i < n-1 {
				// outgoing handle
				tangents[i] = handleTangent(native[3*i], native[3*i+1])
			} else {
				// incoming handle of the final knot
				tangents[i] = handleTangent(native[3*i-1], native[3*i])
			}
		}
		return points, tangents, nil
	}

	for i := 0; i < n; i++ {
		points[i] = native[2*i]
		tangents[i] = native[2*i+1]
	}
	return points, tangents, nil
}

// offset returns p + s*t evaluated in double precision.
func offset(p, t gf.Vec3f, s float64) gf.Vec3f {
	return gf.Vec3f{
		X: float32(float64(p.X) + s*float64(t.X)),
		Y: float32(float64(p.Y) + s*float64(t.Y)),
		Z: float32(float64(p.Z) + s*float64(t.Z)),
	}
}

// handleTangent returns 3*(b-a) evaluated in double precision.
func handleTangent(a, b gf.Vec3f) gf.Vec3f {
	return gf.Vec3f{
		X: float32(3 * (float64(b.X) - float64(a.X))),
		Y: float32(3 * (float64(b.Y) - float64(a.Y))),
		Z: float32(3 * (float64(b.Z) - float64(a.Z))),
	}
}
