package hermite

import (
	"fmt"
	"math"

	"usdabc/internal/faults"
	"usdabc/internal/gf"
)

// DefaultMaxNativeVertices is the archive's limit on native vertices per
// sample; counts are stored as int32.
const DefaultMaxNativeVertices = math.MaxInt32

// Codec encodes whole curve batches for one basis.
type Codec struct {
	Basis Basis
	// MaxNativeVertices bounds the encoded vertex total. Zero means
	// DefaultMaxNativeVertices.
	MaxNativeVertices int
}

// Native is the archive-side curve payload for one sample.
type Native struct {
	Basis  Basis
	Counts []int32
	Points []gf.Vec3f
}

func (c Codec) basis() Basis {
	if c.Basis == "" {
		return BasisHermite
	}
	return c.Basis
}

func (c Codec) limit() int {
	if c.MaxNativeVertices <= 0 {
		return DefaultMaxNativeVertices
	}
	return c.MaxNativeVertices
}

// Encode converts every curve span. counts must already satisfy the batch
// invariants; Encode re-checks them and fails with faults.ErrShapeMismatch
// rather than producing a partial payload.
func (c Codec) Encode(counts []int32, points, tangents []gf.Vec3f) (Native, error) {
	basis := c.basis()
	if len(points) != len(tangents) {
		return Native{}, faults.Shapef("", "", "%d tangents for %d points", len(tangents), len(points))
	}

	total := 0
	for i, n := range counts {
		if n < 2 {
			return Native{}, faults.Shapef("", "", "curve %d has %d vertices, need at least 2", i, n)
		}
		nc := basis.NativeCount(int(n))
		if nc > math.MaxInt32 {
			return Native{}, overflow(fmt.Sprintf("curve %d needs %d native vertices", i, nc))
		}
		total += nc
		if total > c.limit() {
			return Native{}, overflow(fmt.Sprintf("native vertex count %d exceeds limit %d", total, c.limit()))
		}
	}

	out := Native{
		Basis:  basis,
		Counts: make([]int32, len(counts)),
		Points: make([]gf.Vec3f, 0, total),
	}
	start := 0
	for i, n := range counts {
		end := start + int(n)
		if end > len(points) {
			return Native{}, faults.Shapef("", "", "vertex counts need %d points, have %d", end, len(points))
		}
		native, err := EncodeCurve(basis, points[start:end], tangents[start:end])
		if err != nil {
			return Native{}, err
		}
		out.Counts[i] = int32(len(native))
		out.Points = append(out.Points, native...)
		start = end
	}
	if start != len(points) {
		return Native{}, faults.Shapef("", "", "vertex counts sum to %d, have %d points", start, len(points))
	}
	return out, nil
}

// Decode reverses Encode.
func (c Codec) Decode(n Native) (counts []int32, points, tangents []gf.Vec3f, err error) {
	basis := n.Basis
	if basis == "" {
		basis = c.basis()
	}
	counts = make([]int32, len(n.Counts))
	start := 0
	for i, nc := range n.Counts {
		hc, ok := basis.HermiteCount(int(nc))
		if !ok {
			return nil, nil, nil, faults.Shapef("", "", "curve %d: %d native vertices is not a valid %s curve", i, nc, basis)
		}
		end := start + int(nc)
		if end > len(n.Points) {
			return nil, nil, nil, faults.Shapef("", "", "native counts need %d vertices, have %d", end, len(n.Points))
		}
		p, t, err := DecodeCurve(basis, n.Points[start:end])
		if err != nil {
			return nil, nil, nil, err
		}
		counts[i] = int32(hc)
		points = append(points, p...)
		tangents = append(tangents, t...)
		start = end
	}
	if start != len(n.Points) {
		return nil, nil, nil, faults.Shapef("", "", "native counts sum to %d, have %d vertices", start, len(n.Points))
	}
	return counts, points, tangents, nil
}

func overflow(msg string) error {
	return faults.Wrap(faults.ErrEncodingOverflow, "", "", msg, nil)
}

// TangentDrift decodes n and returns the largest per-component difference
// between the decoded tangents and want. The hermite basis stores tangents
// verbatim; the bezier basis rebuilds them from float32 handles, so the error
// grows with coordinate magnitude.
func TangentDrift(n Native, want []gf.Vec3f) (float64, error) {
	_, _, got, err := Codec{Basis: n.Basis}.Decode(n)
	if err != nil {
		return 0, err
	}
	if len(got) != len(want) {
		return 0, faults.Shapef("", "", "decoded %d tangents, want %d", len(got), len(want))
	}
	var drift float64
	for i := range got {
		drift = max(drift,
			math.Abs(float64(got[i].X)-float64(want[i].X)),
			math.Abs(float64(got[i].Y)-float64(want[i].Y)),
			math.Abs(float64(got[i].Z)-float64(want[i].Z)),
		)
	}
	return drift, nil
}
