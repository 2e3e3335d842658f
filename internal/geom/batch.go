package geom

import (
	"usdabc/internal/faults"
	"usdabc/internal/gf"
)

// CurveBatch is one prim's full curve set at one time sample.
type CurveBatch struct {
	VertexCounts         []int32
	Points               []gf.Vec3f
	Tangents             []gf.Vec3f
	Widths               []float32
	Normals              []gf.Vec3f
	Velocities           []gf.Vec3f
	WidthsInterpolation  Interpolation
	NormalsInterpolation Interpolation
}

// Span addresses one curve's vertices within the flat arrays.
type Span struct {
	Start int
	Count int
}

// End returns the exclusive end index.
func (s Span) End() int { return s.Start + s.Count }

// NumCurves returns the number of curves.
func (b CurveBatch) NumCurves() int { return len(b.VertexCounts) }

// NumVertices returns the sum of the vertex counts. Negative counts are
// ignored here; Validate reports them.
func (b CurveBatch) NumVertices() int {
	return SumCounts(b.VertexCounts)
}

// SumCounts totals non-negative vertex counts.
func SumCounts(counts []int32) int {
	total := 0
	for _, c := range counts {
		if c > 0 {
			total += int(c)
		}
	}
	return total
}

// Spans returns the per-curve vertex ranges.
func (b CurveBatch) Spans() []Span {
	return SpansOf(b.VertexCounts)
}

// SpansOf returns the vertex ranges described by counts.
func SpansOf(counts []int32) []Span {
	spans := make([]Span, len(counts))
	start := 0
	for i, c := range counts {
		n := max(int(c), 0)
		spans[i] = Span{Start: start, Count: n}
		start += n
	}
	return spans
}

// Validate checks the length relationships between the arrays. prim is used
// only for error context.
func (b CurveBatch) Validate(prim string) error {
	if err := ValidateTopology(prim, b.VertexCounts, len(b.Points), len(b.Tangents)); err != nil {
		return err
	}
	curves, verts := b.NumCurves(), b.NumVertices()
	if err := ValidateRate(prim, AttrWidths, b.WidthsInterpolation, len(b.Widths), curves, verts); err != nil {
		return err
	}
	if err := ValidateRate(prim, AttrNormals, b.NormalsInterpolation, len(b.Normals), curves, verts); err != nil {
		return err
	}
	if n := len(b.Velocities); n > 0 && n != len(b.Points) {
		return faults.Shapef(prim, AttrVelocities, "%d velocities for %d points", n, len(b.Points))
	}
	return nil
}

// ValidateTopology checks vertex counts against point and tangent lengths.
func ValidateTopology(prim string, counts []int32, points, tangents int) error {
	for i, c := range counts {
		if c < 2 {
			return faults.Shapef(prim, AttrCurveVertexCounts, "curve %d has %d vertices, need at least 2", i, c)
		}
	}
	total := SumCounts(counts)
	if points != tangents {
		return faults.Shapef(prim, AttrTangents, "%d tangents for %d points", tangents, points)
	}
	if points != total {
		return faults.Shapef(prim, AttrPoints, "%d points but vertex counts sum to %d", points, total)
	}
	return nil
}

// ValidateRate checks that an array of length n matches its interpolation.
// Empty arrays mean "not authored" and always pass.
func ValidateRate(prim, attr string, interp Interpolation, n, curves, verts int) error {
	if n == 0 {
		return nil
	}
	if want := interp.ExpectedLength(curves, verts); n != want {
		return faults.Shapef(prim, attr, "%s interpolation expects %d values, have %d", interp, want, n)
	}
	return nil
}
