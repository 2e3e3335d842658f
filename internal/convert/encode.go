package convert

import (
	"fmt"

	"usdabc/internal/archive"
	"usdabc/internal/geom"
	"usdabc/internal/gf"
	"usdabc/internal/hermite"
	"usdabc/internal/scene"
	"usdabc/internal/timesample"
)

// Archive property names of a curves object.
const (
	PropVertexCounts = "nVertices"
	PropPositions    = "P"
	PropWidths       = "width"
	PropNormals      = "N"
)

// topologyScope is recorded for the per-curve counts and per-native-vertex
// positions.
const (
	scopeUniform = "uniform"
	scopeVertex  = "vertex"
)

func lerpFloat(a, b float32, t float32) float32 { return a + (b-a)*t }

// EncodePrim converts one HermiteCurves prim into an archive curves object.
// Degradations that still allow conversion come back as issues. A non-nil
// error means nothing of the prim may be written.
func EncodePrim(curves geom.HermiteCurves, codec hermite.Codec) (archive.Object, []Issue, error) {
	if codec.Basis == "" {
		codec.Basis = hermite.BasisHermite
	}
	path := curves.Path().String()
	var issues []Issue

	widthsInterp, err := geom.ParseInterpolation(curves.WidthsInterpolationToken())
	if err != nil {
		issues = append(issues, warningIssue(geom.AttrWidths, err))
	}
	normalsInterp, err := geom.ParseInterpolation(curves.NormalsInterpolationToken())
	if err != nil {
		issues = append(issues, warningIssue(geom.AttrNormals, err))
	}

	if hasData(curves.GetVelocitiesAttr()) {
		issues = append(issues, Issue{
			Kind:      KindVelocitiesDropped,
			Severity:  SeverityInfo,
			Attribute: geom.AttrVelocities,
			Message:   "velocities are not carried into the archive",
		})
	}

	topoTimes := topologyTimes(curves)
	counts, positions, drift, err := encodeTopology(curves, codec, topoTimes)
	if err != nil {
		return archive.Object{}, issues, err
	}
	if drift > gf.DefaultTolerance {
		issues = append(issues, Issue{
			Kind:      KindBasisPrecision,
			Severity:  SeverityWarning,
			Attribute: geom.AttrTangents,
			Message: fmt.Sprintf("%s basis reproduces tangents within %.3g, above tolerance %g",
				codec.Basis, drift, gf.DefaultTolerance),
		})
	}
	props := []archive.Property{counts, positions}

	widths, err := encodeRate(curves, curves.GetWidthsAttr(), geom.AttrWidths, PropWidths, widthsInterp,
		codec.Basis, topoTimes, curves.Widths, lerpFloat)
	if err != nil {
		return archive.Object{}, issues, err
	}
	if widths != nil {
		props = append(props, *widths)
	}
	normals, err := encodeRate(curves, curves.GetNormalsAttr(), geom.AttrNormals, PropNormals, normalsInterp,
		codec.Basis, topoTimes, curves.Normals, gf.Vec3f.Lerp)
	if err != nil {
		return archive.Object{}, issues, err
	}
	if normals != nil {
		props = append(props, *normals)
	}

	return archive.Object{
		Path:       path,
		Parent:     curves.Path().Parent().String(),
		Schema:     archive.SchemaCurves,
		SourceType: geom.TypeName,
		Basis:      string(codec.Basis),
		CurveType:  archive.CurveTypeCubic,
		Wrap:       archive.WrapNonPeriodic,
		Properties: props,
	}, issues, nil
}

// topologyTimes returns the union of the counts, points, and tangents
// write times, or [Default] when none of them is authored.
func topologyTimes(curves geom.HermiteCurves) []scene.TimeCode {
	tcs := timesample.UnionWriteTimes(
		curves.GetCurveVertexCountsAttr(),
		curves.GetPointsAttr(),
		curves.GetTangentsAttr(),
	)
	if tcs == nil {
		return []scene.TimeCode{scene.Default()}
	}
	return tcs
}

// encodeTopology encodes counts, points, and tangents together at tcs. It
// also returns the largest tangent error a decode of the payload would show.
func encodeTopology(curves geom.HermiteCurves, codec hermite.Codec, tcs []scene.TimeCode) (archive.Property, archive.Property, float64, error) {
	path := curves.Path().String()
	var drift float64

	countSamples := make([][]int32, 0, len(tcs))
	pointSamples := make([][]gf.Vec3f, 0, len(tcs))
	for _, tc := range tcs {
		counts, _ := curves.CurveVertexCounts(tc)
		points, _ := curves.Points(tc)
		tangents, _ := curves.Tangents(tc)
		if err := geom.ValidateTopology(path, counts, len(points), len(tangents)); err != nil {
			return archive.Property{}, archive.Property{}, 0, atTime(err, tc)
		}
		native, err := codec.Encode(counts, points, tangents)
		if err != nil {
			return archive.Property{}, archive.Property{}, 0, fmt.Errorf("%s: %w", path, atTime(err, tc))
		}
		if codec.Basis != hermite.BasisHermite {
			d, err := hermite.TangentDrift(native, tangents)
			if err != nil {
				return archive.Property{}, archive.Property{}, 0, fmt.Errorf("%s: %w", path, atTime(err, tc))
			}
			drift = max(drift, d)
		}
		countSamples = append(countSamples, native.Counts)
		pointSamples = append(pointSamples, native.Points)
	}

	times := timesample.ArchiveTimes(tcs)
	counts, err := archive.NewProperty(PropVertexCounts, scopeUniform, times, countSamples)
	if err != nil {
		return archive.Property{}, archive.Property{}, 0, err
	}
	positions, err := archive.NewProperty(PropPositions, scopeVertex, times, pointSamples)
	if err != nil {
		return archive.Property{}, archive.Property{}, 0, err
	}
	return counts, positions, drift, nil
}

// encodeRate encodes a widths- or normals-like attribute at its own sample
// times. A static value over animated topology is checked against every
// topology sample; at vertex rate it is written once per topology sample
// because the native layout follows the counts. Vertex-rate values are laid
// out on the native vertices of the topology at the same time. An authored
// token without values is kept as an empty static property. It returns nil
// when nothing is authored.
func encodeRate[T archive.Element](
	curves geom.HermiteCurves,
	attr *scene.Attribute,
	attrName, propName string,
	interp geom.Interpolation,
	basis hermite.Basis,
	topoTimes []scene.TimeCode,
	get func(scene.TimeCode) ([]T, bool),
	lerp hermite.Lerper[T],
) (*archive.Property, error) {
	path := curves.Path().String()
	tcs := timesample.ResolveWriteTimes(attr)
	if tcs == nil {
		if attr.Interpolation() == "" {
			return nil, nil
		}
		prop, err := archive.NewProperty(propName, string(interp), nil, [][]T{{}})
		if err != nil {
			return nil, err
		}
		return &prop, nil
	}

	static := len(tcs) == 1 && tcs[0].IsDefault()
	animatedTopology := !topoTimes[0].IsDefault()
	if static && animatedTopology {
		values, _ := get(scene.Default())
		for _, tc := range topoTimes {
			counts, _ := curves.CurveVertexCounts(tc)
			if err := geom.ValidateRate(path, attrName, interp, len(values), len(counts), geom.SumCounts(counts)); err != nil {
				return nil, atTime(err, tc)
			}
		}
		if interp == geom.Vertex && len(values) > 0 {
			tcs = topoTimes
		}
	}

	samples := make([][]T, 0, len(tcs))
	for _, tc := range tcs {
		values, _ := get(tc)
		counts, _ := curves.CurveVertexCounts(topologyTime(tc))
		if err := geom.ValidateRate(path, attrName, interp, len(values), len(counts), geom.SumCounts(counts)); err != nil {
			return nil, atTime(err, tc)
		}
		if interp == geom.Vertex && len(values) > 0 {
			expanded, err := hermite.ExpandVertexRate(basis, counts, values, lerp)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", path, attrName, atTime(err, tc))
			}
			values = expanded
		}
		samples = append(samples, values)
	}

	prop, err := archive.NewProperty(propName, string(interp), timesample.ArchiveTimes(tcs), samples)
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

// topologyTime picks the topology sample a static rate attribute is laid out
// against when the topology is static too: the earliest one.
func topologyTime(tc scene.TimeCode) scene.TimeCode {
	if tc.IsDefault() {
		return scene.EarliestTime()
	}
	return tc
}

// hasData reports whether attr holds a non-empty value at any authored time.
func hasData(attr *scene.Attribute) bool {
	if v, ok := attr.Get(scene.Default()); ok && v.Len() > 0 {
		return true
	}
	for _, t := range attr.TimeSamples() {
		if v, ok := attr.Get(scene.At(t)); ok && v.Len() > 0 {
			return true
		}
	}
	return false
}
