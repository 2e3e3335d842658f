package convert

import (
	"fmt"

	"usdabc/internal/archive"
	"usdabc/internal/faults"
	"usdabc/internal/geom"
	"usdabc/internal/gf"
	"usdabc/internal/hermite"
	"usdabc/internal/scene"
	"usdabc/internal/timesample"
)

// authorOp sets one decoded value on the target prim.
type authorOp func(geom.HermiteCurves) error

// curveObject is a curves object with its typed topology samples loaded.
type curveObject struct {
	obj       *archive.Object
	basis     hermite.Basis
	counts    *archive.Property
	positions *archive.Property
	nCounts   [][]int32
	nPoints   [][]gf.Vec3f
}

func loadCurveObject(obj *archive.Object) (*curveObject, error) {
	if obj.Schema != archive.SchemaCurves {
		return nil, fmt.Errorf("%s: object schema is %s, not %s", obj.Path, obj.Schema, archive.SchemaCurves)
	}
	basis, err := hermite.ParseBasis(obj.Basis)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", obj.Path, err)
	}
	co := &curveObject{
		obj:       obj,
		basis:     basis,
		counts:    obj.Property(PropVertexCounts),
		positions: obj.Property(PropPositions),
	}
	if co.counts == nil || co.positions == nil {
		return nil, faults.Shapef(obj.Path, PropPositions, "curves object needs %s and %s properties", PropVertexCounts, PropPositions)
	}
	if co.nCounts, err = archive.Values[int32](co.counts); err != nil {
		return nil, faults.Wrap(faults.ErrShapeMismatch, obj.Path, PropVertexCounts, "", err)
	}
	if co.nPoints, err = archive.Values[gf.Vec3f](co.positions); err != nil {
		return nil, faults.Wrap(faults.ErrShapeMismatch, obj.Path, PropPositions, "", err)
	}
	return co, nil
}

// countsAt returns the native counts that apply at tc. Static queries read
// the earliest topology sample.
func (co *curveObject) countsAt(tc scene.TimeCode) ([]int32, error) {
	res, err := timesample.ResolveReadTime(topologyTime(tc), co.counts.Times())
	if err != nil {
		return nil, err
	}
	return co.nCounts[res.Index], nil
}

// decodeTopology decodes the positions sample at index i.
func (co *curveObject) decodeTopology(i int, tc scene.TimeCode) (counts []int32, points, tangents []gf.Vec3f, err error) {
	nativeCounts, err := co.countsAt(tc)
	if err != nil {
		return nil, nil, nil, err
	}
	codec := hermite.Codec{Basis: co.basis}
	counts, points, tangents, err = codec.Decode(hermite.Native{Basis: co.basis, Counts: nativeCounts, Points: co.nPoints[i]})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", co.obj.Path, atTime(err, tc))
	}
	return counts, points, tangents, nil
}

// DecodeObject authors a curves object onto stage as a HermiteCurves prim.
// Everything is decoded before the prim is touched, so a failing object
// leaves the stage unchanged.
func DecodeObject(stage *scene.Stage, obj *archive.Object) ([]Issue, error) {
	path, err := scene.ParsePath(obj.Path)
	if err != nil {
		return nil, err
	}
	co, err := loadCurveObject(obj)
	if err != nil {
		return nil, err
	}

	var ops []authorOp
	for i, tc := range timesample.SceneTimes(co.positions.Times()) {
		counts, points, tangents, err := co.decodeTopology(i, tc)
		if err != nil {
			return nil, err
		}
		ops = append(ops, func(c geom.HermiteCurves) error {
			if err := c.SetCurveVertexCounts(counts, tc); err != nil {
				return err
			}
			if err := c.SetPoints(points, tc); err != nil {
				return err
			}
			return c.SetTangents(tangents, tc)
		})
	}

	var issues []Issue
	if prop := obj.Property(PropWidths); prop != nil {
		rateOps, rateIssues, err := decodeRate(co, prop, geom.AttrWidths,
			geom.HermiteCurves.SetWidths, geom.HermiteCurves.SetWidthsInterpolation)
		if err != nil {
			return nil, err
		}
		ops = append(ops, rateOps...)
		issues = append(issues, rateIssues...)
	}
	if prop := obj.Property(PropNormals); prop != nil {
		rateOps, rateIssues, err := decodeRate(co, prop, geom.AttrNormals,
			geom.HermiteCurves.SetNormals, geom.HermiteCurves.SetNormalsInterpolation)
		if err != nil {
			return nil, err
		}
		ops = append(ops, rateOps...)
		issues = append(issues, rateIssues...)
	}
	ops = append(ops, func(c geom.HermiteCurves) error {
		return c.SetVelocities([]gf.Vec3f{}, scene.Default())
	})

	curves, err := geom.DefineHermiteCurves(stage, path)
	if err != nil {
		return issues, err
	}
	for _, op := range ops {
		if err := op(curves); err != nil {
			return issues, err
		}
	}
	return issues, nil
}

// decodeRate maps a widths- or normals-like property back to per-time
// values. Vertex-rate samples are collapsed from the native layout using the
// topology at the same time.
func decodeRate[T archive.Element](
	co *curveObject,
	prop *archive.Property,
	attrName string,
	set func(geom.HermiteCurves, []T, scene.TimeCode) error,
	setInterp func(geom.HermiteCurves, geom.Interpolation) error,
) ([]authorOp, []Issue, error) {
	var issues []Issue
	interp, err := geom.ParseInterpolation(prop.Scope)
	if err != nil {
		issues = append(issues, warningIssue(attrName, err))
	}
	samples, err := archive.Values[T](prop)
	if err != nil {
		return nil, issues, faults.Wrap(faults.ErrShapeMismatch, co.obj.Path, attrName, "", err)
	}

	var ops []authorOp
	if prop.Static && len(samples) == 1 && len(samples[0]) == 0 {
		// token only
		return append(ops, func(c geom.HermiteCurves) error { return setInterp(c, interp) }), issues, nil
	}
	for i, tc := range timesample.SceneTimes(prop.Times()) {
		values, err := collapse(co, interp, samples[i], tc)
		if err != nil {
			return nil, issues, fmt.Errorf("%s: %s: %w", co.obj.Path, attrName, err)
		}
		ops = append(ops, func(c geom.HermiteCurves) error { return set(c, values, tc) })
	}
	ops = append(ops, func(c geom.HermiteCurves) error { return setInterp(c, interp) })
	return ops, issues, nil
}

func collapse[T archive.Element](co *curveObject, interp geom.Interpolation, values []T, tc scene.TimeCode) ([]T, error) {
	if interp != geom.Vertex || len(values) == 0 {
		return values, nil
	}
	nativeCounts, err := co.countsAt(tc)
	if err != nil {
		return nil, err
	}
	return hermite.CollapseVertexRate(co.basis, nativeCounts, values)
}

// ReadCurves evaluates a curves object at tc the way a scene query would.
// Properties whose samples cannot be resolved for tc come back empty with a
// warning issue, mirroring an attribute that has no value at that time.
func ReadCurves(obj *archive.Object, tc scene.TimeCode) (geom.CurveBatch, []Issue, error) {
	co, err := loadCurveObject(obj)
	if err != nil {
		return geom.CurveBatch{}, nil, err
	}
	batch := geom.CurveBatch{WidthsInterpolation: geom.DefaultInterpolation, NormalsInterpolation: geom.DefaultInterpolation}
	var issues []Issue

	res, err := timesample.ResolveReadTime(tc, co.positions.Times())
	if err != nil {
		issues = append(issues, warningIssue(geom.AttrPoints, err))
	}
	if !res.UseDefault {
		at := tc
		if !co.positions.Static {
			at = scene.At(co.positions.Samples[res.Index].Time)
		}
		batch.VertexCounts, batch.Points, batch.Tangents, err = co.decodeTopology(res.Index, at)
		if err != nil {
			return geom.CurveBatch{}, issues, err
		}
	}

	if prop := obj.Property(PropWidths); prop != nil {
		values, interp, rateIssues, err := readRate[float32](co, prop, geom.AttrWidths, tc)
		if err != nil {
			return geom.CurveBatch{}, issues, err
		}
		batch.Widths, batch.WidthsInterpolation = values, interp
		issues = append(issues, rateIssues...)
	}
	if prop := obj.Property(PropNormals); prop != nil {
		values, interp, rateIssues, err := readRate[gf.Vec3f](co, prop, geom.AttrNormals, tc)
		if err != nil {
			return geom.CurveBatch{}, issues, err
		}
		batch.Normals, batch.NormalsInterpolation = values, interp
		issues = append(issues, rateIssues...)
	}
	return batch, issues, nil
}

func readRate[T archive.Element](co *curveObject, prop *archive.Property, attrName string, tc scene.TimeCode) ([]T, geom.Interpolation, []Issue, error) {
	var issues []Issue
	interp, err := geom.ParseInterpolation(prop.Scope)
	if err != nil {
		issues = append(issues, warningIssue(attrName, err))
	}
	res, err := timesample.ResolveReadTime(tc, prop.Times())
	if err != nil {
		issues = append(issues, warningIssue(attrName, err))
	}
	if res.UseDefault {
		return nil, interp, issues, nil
	}
	samples, err := archive.Values[T](prop)
	if err != nil {
		return nil, interp, issues, faults.Wrap(faults.ErrShapeMismatch, co.obj.Path, attrName, "", err)
	}
	at := tc
	if !prop.Static {
		at = scene.At(prop.Samples[res.Index].Time)
	}
	values, err := collapse(co, interp, samples[res.Index], at)
	if err != nil {
		return nil, interp, issues, fmt.Errorf("%s: %s: %w", co.obj.Path, attrName, err)
	}
	return values, interp, issues, nil
}
