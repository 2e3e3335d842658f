package geom

import (
	"fmt"

	"usdabc/internal/gf"
	"usdabc/internal/scene"
)

// TypeName is the prim type identity of the schema.
const TypeName = "HermiteCurves"

// Attribute names defined by the schema.
const (
	AttrCurveVertexCounts = "curveVertexCounts"
	AttrPoints            = "points"
	AttrTangents          = "tangents"
	AttrWidths            = "widths"
	AttrNormals           = "normals"
	AttrVelocities        = "velocities"
)

var attrTypes = map[string]string{
	AttrCurveVertexCounts: "int[]",
	AttrPoints:            "point3f[]",
	AttrTangents:          "vector3f[]",
	AttrWidths:            "float[]",
	AttrNormals:           "normal3f[]",
	AttrVelocities:        "vector3f[]",
}

// HermiteCurves is a typed view over a prim of type HermiteCurves.
type HermiteCurves struct {
	prim *scene.Prim
}

// IsA reports whether prim carries the HermiteCurves type.
func IsA(prim *scene.Prim) bool {
	return prim != nil && prim.TypeName() == TypeName
}

// NewHermiteCurves wraps prim, reporting false when the prim is not a
// HermiteCurves prim.
func NewHermiteCurves(prim *scene.Prim) (HermiteCurves, bool) {
	if !IsA(prim) {
		return HermiteCurves{}, false
	}
	return HermiteCurves{prim: prim}, true
}

// DefineHermiteCurves defines (or retypes) the prim at path.
func DefineHermiteCurves(stage *scene.Stage, path scene.Path) (HermiteCurves, error) {
	prim, err := stage.DefinePrim(path, TypeName)
	if err != nil {
		return HermiteCurves{}, err
	}
	return HermiteCurves{prim: prim}, nil
}

// Prim returns the wrapped prim.
func (c HermiteCurves) Prim() *scene.Prim { return c.prim }

// Path returns the prim path.
func (c HermiteCurves) Path() scene.Path { return c.prim.Path() }

func (c HermiteCurves) GetCurveVertexCountsAttr() *scene.Attribute {
	return c.prim.GetAttribute(AttrCurveVertexCounts)
}
func (c HermiteCurves) GetPointsAttr() *scene.Attribute { return c.prim.GetAttribute(AttrPoints) }
func (c HermiteCurves) GetTangentsAttr() *scene.Attribute { return c.prim.GetAttribute(AttrTangents) }
func (c HermiteCurves) GetWidthsAttr() *scene.Attribute { return c.prim.GetAttribute(AttrWidths) }
func (c HermiteCurves) GetNormalsAttr() *scene.Attribute { return c.prim.GetAttribute(AttrNormals) }
func (c HermiteCurves) GetVelocitiesAttr() *scene.Attribute {
	return c.prim.GetAttribute(AttrVelocities)
}

// CreateAttr creates one of the schema attributes with its declared type.
func (c HermiteCurves) CreateAttr(name string) (*scene.Attribute, error) {
	typeName, ok := attrTypes[name]
	if !ok {
		return nil, fmt.Errorf("%s has no attribute %q", TypeName, name)
	}
	return c.prim.CreateAttribute(name, typeName)
}

// CurveVertexCounts returns the counts at tc.
func (c HermiteCurves) CurveVertexCounts(tc scene.TimeCode) ([]int32, bool) {
	return scene.Get[[]int32](c.GetCurveVertexCountsAttr(), tc)
}

// Points returns the points at tc.
func (c HermiteCurves) Points(tc scene.TimeCode) ([]gf.Vec3f, bool) {
	return scene.Get[[]gf.Vec3f](c.GetPointsAttr(), tc)
}

// Tangents returns the tangents at tc.
func (c HermiteCurves) Tangents(tc scene.TimeCode) ([]gf.Vec3f, bool) {
	return scene.Get[[]gf.Vec3f](c.GetTangentsAttr(), tc)
}

// Widths returns the widths at tc.
func (c HermiteCurves) Widths(tc scene.TimeCode) ([]float32, bool) {
	return scene.Get[[]float32](c.GetWidthsAttr(), tc)
}

// Normals returns the normals at tc.
func (c HermiteCurves) Normals(tc scene.TimeCode) ([]gf.Vec3f, bool) {
	return scene.Get[[]gf.Vec3f](c.GetNormalsAttr(), tc)
}

// Velocities returns the velocities at tc.
func (c HermiteCurves) Velocities(tc scene.TimeCode) ([]gf.Vec3f, bool) {
	return scene.Get[[]gf.Vec3f](c.GetVelocitiesAttr(), tc)
}

func (c HermiteCurves) SetCurveVertexCounts(v []int32, tc scene.TimeCode) error {
	return c.set(AttrCurveVertexCounts, scene.IntArray(v), tc)
}

func (c HermiteCurves) SetPoints(v []gf.Vec3f, tc scene.TimeCode) error {
	return c.set(AttrPoints, scene.Vec3fArray(v), tc)
}

func (c HermiteCurves) SetTangents(v []gf.Vec3f, tc scene.TimeCode) error {
	return c.set(AttrTangents, scene.Vec3fArray(v), tc)
}

func (c HermiteCurves) SetWidths(v []float32, tc scene.TimeCode) error {
	return c.set(AttrWidths, scene.FloatArray(v), tc)
}

func (c HermiteCurves) SetNormals(v []gf.Vec3f, tc scene.TimeCode) error {
	return c.set(AttrNormals, scene.Vec3fArray(v), tc)
}

func (c HermiteCurves) SetVelocities(v []gf.Vec3f, tc scene.TimeCode) error {
	return c.set(AttrVelocities, scene.Vec3fArray(v), tc)
}

func (c HermiteCurves) set(name string, value scene.Value, tc scene.TimeCode) error {
	attr, err := c.CreateAttr(name)
	if err != nil {
		return err
	}
	if err := attr.Set(value, tc); err != nil {
		return fmt.Errorf("%s.%s: %w", c.prim.Path(), name, err)
	}
	return nil
}

// WidthsInterpolationToken returns the raw authored token ("" when unset).
func (c HermiteCurves) WidthsInterpolationToken() string {
	return c.GetWidthsAttr().Interpolation()
}

// NormalsInterpolationToken returns the raw authored token ("" when unset).
func (c HermiteCurves) NormalsInterpolationToken() string {
	return c.GetNormalsAttr().Interpolation()
}

// GetWidthsInterpolation returns the widths token, or the schema default
// when none is authored.
func (c HermiteCurves) GetWidthsInterpolation() Interpolation {
	return tokenOrDefault(c.WidthsInterpolationToken())
}

// GetNormalsInterpolation returns the normals token, or the schema default
// when none is authored.
func (c HermiteCurves) GetNormalsInterpolation() Interpolation {
	return tokenOrDefault(c.NormalsInterpolationToken())
}

func (c HermiteCurves) SetWidthsInterpolation(i Interpolation) error {
	attr, err := c.CreateAttr(AttrWidths)
	if err != nil {
		return err
	}
	attr.SetInterpolation(string(i))
	return nil
}

func (c HermiteCurves) SetNormalsInterpolation(i Interpolation) error {
	attr, err := c.CreateAttr(AttrNormals)
	if err != nil {
		return err
	}
	attr.SetInterpolation(string(i))
	return nil
}

func tokenOrDefault(token string) Interpolation {
	if token == "" {
		return DefaultInterpolation
	}
	return Interpolation(token)
}

// Batch snapshots every schema attribute at tc. Unauthored arrays come back
// empty; interpolation tokens are returned as authored (or defaulted).
func (c HermiteCurves) Batch(tc scene.TimeCode) CurveBatch {
	counts, _ := c.CurveVertexCounts(tc)
	points, _ := c.Points(tc)
	tangents, _ := c.Tangents(tc)
	widths, _ := c.Widths(tc)
	normals, _ := c.Normals(tc)
	velocities, _ := c.Velocities(tc)
	return CurveBatch{
		VertexCounts:         counts,
		Points:               points,
		Tangents:             tangents,
		Widths:               widths,
		Normals:              normals,
		Velocities:           velocities,
		WidthsInterpolation:  c.GetWidthsInterpolation(),
		NormalsInterpolation: c.GetNormalsInterpolation(),
	}
}

// SetBatch authors counts, points, and tangents at tc, plus widths, normals,
// and velocities when non-empty, and both interpolation tokens.
func (c HermiteCurves) SetBatch(b CurveBatch, tc scene.TimeCode) error {
	if err := c.SetCurveVertexCounts(b.VertexCounts, tc); err != nil {
		return err
	}
	if err := c.SetPoints(b.Points, tc); err != nil {
		return err
	}
	if err := c.SetTangents(b.Tangents, tc); err != nil {
		return err
	}
	if len(b.Widths) > 0 {
		if err := c.SetWidths(b.Widths, tc); err != nil {
			return err
		}
		if err := c.SetWidthsInterpolation(tokenOrDefault(string(b.WidthsInterpolation))); err != nil {
			return err
		}
	}
	if len(b.Normals) > 0 {
		if err := c.SetNormals(b.Normals, tc); err != nil {
			return err
		}
		if err := c.SetNormalsInterpolation(tokenOrDefault(string(b.NormalsInterpolation))); err != nil {
			return err
		}
	}
	if len(b.Velocities) > 0 {
		return c.SetVelocities(b.Velocities, tc)
	}
	return nil
}
