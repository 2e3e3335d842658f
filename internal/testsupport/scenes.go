package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"usdabc/internal/archive"
	"usdabc/internal/geom"
	"usdabc/internal/gf"
	"usdabc/internal/scene"
)

// Fixture prim paths.
const (
	RibbonsPath    = "/Cubic/Ribbons/VaryingWidth"
	TubesPath      = "/Cubic/Tubes/WithVelocities"
	MalformedPath  = "/Cubic/Broken/Mismatched"
	AnimatedPath   = "/Cubic/Animated/Wave"
	VertexRatePath = "/Cubic/Ribbons/VertexWidth"
)

// RibbonBatch is a single three-vertex curve with varying widths and normals.
func RibbonBatch() geom.CurveBatch {
	up := gf.Vec3(0, 0, 1)
	return geom.CurveBatch{
		VertexCounts:         []int32{3},
		Points:               []gf.Vec3f{gf.Vec3(0, 0, 0), gf.Vec3(1, 1, 0), gf.Vec3(2, 0, 0)},
		Tangents:             []gf.Vec3f{gf.Vec3(0, 1, 0), gf.Vec3(1, 0, 0), gf.Vec3(0, -1, 0)},
		Widths:               []float32{0, 0.5, 0},
		Normals:              []gf.Vec3f{up, up, up},
		WidthsInterpolation:  geom.Varying,
		NormalsInterpolation: geom.Varying,
	}
}

// TubeBatch is a single two-vertex curve carrying velocities.
func TubeBatch() geom.CurveBatch {
	return geom.CurveBatch{
		VertexCounts:        []int32{2},
		Points:              []gf.Vec3f{gf.Vec3(0, 0, 0), gf.Vec3(0, 2, 0)},
		Tangents:            []gf.Vec3f{gf.Vec3(0, 1, 0), gf.Vec3(0, 1, 0)},
		Widths:              []float32{0.1, 0.2},
		Velocities:          []gf.Vec3f{gf.Vec3(0, 0, 0), gf.Vec3(0, 0, 0)},
		WidthsInterpolation: geom.Varying,
	}
}

// DefineCurves authors batch on a new HermiteCurves prim at path and time tc.
func DefineCurves(t testing.TB, stage *scene.Stage, path string, batch geom.CurveBatch, tc scene.TimeCode) geom.HermiteCurves {
	t.Helper()

	curves, err := geom.DefineHermiteCurves(stage, scene.MustParsePath(path))
	if err != nil {
		t.Fatalf("define %s: %v", path, err)
	}
	if err := curves.SetBatch(batch, tc); err != nil {
		t.Fatalf("author %s: %v", path, err)
	}
	return curves
}

// ScenarioStage returns a stage holding the ribbon and tube fixtures
// authored as defaults.
func ScenarioStage(t testing.TB) *scene.Stage {
	t.Helper()

	stage := scene.NewStage()
	DefineCurves(t, stage, RibbonsPath, RibbonBatch(), scene.Default())
	DefineCurves(t, stage, TubesPath, TubeBatch(), scene.Default())
	return stage
}

// AddMalformed authors a prim whose points and tangents disagree in length.
func AddMalformed(t testing.TB, stage *scene.Stage) {
	t.Helper()

	batch := RibbonBatch()
	batch.Tangents = batch.Tangents[:2]
	DefineCurves(t, stage, MalformedPath, batch, scene.Default())
}

// AddAnimated authors a two-vertex curve sampled at each of times. Points
// move along x by the sample time.
func AddAnimated(t testing.TB, stage *scene.Stage, times ...float64) geom.HermiteCurves {
	t.Helper()

	curves, err := geom.DefineHermiteCurves(stage, scene.MustParsePath(AnimatedPath))
	if err != nil {
		t.Fatalf("define %s: %v", AnimatedPath, err)
	}
	for _, tm := range times {
		x := float32(tm)
		batch := geom.CurveBatch{
			VertexCounts: []int32{2},
			Points:       []gf.Vec3f{gf.Vec3(x, 0, 0), gf.Vec3(x, 1, 0)},
			Tangents:     []gf.Vec3f{gf.Vec3(0, 1, 0), gf.Vec3(0, 1, 0)},
			Widths:       []float32{x},
		}
		if err := curves.SetBatch(batch, scene.At(tm)); err != nil {
			t.Fatalf("author %s at %v: %v", AnimatedPath, tm, err)
		}
	}
	if err := curves.SetWidthsInterpolation(geom.Constant); err != nil {
		t.Fatalf("set widths interpolation: %v", err)
	}
	return curves
}

// SaveStage writes stage as a scene document under dir and returns its path.
func SaveStage(t testing.TB, stage *scene.Stage, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := stage.Save(path); err != nil {
		t.Fatalf("save stage: %v", err)
	}
	return path
}

// MustOpenArchive opens an archive for reading and registers cleanup.
func MustOpenArchive(t testing.TB, path string) *archive.Reader {
	t.Helper()

	reader, err := archive.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	t.Cleanup(func() {
		reader.Close()
	})
	return reader
}
