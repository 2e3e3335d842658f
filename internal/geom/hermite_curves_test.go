package geom

import (
	"errors"
	"testing"

	"usdabc/internal/faults"
	"usdabc/internal/gf"
	"usdabc/internal/scene"
)

func ribbonBatch() CurveBatch {
	return CurveBatch{
		VertexCounts:         []int32{3},
		Points:               []gf.Vec3f{gf.Vec3(0, 0, 0), gf.Vec3(1, 1, 0), gf.Vec3(2, 0, 0)},
		Tangents:             []gf.Vec3f{gf.Vec3(0, 1, 0), gf.Vec3(1, 0, 0), gf.Vec3(0, -1, 0)},
		Widths:               []float32{0, 0.5, 0},
		Normals:              []gf.Vec3f{gf.Vec3(0, 0, 1), gf.Vec3(0, 0, 1), gf.Vec3(0, 0, 1)},
		WidthsInterpolation:  Varying,
		NormalsInterpolation: Varying,
	}
}

func TestSetBatchAndReadBack(t *testing.T) {
	stage := scene.NewStage()
	curves, err := DefineHermiteCurves(stage, scene.MustParsePath("/Cubic/Ribbons/VaryingWidth"))
	if err != nil {
		t.Fatalf("DefineHermiteCurves: %v", err)
	}
	if err := curves.SetBatch(ribbonBatch(), scene.Default()); err != nil {
		t.Fatalf("SetBatch: %v", err)
	}

	prim := stage.GetPrimAtPath("/Cubic/Ribbons/VaryingWidth")
	wrapped, ok := NewHermiteCurves(prim)
	if !ok {
		t.Fatal("expected prim to be recognised as HermiteCurves")
	}
	got := wrapped.Batch(scene.EarliestTime())
	if err := got.Validate(string(prim.Path())); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := ribbonBatch()
	if !gf.AllClose(got.Points, want.Points, gf.DefaultTolerance) {
		t.Fatalf("points = %v", got.Points)
	}
	if !gf.AllClose(got.Tangents, want.Tangents, gf.DefaultTolerance) {
		t.Fatalf("tangents = %v", got.Tangents)
	}
	if got.WidthsInterpolation != Varying || got.NormalsInterpolation != Varying {
		t.Fatalf("interpolation = %s/%s", got.WidthsInterpolation, got.NormalsInterpolation)
	}
	if len(got.Velocities) != 0 {
		t.Fatalf("unexpected velocities %v", got.Velocities)
	}
	if wrapped.GetVelocitiesAttr() != nil {
		t.Fatal("SetBatch authored velocities for an empty array")
	}
}

func TestInterpolationDefaultsToVarying(t *testing.T) {
	stage := scene.NewStage()
	curves, err := DefineHermiteCurves(stage, scene.MustParsePath("/C"))
	if err != nil {
		t.Fatalf("DefineHermiteCurves: %v", err)
	}
	if curves.GetWidthsInterpolation() != Varying {
		t.Fatalf("widths default = %s", curves.GetWidthsInterpolation())
	}
	if err := curves.SetNormalsInterpolation(Uniform); err != nil {
		t.Fatalf("SetNormalsInterpolation: %v", err)
	}
	if curves.GetNormalsInterpolation() != Uniform {
		t.Fatalf("normals = %s", curves.GetNormalsInterpolation())
	}
	if curves.WidthsInterpolationToken() != "" {
		t.Fatal("expected no authored widths token")
	}
}

func TestNewHermiteCurvesRejectsOtherTypes(t *testing.T) {
	stage := scene.NewStage()
	prim, err := stage.DefinePrim(scene.MustParsePath("/Xf"), "Xform")
	if err != nil {
		t.Fatalf("DefinePrim: %v", err)
	}
	if _, ok := NewHermiteCurves(prim); ok {
		t.Fatal("Xform prim accepted as HermiteCurves")
	}
	if IsA(nil) {
		t.Fatal("nil prim accepted")
	}
}

func TestCreateAttrRejectsUnknownNames(t *testing.T) {
	stage := scene.NewStage()
	curves, _ := DefineHermiteCurves(stage, scene.MustParsePath("/C"))
	if _, err := curves.CreateAttr("basis"); err == nil {
		t.Fatal("expected unknown attribute error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CurveBatch)
		attr   string
	}{
		{"tangent count", func(b *CurveBatch) { b.Tangents = b.Tangents[:2] }, "tangents"},
		{"vertex sum", func(b *CurveBatch) { b.VertexCounts = []int32{4} }, "points"},
		{"single vertex curve", func(b *CurveBatch) { b.VertexCounts = []int32{1, 2} }, "curveVertexCounts"},
		{"widths length", func(b *CurveBatch) { b.Widths = []float32{1, 2} }, "widths"},
		{"uniform normals", func(b *CurveBatch) { b.NormalsInterpolation = Uniform }, "normals"},
		{"velocities length", func(b *CurveBatch) { b.Velocities = []gf.Vec3f{{}} }, "velocities"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ribbonBatch()
			tt.mutate(&b)
			err := b.Validate("/P")
			if !errors.Is(err, faults.ErrShapeMismatch) {
				t.Fatalf("expected shape mismatch, got %v", err)
			}
		})
	}

	ok := ribbonBatch()
	ok.Widths = []float32{1}
	ok.WidthsInterpolation = Constant
	ok.Normals = nil
	if err := ok.Validate("/P"); err != nil {
		t.Fatalf("constant widths rejected: %v", err)
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		token       string
		want        Interpolation
		unsupported bool
	}{
		{"", Varying, false},
		{"constant", Constant, false},
		{"uniform", Uniform, false},
		{"varying", Varying, false},
		{"vertex", Vertex, false},
		{"faceVarying", Varying, true},
		{"bogus", Varying, true},
	}
	for _, tt := range tests {
		got, err := ParseInterpolation(tt.token)
		if got != tt.want {
			t.Fatalf("ParseInterpolation(%q) = %s, want %s", tt.token, got, tt.want)
		}
		if errors.Is(err, faults.ErrUnsupportedInterpolation) != tt.unsupported {
			t.Fatalf("ParseInterpolation(%q) err = %v", tt.token, err)
		}
	}
}

func TestSpansOf(t *testing.T) {
	spans := SpansOf([]int32{3, 2, 4})
	want := []Span{{0, 3}, {3, 2}, {5, 4}}
	if len(spans) != len(want) {
		t.Fatalf("spans = %v", spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d = %v, want %v", i, spans[i], want[i])
		}
	}
	if spans[2].End() != 9 {
		t.Fatalf("End = %d", spans[2].End())
	}
}
