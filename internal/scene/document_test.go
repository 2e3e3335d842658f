package scene

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"usdabc/internal/gf"
)

const ribbonDoc = `
prims:
  - path: /Cubic
    type: Xform
  - path: /Cubic/Ribbons/VaryingWidth
    type: HermiteCurves
    attributes:
      - name: curveVertexCounts
        type: int[]
        default: [3]
      - name: points
        type: point3f[]
        default: [[0, 0, 0], [1, 1, 0], [2, 0, 0]]
      - name: widths
        type: float[]
        interpolation: varying
        samples:
          - time: 0
            value: [0, 0.5, 0]
          - time: 1
            value: [0, 1, 0]
`

func TestDecodeSceneDocument(t *testing.T) {
	stage, err := Decode(strings.NewReader(ribbonDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	prim := stage.GetPrimAtPath("/Cubic/Ribbons/VaryingWidth")
	if prim == nil || prim.TypeName() != "HermiteCurves" {
		t.Fatalf("unexpected prim %#v", prim)
	}
	if parent := stage.GetPrimAtPath("/Cubic/Ribbons"); parent == nil || parent.TypeName() != "" {
		t.Fatalf("expected typeless ancestor, got %#v", parent)
	}

	points, ok := Get[[]gf.Vec3f](prim.GetAttribute("points"), EarliestTime())
	if !ok || len(points) != 3 || points[1] != gf.Vec3(1, 1, 0) {
		t.Fatalf("points = %v %v", points, ok)
	}
	widths := prim.GetAttribute("widths")
	if widths.Interpolation() != "varying" {
		t.Fatalf("interpolation = %q", widths.Interpolation())
	}
	if got := widths.TimeSamples(); len(got) != 2 {
		t.Fatalf("time samples = %v", got)
	}
}

func TestDecodeRejectsUnknownFieldsAndTypes(t *testing.T) {
	if _, err := Decode(strings.NewReader("prims:\n  - path: /A\n    colour: red\n")); err == nil {
		t.Fatal("expected unknown field error")
	}
	bad := "prims:\n  - path: /A\n    attributes:\n      - name: x\n        type: matrix4d\n"
	if _, err := Decode(strings.NewReader(bad)); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestStageSaveAndOpenRoundTrip(t *testing.T) {
	stage, err := Decode(strings.NewReader(ribbonDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "nested", "scene.yaml")
	if err := stage.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reopened, err := OpenStage(path)
	if err != nil {
		t.Fatalf("OpenStage: %v", err)
	}

	var a, b bytes.Buffer
	if err := stage.Encode(&a); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := reopened.Encode(&b); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("documents differ:\n%s\n---\n%s", a.String(), b.String())
	}
}

func TestTraverseOrdersParentsFirst(t *testing.T) {
	stage := NewStage()
	for _, p := range []string{"/B/x", "/A/z", "/A"} {
		if _, err := stage.DefinePrim(MustParsePath(p), ""); err != nil {
			t.Fatalf("DefinePrim: %v", err)
		}
	}
	var got []string
	for _, prim := range stage.Traverse() {
		got = append(got, string(prim.Path()))
	}
	want := "/A /A/z /B /B/x"
	if strings.Join(got, " ") != want {
		t.Fatalf("Traverse = %v, want %s", got, want)
	}
}
