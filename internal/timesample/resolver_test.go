package timesample

import (
	"errors"
	"math"
	"testing"

	"usdabc/internal/faults"
	"usdabc/internal/scene"
)

func newAttr(t *testing.T, name string) *scene.Attribute {
	t.Helper()
	stage := scene.NewStage()
	prim, err := stage.DefinePrim(scene.MustParsePath("/C"), "HermiteCurves")
	if err != nil {
		t.Fatalf("DefinePrim: %v", err)
	}
	attr, err := prim.CreateAttribute(name, "float[]")
	if err != nil {
		t.Fatalf("CreateAttribute: %v", err)
	}
	return attr
}

func setAt(t *testing.T, attr *scene.Attribute, tc scene.TimeCode) {
	t.Helper()
	if err := attr.Set(scene.FloatArray([]float32{1}), tc); err != nil {
		t.Fatalf("Set: %v", err)
	}
}

func TestResolveWriteTimes(t *testing.T) {
	unauthored := newAttr(t, "a")
	if got := ResolveWriteTimes(unauthored); got != nil {
		t.Fatalf("unauthored = %v", got)
	}

	defaultOnly := newAttr(t, "b")
	setAt(t, defaultOnly, scene.Default())
	got := ResolveWriteTimes(defaultOnly)
	if len(got) != 1 || !got[0].IsDefault() {
		t.Fatalf("default only = %v", got)
	}

	sampled := newAttr(t, "c")
	setAt(t, sampled, scene.Default())
	for _, tm := range []float64{3, 1, 2, 1} {
		setAt(t, sampled, scene.At(tm))
	}
	got = ResolveWriteTimes(sampled)
	want := []float64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("sampled = %v", got)
	}
	for i, tc := range got {
		if v, ok := tc.Time(); !ok || v != want[i] {
			t.Fatalf("sampled[%d] = %v", i, tc)
		}
	}
}

func TestUnionWriteTimes(t *testing.T) {
	counts := newAttr(t, "counts")
	setAt(t, counts, scene.Default())
	points := newAttr(t, "points")
	setAt(t, points, scene.At(2))
	setAt(t, points, scene.At(0))
	tangents := newAttr(t, "tangents")
	setAt(t, tangents, scene.At(1))
	setAt(t, tangents, scene.At(2))

	got := ArchiveTimes(UnionWriteTimes(counts, points, tangents, nil))
	want := []float64{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("union = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("union = %v, want %v", got, want)
		}
	}

	static := UnionWriteTimes(counts)
	if len(static) != 1 || !static[0].IsDefault() {
		t.Fatalf("static union = %v", static)
	}
	if ArchiveTimes(static) != nil {
		t.Fatal("static write times should produce no archive times")
	}
	if UnionWriteTimes(newAttr(t, "empty")) != nil {
		t.Fatal("unauthored union should be nil")
	}
}

func TestResolveReadTime(t *testing.T) {
	times := []float64{0, 10, 20}
	tests := []struct {
		name  string
		query scene.TimeCode
		times []float64
		want  Resolution
		amb   bool
	}{
		{"static earliest", scene.EarliestTime(), nil, Resolution{Static: true}, false},
		{"static default", scene.Default(), nil, Resolution{Static: true}, false},
		{"static numeric", scene.At(5), nil, Resolution{Static: true}, false},
		{"earliest", scene.EarliestTime(), times, Resolution{Index: 0}, false},
		{"exact", scene.At(10), times, Resolution{Index: 1}, false},
		{"held", scene.At(15), times, Resolution{Index: 1}, false},
		{"before first", scene.At(-1), times, Resolution{Index: 0}, false},
		{"after last", scene.At(99), times, Resolution{Index: 2}, false},
		{"default on animated", scene.Default(), times, Resolution{UseDefault: true}, true},
		{"nan", scene.At(math.NaN()), times, Resolution{UseDefault: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveReadTime(tt.query, tt.times)
			if got != tt.want {
				t.Fatalf("ResolveReadTime = %+v, want %+v", got, tt.want)
			}
			if errors.Is(err, faults.ErrTimeResolutionAmbiguity) != tt.amb {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestEarliestOnSingleSampleAtZero(t *testing.T) {
	attr := newAttr(t, "widths")
	setAt(t, attr, scene.At(0))

	times := ArchiveTimes(ResolveWriteTimes(attr))
	if len(times) != 1 || times[0] != 0 {
		t.Fatalf("write times = %v", times)
	}
	res, err := ResolveReadTime(scene.EarliestTime(), times)
	if err != nil || res.Static || res.UseDefault || res.Index != 0 {
		t.Fatalf("earliest resolved to %+v, %v", res, err)
	}
	back := SceneTimes(times)
	if v, ok := back[0].Time(); !ok || v != 0 {
		t.Fatalf("scene times = %v", back)
	}
}

func TestSceneTimesForStaticProperty(t *testing.T) {
	got := SceneTimes(nil)
	if len(got) != 1 || !got[0].IsDefault() {
		t.Fatalf("SceneTimes(nil) = %v", got)
	}
}
