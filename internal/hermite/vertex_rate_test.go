package hermite

import (
	"errors"
	"testing"

	"usdabc/internal/faults"
	"usdabc/internal/gf"
)

func lerpFloat(a, b float32, t float32) float32 { return a + (b-a)*t }

func TestExpandCollapseWidths(t *testing.T) {
	counts := []int32{3, 2}
	widths := []float32{0, 0.5, 0, 1, 2}

	tests := []struct {
		basis Basis
		want  []float32
	}{
		{BasisHermite, []float32{0, 0, 0.5, 0.5, 0, 0, 1, 1, 2, 2}},
		{BasisBezier, []float32{0, 1.0 / 6.0, 1.0 / 3.0, 0.5, 1.0 / 3.0, 1.0 / 6.0, 0, 1, 4.0 / 3.0, 5.0 / 3.0, 2}},
	}
	for _, tt := range tests {
		t.Run(string(tt.basis), func(t *testing.T) {
			expanded, err := ExpandVertexRate(tt.basis, counts, widths, lerpFloat)
			if err != nil {
				t.Fatalf("ExpandVertexRate: %v", err)
			}
			diff(t, tt.want, expanded, approx)

			nativeCounts := []int32{int32(tt.basis.NativeCount(3)), int32(tt.basis.NativeCount(2))}
			collapsed, err := CollapseVertexRate(tt.basis, nativeCounts, expanded)
			if err != nil {
				t.Fatalf("CollapseVertexRate: %v", err)
			}
			diff(t, widths, collapsed)
		})
	}
}

func TestExpandVertexRateNormals(t *testing.T) {
	normals := []gf.Vec3f{gf.Vec3(0, 0, 1), gf.Vec3(0, 1, 0)}
	expanded, err := ExpandVertexRate(BasisHermite, []int32{2}, normals, gf.Vec3f.Lerp)
	if err != nil {
		t.Fatalf("ExpandVertexRate: %v", err)
	}
	if len(expanded) != 4 || expanded[1] != normals[0] || expanded[3] != normals[1] {
		t.Fatalf("expanded = %v", expanded)
	}
}

func TestVertexRateShapeErrors(t *testing.T) {
	if _, err := ExpandVertexRate(BasisHermite, []int32{3}, []float32{1, 2}, lerpFloat); !errors.Is(err, faults.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
	if _, err := ExpandVertexRate(BasisHermite, []int32{-1, 3}, []float32{1, 2}, lerpFloat); !errors.Is(err, faults.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch for negative count, got %v", err)
	}
	if _, err := CollapseVertexRate(BasisHermite, []int32{3}, []float32{1, 2, 3}); !errors.Is(err, faults.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch for odd native count, got %v", err)
	}
}
