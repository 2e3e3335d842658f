package gf

import "testing"

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3(1, 2, 3)
	b := Vec3(0.5, -1, 2)

	if got := a.Add(b); got != Vec3(1.5, 1, 5) {
		t.Fatalf("Add: got %v", got)
	}
	if got := a.Sub(b); got != Vec3(0.5, 3, 1) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := a.Mul(2); got != Vec3(2, 4, 6) {
		t.Fatalf("Mul: got %v", got)
	}
	if got := a.Dot(b); got != 4.5 {
		t.Fatalf("Dot: got %v", got)
	}
	if got := Vec3(0, 0, 0).Lerp(Vec3(3, 6, 9), 1.0/3.0); !IsClose(got, Vec3(1, 2, 3), 1e-6) {
		t.Fatalf("Lerp: got %v", got)
	}
	if got := Vec3(3, 4, 0).Length(); got != 5 {
		t.Fatalf("Length: got %v", got)
	}
}

func TestIsClose(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3f
		want bool
	}{
		{"equal", Vec3(1, 1, 0), Vec3(1, 1, 0), true},
		{"within tolerance", Vec3(1, 1, 0), Vec3(1.000001, 1, 0), true},
		{"outside tolerance", Vec3(1, 1, 0), Vec3(1.001, 1, 0), false},
		{"z differs", Vec3(0, 0, 1), Vec3(0, 0, -1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClose(tt.a, tt.b, DefaultTolerance); got != tt.want {
				t.Fatalf("IsClose(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	if AllClose([]Vec3f{Vec3(0, 0, 0)}, nil, DefaultTolerance) {
		t.Fatal("expected length mismatch to compare unequal")
	}
	if !AllCloseFloat([]float32{0, 0.5, 0}, []float32{0, 0.5000001, 0}, DefaultTolerance) {
		t.Fatal("expected widths to compare equal")
	}
}

func TestVec3NaN(t *testing.T) {
	var zero float32
	nan := zero / zero
	if !Vec3(0, nan, 0).IsNaN() {
		t.Fatal("expected NaN to be detected")
	}
	if Vec3(0, 1, 0).IsNaN() {
		t.Fatal("unexpected NaN")
	}
}
