package archive

import (
	"math"
	"testing"

	"usdabc/internal/gf"
)

func TestSampleBlobRoundTrip(t *testing.T) {
	cases := []struct {
		dt     DataType
		sample Sample
	}{
		{TypeInt32, Sample{Int32: []int32{0, -1, math.MaxInt32, math.MinInt32}}},
		{TypeFloat32, Sample{Float32: []float32{0, -0.5, 1e-30, float32(math.Inf(1))}}},
		{TypeVec3f, Sample{Vec3f: []gf.Vec3f{gf.Vec3(1, 2, 3), gf.Vec3(-4, 0.125, 6e7)}}},
		{TypeVec3f, Sample{}},
	}
	for _, tc := range cases {
		data, count, err := encodeSample(tc.dt, tc.sample)
		if err != nil {
			t.Fatalf("%s: encode failed: %v", tc.dt, err)
		}
		if count != tc.sample.Len(tc.dt) {
			t.Fatalf("%s: count %d, want %d", tc.dt, count, tc.sample.Len(tc.dt))
		}
		got, err := decodeSample(tc.dt, count, data)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", tc.dt, err)
		}
		if got.Len(tc.dt) != count {
			t.Fatalf("%s: decoded %d elements, want %d", tc.dt, got.Len(tc.dt), count)
		}
		for i := range tc.sample.Int32 {
			if got.Int32[i] != tc.sample.Int32[i] {
				t.Fatalf("int32[%d] = %d, want %d", i, got.Int32[i], tc.sample.Int32[i])
			}
		}
		for i := range tc.sample.Float32 {
			if got.Float32[i] != tc.sample.Float32[i] {
				t.Fatalf("float32[%d] = %v, want %v", i, got.Float32[i], tc.sample.Float32[i])
			}
		}
		for i := range tc.sample.Vec3f {
			if got.Vec3f[i] != tc.sample.Vec3f[i] {
				t.Fatalf("vec3f[%d] = %v, want %v", i, got.Vec3f[i], tc.sample.Vec3f[i])
			}
		}
	}
}

func TestDecodeSampleRejectsTruncatedData(t *testing.T) {
	if _, err := decodeSample(TypeVec3f, 2, make([]byte, 20)); err == nil {
		t.Fatal("expected error for truncated vec3f data")
	}
	if _, err := decodeSample(DataType("bool[]"), 0, nil); err == nil {
		t.Fatal("expected error for unknown data type")
	}
}
