package gf

import (
	"fmt"
	"math"
)

// Vec3f is a single precision 3D vector, the storage type for points,
// tangents, normals, and velocities.
type Vec3f struct {
	X float32
	Y float32
	Z float32
}

// Vec3 returns the vector ⟨x, y, z⟩.
func Vec3(x, y, z float32) Vec3f {
	return Vec3f{X: x, Y: y, Z: z}
}

func (v Vec3f) String() string {
	return fmt.Sprintf("⟨%g, %g, %g⟩", v.X, v.Y, v.Z)
}

// Add adds two vectors and returns the resulting vector.
func (v Vec3f) Add(o Vec3f) Vec3f {
	return Vec3f{
		X: v.X + o.X,
		Y: v.Y + o.Y,
		Z: v.Z + o.Z,
	}
}

// Sub subtracts two vectors and returns the resulting vector.
func (v Vec3f) Sub(o Vec3f) Vec3f {
	return Vec3f{
		X: v.X - o.X,
		Y: v.Y - o.Y,
		Z: v.Z - o.Z,
	}
}

func (v Vec3f) Mul(f float32) Vec3f {
	return Vec3f{
		X: v.X * f,
		Y: v.Y * f,
		Z: v.Z * f,
	}
}

// Dot returns the dot product of v and o.
func (v Vec3f) Dot(o Vec3f) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the magnitude of the vector.
func (v Vec3f) Length() float64 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// Lerp linearly interpolates between two vectors.
func (v Vec3f) Lerp(o Vec3f, t float32) Vec3f {
	// v + t * (o-v)
	return v.Add(o.Sub(v).Mul(t))
}

// IsNaN reports whether at least one component is NaN.
func (v Vec3f) IsNaN() bool {
	return isNaN32(v.X) || isNaN32(v.Y) || isNaN32(v.Z)
}

// IsInf reports whether at least one component is infinite.
func (v Vec3f) IsInf() bool {
	return math.IsInf(float64(v.X), 0) || math.IsInf(float64(v.Y), 0) || math.IsInf(float64(v.Z), 0)
}

func isNaN32(f float32) bool {
	return f != f
}
