package geom

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Epsilon is the length below which a vector is treated as degenerate.
const Epsilon = 1e-6

// FallbackAxis substitutes for a direction that cannot be normalised.
var FallbackAxis = rl.Vector3{X: 1, Y: 0, Z: 0}

// Up is the world up axis.
var Up = rl.Vector3{X: 0, Y: 1, Z: 0}

// Clamp restricts a value to a range
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// SafeNormalize returns v/|v|, or fallback when |v| is too small to divide by.
func SafeNormalize(v, fallback rl.Vector3) rl.Vector3 {
	l := rl.Vector3Length(v)
	if l < Epsilon || math32.IsNaN(l) {
		return fallback
	}
	return rl.Vector3Scale(v, 1/l)
}

// Axis returns component i (0=X, 1=Y, 2=Z) of v.
func Axis(v rl.Vector3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// NearlyZero reports whether every component of v is within Epsilon of zero.
func NearlyZero(v rl.Vector3) bool {
	return math32.Abs(v.X) < Epsilon && math32.Abs(v.Y) < Epsilon && math32.Abs(v.Z) < Epsilon
}
