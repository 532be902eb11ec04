package geom

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from center, size, and euler rotation (degrees)
func NewOBB(center, size, rotation rl.Vector3) OBB {
	rx := float64(rotation.X) * math.Pi / 180
	ry := float64(rotation.Y) * math.Pi / 180
	rz := float64(rotation.Z) * math.Pi / 180

	// X, then Y, then Z
	rotX := rl.MatrixRotateX(float32(rx))
	rotY := rl.MatrixRotateY(float32(ry))
	rotZ := rl.MatrixRotateZ(float32(rz))
	rotMatrix := rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)

	axes := [3]rl.Vector3{
		rl.Vector3Normalize(rl.Vector3{X: rotMatrix.M0, Y: rotMatrix.M1, Z: rotMatrix.M2}),
		rl.Vector3Normalize(rl.Vector3{X: rotMatrix.M4, Y: rotMatrix.M5, Z: rotMatrix.M6}),
		rl.Vector3Normalize(rl.Vector3{X: rotMatrix.M8, Y: rotMatrix.M9, Z: rotMatrix.M10}),
	}

	return OBB{
		Center:   center,
		HalfSize: rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2},
		Axes:     axes,
	}
}

// BoundingRadius is the radius of the sphere enclosing every corner.
func (o OBB) BoundingRadius() float32 {
	return rl.Vector3Length(o.HalfSize)
}
