package geom

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromSphere returns the tightest box around a sphere.
func NewAABBFromSphere(center rl.Vector3, radius float32) AABB {
	r := rl.Vector3{X: radius, Y: radius, Z: radius}
	return AABB{
		Min: rl.Vector3Subtract(center, r),
		Max: rl.Vector3Add(center, r),
	}
}

// NewAABBFromSegment bounds the segment from->to, grown by pad on every side.
func NewAABBFromSegment(from, to rl.Vector3, pad float32) AABB {
	p := rl.Vector3{X: pad, Y: pad, Z: pad}
	return AABB{
		Min: rl.Vector3Subtract(rl.Vector3Min(from, to), p),
		Max: rl.Vector3Add(rl.Vector3Max(from, to), p),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// ContainsSphere reports whether the sphere lies fully inside the box.
func (a AABB) ContainsSphere(center rl.Vector3, radius float32) bool {
	return center.X-radius >= a.Min.X && center.X+radius <= a.Max.X &&
		center.Y-radius >= a.Min.Y && center.Y+radius <= a.Max.Y &&
		center.Z-radius >= a.Min.Z && center.Z+radius <= a.Max.Z
}

// Grow returns the box expanded by d on every side.
func (a AABB) Grow(d float32) AABB {
	v := rl.Vector3{X: d, Y: d, Z: d}
	return AABB{Min: rl.Vector3Subtract(a.Min, v), Max: rl.Vector3Add(a.Max, v)}
}

func (a AABB) Union(b AABB) AABB {
	return AABB{Min: rl.Vector3Min(a.Min, b.Min), Max: rl.Vector3Max(a.Max, b.Max)}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}
