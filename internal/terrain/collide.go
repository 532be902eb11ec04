package terrain

import (
	"collision3d/internal/geom"
	"collision3d/internal/octree"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RayCollision casts the segment origin -> origin+normalize(dir)*speed against
// enabled faces. It returns the nearest crossing point that lies inside its
// triangle, with the face normal turned toward the origin side.
func (t *Terrain) RayCollision(origin, dir rl.Vector3, speed float32) (point, normal rl.Vector3, ok bool) {
	if speed <= 0 || geom.NearlyZero(dir) {
		return point, normal, false
	}
	step := rl.Vector3Scale(geom.SafeNormalize(dir, geom.FallbackAxis), speed)
	end := rl.Vector3Add(origin, step)

	best := float32(2)
	bestFace := -1
	region := geom.NewAABBFromSegment(origin, end, 0)
	t.tree.Visit(region, func(o octree.Object) bool {
		f := &t.faces[o.ID]
		if f.Disabled {
			return true
		}
		sa := geom.SideOfPlane(origin, f.V[0], f.Normal)
		sb := geom.SideOfPlane(end, f.V[0], f.Normal)
		if sa*sb > 0 || sa == sb {
			return true
		}
		frac := sa / (sa - sb)
		if frac >= best {
			return true
		}
		p := rl.Vector3Add(origin, rl.Vector3Scale(step, frac))
		if !geom.PointOverTriangle(p, f.V[0], f.V[1], f.V[2], f.Normal) {
			return true
		}
		best = frac
		bestFace = o.ID
		point = p
		normal = f.Normal
		if sa < 0 {
			normal = rl.Vector3Negate(normal)
		}
		return true
	})

	if bestFace < 0 {
		return rl.Vector3{}, rl.Vector3{}, false
	}
	t.faces[bestFace].Collided = true
	return point, normal, true
}

// SphereCollision reports the first enabled face, in index traversal order,
// whose closest point lies strictly inside the sphere. The normal is the
// face normal, so a sphere whose centre has sunk below the surface is still
// pushed up and out.
func (t *Terrain) SphereCollision(centre rl.Vector3, radius float32) (normal rl.Vector3, penetration float32, ok bool) {
	if radius <= 0 {
		return normal, 0, false
	}
	region := geom.NewAABBFromSphere(centre, radius)
	t.tree.Visit(region, func(o octree.Object) bool {
		f := &t.faces[o.ID]
		if f.Disabled {
			return true
		}
		cp := geom.ClosestPointOnTriangle(centre, f.V[0], f.V[1], f.V[2])
		d := rl.Vector3Distance(centre, cp)
		if d >= radius {
			return true
		}
		normal = f.Normal
		penetration = radius - d
		f.Collided = true
		ok = true
		return false
	})
	return normal, penetration, ok
}
