// Package octree provides the two spatial indices used by collision detection:
// a fixed-depth array-backed tree for static terrain faces and a per-tick
// arena tree for moving bodies. Both share the same straddle insertion rule.
package octree

import (
	"collision3d/internal/geom"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// NoChild marks an absent child slot.
const NoChild = -1

// DepthLimit is the deepest tree either index builds. A full static tree of
// this depth already holds about 19M nodes.
const DepthLimit = 8

// Object is a sphere-bounded entry. ID is owned by the caller (a face or body index).
type Object struct {
	ID     int
	Center rl.Vector3
	Radius float32
}

// Bounds returns the box around the object's bounding sphere.
func (o Object) Bounds() geom.AABB {
	return geom.NewAABBFromSphere(o.Center, o.Radius)
}

// NodeCount is the number of nodes in a full tree of the given depth: (8^(d+1)-1)/7.
func NodeCount(depth int) int {
	if depth < 0 {
		return 0
	}
	n := 1
	for i := 0; i <= depth; i++ {
		n *= 8
	}
	return (n - 1) / 7
}

// octant picks the child slot for an object relative to a node centre.
// straddle is true when the sphere touches any of the three split planes.
func octant(nodeCenter rl.Vector3, obj Object) (index int, straddle bool) {
	for i := 0; i < 3; i++ {
		delta := geom.Axis(obj.Center, i) - geom.Axis(nodeCenter, i)
		if math32.Abs(delta) <= obj.Radius {
			return 0, true
		}
		if delta > 0 {
			index |= 1 << i
		}
	}
	return index, false
}

// childCenter offsets a parent centre into octant i (bit0 x, bit1 y, bit2 z).
func childCenter(parent rl.Vector3, step float32, i int) rl.Vector3 {
	offset := rl.Vector3{X: -step, Y: -step, Z: -step}
	if i&1 != 0 {
		offset.X = step
	}
	if i&2 != 0 {
		offset.Y = step
	}
	if i&4 != 0 {
		offset.Z = step
	}
	return rl.Vector3Add(parent, offset)
}

// content tracks the union of bounding boxes of every object below a node, so
// queries stay exact for objects that sit outside the node cube.
type content struct {
	bounds geom.AABB
	filled bool
}

func (c *content) add(b geom.AABB) {
	if !c.filled {
		c.bounds = b
		c.filled = true
		return
	}
	c.bounds = c.bounds.Union(b)
}

func (c *content) overlaps(region geom.AABB) bool {
	return c.filled && c.bounds.Intersects(region)
}
