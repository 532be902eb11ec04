package physics

import (
	"collision3d/internal/geom"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Body     *DynamicBody
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast checks for intersection with every active sphere body and returns the closest hit
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	if geom.NearlyZero(direction) {
		return RaycastHit{}, false
	}
	direction = rl.Vector3Normalize(direction)
	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, b := range w.bodies {
		if !b.active {
			continue
		}
		sphere, ok := b.collider.(SphereCollider)
		if !ok {
			continue
		}
		if hitInfo, ok := raycastSphere(origin, direction, b.position, sphere.Radius, maxDistance); ok {
			if hitInfo.Distance < closestHit.Distance {
				closestHit = hitInfo
				closestHit.Body = b
				hit = true
			}
		}
	}

	return closestHit, hit
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	t := (-b - math32.Sqrt(discriminant)) / (2 * a)
	if t < 0 {
		t = (-b + math32.Sqrt(discriminant)) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := geom.SafeNormalize(rl.Vector3Subtract(point, center), rl.Vector3Negate(direction))

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
