package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	nearPlane = 0.1
	farPlane  = 1000.0
)

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane represents a plane in 3D space (ax + by + cz + d = 0) with the
// normal pointing into the frustum
type Plane struct {
	normal   rl.Vector3
	distance float32
}

// ExtractFrustum builds the frustum of camera for a viewport of the given
// aspect ratio straight from the camera basis.
func ExtractFrustum(camera rl.Camera3D, aspect float32) Frustum {
	eye := camera.Position
	forward := rl.Vector3Normalize(rl.Vector3Subtract(camera.Target, eye))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, camera.Up))
	up := rl.Vector3CrossProduct(right, forward)

	var f Frustum
	if camera.Projection == rl.CameraOrthographic {
		halfH := camera.Fovy / 2.0
		halfW := halfH * aspect
		f.planes[0] = planeAt(right, rl.Vector3Subtract(eye, rl.Vector3Scale(right, halfW)))
		f.planes[1] = planeAt(rl.Vector3Negate(right), rl.Vector3Add(eye, rl.Vector3Scale(right, halfW)))
		f.planes[2] = planeAt(up, rl.Vector3Subtract(eye, rl.Vector3Scale(up, halfH)))
		f.planes[3] = planeAt(rl.Vector3Negate(up), rl.Vector3Add(eye, rl.Vector3Scale(up, halfH)))
	} else {
		tv := float32(math.Tan(float64(camera.Fovy*rl.Deg2rad) / 2))
		th := tv * aspect
		f.planes[0] = planeAt(rl.Vector3Add(rl.Vector3Scale(forward, th), right), eye)
		f.planes[1] = planeAt(rl.Vector3Subtract(rl.Vector3Scale(forward, th), right), eye)
		f.planes[2] = planeAt(rl.Vector3Add(rl.Vector3Scale(forward, tv), up), eye)
		f.planes[3] = planeAt(rl.Vector3Subtract(rl.Vector3Scale(forward, tv), up), eye)
	}
	f.planes[4] = planeAt(forward, rl.Vector3Add(eye, rl.Vector3Scale(forward, nearPlane)))
	f.planes[5] = planeAt(rl.Vector3Negate(forward), rl.Vector3Add(eye, rl.Vector3Scale(forward, farPlane)))
	return f
}

// planeAt is the plane with the given inward normal through point.
func planeAt(normal, point rl.Vector3) Plane {
	return normalizePlane(Plane{normal: normal, distance: -rl.Vector3DotProduct(normal, point)})
}

// normalizePlane normalizes a plane equation
func normalizePlane(p Plane) Plane {
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	return Plane{
		normal:   rl.Vector3Scale(p.normal, 1.0/length),
		distance: p.distance / length,
	}
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
// Returns true if the sphere should be rendered
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := 0; i < 6; i++ {
		// Distance from center to plane
		dist := rl.Vector3DotProduct(f.planes[i].normal, center) + f.planes[i].distance
		// If sphere is completely behind any plane, it's outside
		if dist < -radius {
			return false
		}
	}
	return true
}
