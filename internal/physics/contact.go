package physics

import (
	"collision3d/internal/geom"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollisionRecord is one candidate pair. Normal points from A to B, or from
// the terrain to A when B is nil.
type CollisionRecord struct {
	A, B        *DynamicBody
	Normal      rl.Vector3
	Penetration float32
	Point       rl.Vector3
}

// checkIntersection runs the narrow phase for a body pair and fills in the
// normal, penetration and contact point. Pairs involving a ray never touch.
func checkIntersection(rec *CollisionRecord) bool {
	switch rec.A.collider.(type) {
	case RayCollider:
		return false
	case SphereCollider:
	default:
		panic(unsupported(rec.A.collider, "body"))
	}
	switch rec.B.collider.(type) {
	case RayCollider:
		return false
	case SphereCollider:
	default:
		panic(unsupported(rec.B.collider, "body"))
	}

	ra := mustSphere(rec.A.collider).Radius
	rb := mustSphere(rec.B.collider).Radius
	normal, pen, ok := SphereVsSphere(rec.A.position, ra, rec.B.position, rb)
	if !ok {
		return false
	}
	rec.Normal = normal
	rec.Penetration = pen
	rec.Point = rl.Vector3Add(rec.A.position, rl.Vector3Scale(normal, ra-pen/2))
	return true
}

// SphereVsSphere reports whether two spheres overlap. Spheres that exactly touch
// do not. Coincident centres use the fallback axis as the normal.
func SphereVsSphere(ca rl.Vector3, ra float32, cb rl.Vector3, rb float32) (normal rl.Vector3, penetration float32, ok bool) {
	sum := ra + rb
	d2 := rl.Vector3DistanceSqr(ca, cb)
	if d2 >= sum*sum {
		return normal, 0, false
	}
	d := math32.Sqrt(d2)
	if d == 0 {
		normal = geom.FallbackAxis
	} else {
		normal = rl.Vector3Scale(rl.Vector3Subtract(cb, ca), 1/d)
	}
	return normal, sum - d, true
}

// resolveImpulse exchanges a restitution impulse along the record normal.
// Separating pairs are left alone. It returns the closing speed.
func resolveImpulse(rec *CollisionRecord, restitution float32) float32 {
	invSum := rec.A.invMass + rec.B.invMass
	if invSum == 0 {
		return 0
	}
	rel := rl.Vector3Subtract(rec.B.velocity, rec.A.velocity)
	vn := rl.Vector3DotProduct(rel, rec.Normal)
	if vn > 0 {
		return 0
	}
	j := -(1 + restitution) * vn / invSum
	impulse := rl.Vector3Scale(rec.Normal, j)
	rec.A.ApplyImpulse(rl.Vector3Negate(impulse))
	rec.B.ApplyImpulse(impulse)
	return -vn
}

// correctPosition pushes the pair apart by percent of the penetration beyond
// slop, split by inverse mass.
func correctPosition(rec *CollisionRecord, slop, percent float32) {
	invSum := rec.A.invMass + rec.B.invMass
	if invSum == 0 {
		return
	}
	depth := math32.Max(rec.Penetration-slop, 0) / invSum * percent
	correction := rl.Vector3Scale(rec.Normal, depth)
	rec.A.SetPosition(rl.Vector3Subtract(rec.A.position, rl.Vector3Scale(correction, rec.A.invMass)))
	rec.B.SetPosition(rl.Vector3Add(rec.B.position, rl.Vector3Scale(correction, rec.B.invMass)))
}
