package physics

import (
	"errors"
	"fmt"

	"collision3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrUnsupportedCollider is raised (as a panic value) when a collider variant
// without collision behaviour reaches the tick.
var ErrUnsupportedCollider = errors.New("physics: unsupported collider")

// Collider is the closed set of body shapes. Only RayCollider and
// SphereCollider take part in collisions.
type Collider interface {
	Kind() string
	// BoundingRadius is the radius used by the broad phase.
	BoundingRadius() float32
	collider()
}

// RayCollider treats the body as a point that predicts its path along its velocity.
type RayCollider struct{}

type SphereCollider struct {
	Radius float32
}

type AABBCollider struct {
	Box geom.AABB
}

type OBBCollider struct {
	Box geom.OBB
}

func (RayCollider) Kind() string    { return "ray" }
func (SphereCollider) Kind() string { return "sphere" }
func (AABBCollider) Kind() string   { return "aabb" }
func (OBBCollider) Kind() string    { return "obb" }

func (RayCollider) BoundingRadius() float32      { return 0 }
func (s SphereCollider) BoundingRadius() float32 { return s.Radius }
func (a AABBCollider) BoundingRadius() float32   { return rl.Vector3Length(a.Box.Size()) / 2 }
func (o OBBCollider) BoundingRadius() float32    { return o.Box.BoundingRadius() }

func (RayCollider) collider()    {}
func (SphereCollider) collider() {}
func (AABBCollider) collider()   {}
func (OBBCollider) collider()    {}

func unsupported(c Collider, op string) error {
	return fmt.Errorf("%w: %s has no %s behaviour", ErrUnsupportedCollider, c.Kind(), op)
}

// mustSphere returns the sphere behind c, panicking for any other variant.
func mustSphere(c Collider) SphereCollider {
	s, ok := c.(SphereCollider)
	if !ok {
		panic(unsupported(c, "sphere"))
	}
	return s
}
