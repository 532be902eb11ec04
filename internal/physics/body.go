package physics

import (
	"fmt"

	"collision3d/internal/geom"
	"collision3d/internal/terrain"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DynamicBody is a point mass carrying one collider. Bodies live in a fixed
// pool owned by the World; Active toggles spawn and despawn.
type DynamicBody struct {
	ID int

	position rl.Vector3
	velocity rl.Vector3
	mass     float32
	invMass  float32

	collider Collider
	active   bool
	mesh     any

	world rl.Matrix
}

// NewDynamicBody returns an active body of unit mass at the origin.
// mesh is an opaque handle for the renderer and may be nil.
func NewDynamicBody(collider Collider, mesh any) *DynamicBody {
	if collider == nil {
		panic("physics: body needs a collider")
	}
	b := &DynamicBody{
		collider: collider,
		active:   true,
		mesh:     mesh,
	}
	b.SetMass(1)
	b.updateWorldMatrix()
	return b
}

func (b *DynamicBody) Position() rl.Vector3   { return b.position }
func (b *DynamicBody) Velocity() rl.Vector3   { return b.velocity }
func (b *DynamicBody) Mass() float32          { return b.mass }
func (b *DynamicBody) InverseMass() float32   { return b.invMass }
func (b *DynamicBody) Collider() Collider     { return b.collider }
func (b *DynamicBody) Active() bool           { return b.active }
func (b *DynamicBody) Mesh() any              { return b.mesh }
func (b *DynamicBody) WorldMatrix() rl.Matrix { return b.world }

func (b *DynamicBody) SetMesh(mesh any)      { b.mesh = mesh }
func (b *DynamicBody) SetActive(active bool) { b.active = active }

func (b *DynamicBody) SetPosition(p rl.Vector3) {
	b.position = p
	b.updateWorldMatrix()
}

func (b *DynamicBody) SetVelocity(v rl.Vector3) {
	b.velocity = v
}

// SetMass sets the mass; zero makes the body immovable. A negative or
// non-finite mass is a programmer error and panics.
func (b *DynamicBody) SetMass(mass float32) {
	if mass < 0 || math32.IsNaN(mass) || math32.IsInf(mass, 0) {
		panic(fmt.Sprintf("physics: body %d: invalid mass %v", b.ID, mass))
	}
	if mass == 0 {
		b.mass = 0
		b.invMass = 0
		return
	}
	b.mass = mass
	b.invMass = 1 / mass
}

// ApplyImpulse changes velocity by j/m.
func (b *DynamicBody) ApplyImpulse(j rl.Vector3) {
	if b.invMass == 0 {
		return
	}
	b.velocity = rl.Vector3Add(b.velocity, rl.Vector3Scale(j, b.invMass))
}

// Integrate advances the body by dt under gravity. Inactive bodies are left alone.
func (b *DynamicBody) Integrate(dt float32, gravity rl.Vector3, integrator Integrator) {
	if !b.active {
		return
	}
	switch integrator {
	case HalfStep:
		half := rl.Vector3Scale(gravity, dt/2)
		b.velocity = rl.Vector3Add(b.velocity, half)
		b.position = rl.Vector3Add(b.position, rl.Vector3Scale(b.velocity, dt))
		b.velocity = rl.Vector3Add(b.velocity, half)
	default:
		b.velocity = rl.Vector3Add(b.velocity, rl.Vector3Scale(gravity, dt))
		b.position = rl.Vector3Add(b.position, rl.Vector3Scale(b.velocity, dt))
	}
	b.updateWorldMatrix()
}

func (b *DynamicBody) updateWorldMatrix() {
	b.world = rl.MatrixTranslate(b.position.X, b.position.Y, b.position.Z)
}

// Radius is the broad-phase radius of the body's collider.
func (b *DynamicBody) Radius() float32 {
	return b.collider.BoundingRadius()
}

// TerrainContact describes one body-versus-terrain response.
type TerrainContact struct {
	Point       rl.Vector3
	Normal      rl.Vector3
	Penetration float32
	// ImpactSpeed is the closing speed along the normal before the response.
	ImpactSpeed float32
}

// CheckTerrainCollision tests the body against t and applies the response.
// A ray body looks ahead by its displacement over dt and is snapped onto the
// surface it would cross; a sphere body is bounced, rubbed by friction and
// pushed out. Any other collider panics with ErrUnsupportedCollider.
func (b *DynamicBody) CheckTerrainCollision(t *terrain.Terrain, s Settings, dt float32) (TerrainContact, bool) {
	if !b.active || t == nil {
		return TerrainContact{}, false
	}
	switch c := b.collider.(type) {
	case RayCollider:
		return b.rayTerrain(t, s, dt)
	case SphereCollider:
		return b.sphereTerrain(t, s, c.Radius)
	default:
		panic(unsupported(c, "terrain"))
	}
}

func (b *DynamicBody) rayTerrain(t *terrain.Terrain, s Settings, dt float32) (TerrainContact, bool) {
	speed := rl.Vector3Length(b.velocity) * dt
	point, normal, ok := t.RayCollision(b.position, b.velocity, speed)
	if !ok {
		return TerrainContact{}, false
	}
	vn := rl.Vector3DotProduct(b.velocity, normal)
	contact := TerrainContact{Point: point, Normal: normal, ImpactSpeed: math32.Max(-vn, 0)}

	b.SetPosition(point)
	if vn < 0 && b.invMass != 0 {
		b.velocity = rl.Vector3Subtract(b.velocity, rl.Vector3Scale(normal, (1+s.TerrainRestitution)*vn))
	}
	return contact, true
}

func (b *DynamicBody) sphereTerrain(t *terrain.Terrain, s Settings, radius float32) (TerrainContact, bool) {
	normal, pen, ok := t.SphereCollision(b.position, radius)
	if !ok {
		return TerrainContact{}, false
	}
	contact := TerrainContact{
		Point:       rl.Vector3Subtract(b.position, rl.Vector3Scale(normal, radius-pen)),
		Normal:      normal,
		Penetration: pen,
	}
	if b.invMass == 0 {
		return contact, true
	}

	vn := rl.Vector3DotProduct(b.velocity, normal)
	if vn < 0 {
		contact.ImpactSpeed = -vn
		// terrain is immovable, so the whole impulse lands on the body
		jn := -(1 + s.TerrainRestitution) * vn
		b.velocity = rl.Vector3Add(b.velocity, rl.Vector3Scale(normal, jn))
		b.velocity = applyFriction(b.velocity, normal, jn, s.StaticFriction, s.DynamicFriction)
	}

	depth := math32.Max(pen-s.Slop, 0) / b.invMass * s.TerrainCorrection
	b.SetPosition(rl.Vector3Add(b.position, rl.Vector3Scale(normal, depth*b.invMass)))
	return contact, true
}

// applyFriction removes tangential velocity given the normal velocity change
// jn. Within the static cone the tangential motion stops outright, otherwise
// it is reduced by the dynamic coefficient.
func applyFriction(v, normal rl.Vector3, jn, static, dynamic float32) rl.Vector3 {
	vt := rl.Vector3Subtract(v, rl.Vector3Scale(normal, rl.Vector3DotProduct(v, normal)))
	speed := rl.Vector3Length(vt)
	if speed < geom.Epsilon {
		return v
	}
	if speed < jn*static {
		return rl.Vector3Subtract(v, vt)
	}
	drop := math32.Min(jn*dynamic, speed)
	return rl.Vector3Subtract(v, rl.Vector3Scale(vt, drop/speed))
}
