package physics

import (
	"io"
	"log"
	"os"
	"time"

	"collision3d/internal/geom"
	"collision3d/internal/octree"
	"collision3d/internal/terrain"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TickStats summarises one call to Tick.
type TickStats struct {
	Candidates      int
	BodyContacts    int
	TerrainContacts int
	Deactivated     int
	// MaxImpactSpeed is the largest closing speed resolved this tick and
	// ImpactPoint where it happened.
	MaxImpactSpeed float32
	ImpactPoint    rl.Vector3
}

func (s *TickStats) recordImpact(speed float32, point rl.Vector3) {
	if speed > s.MaxImpactSpeed {
		s.MaxImpactSpeed = speed
		s.ImpactPoint = point
	}
}

type overrideKind int

const (
	overridePosition overrideKind = iota
	overrideVelocity
	overrideActive
)

type override struct {
	body   *DynamicBody
	kind   overrideKind
	vec    rl.Vector3
	active bool
}

// World owns the body pool and runs the per-frame pipeline. It is not safe
// for concurrent use; changes requested between ticks go through the Queue
// methods and land at the start of the next Tick.
type World struct {
	Settings Settings

	bodies  []*DynamicBody
	pending []override
	stack   []CollisionRecord
	stats   TickStats

	logger         *log.Logger
	lastBroadPhase BroadPhase
	lastLogTime    time.Time
}

func NewWorld(s Settings) *World {
	return &World{
		Settings:       s,
		logger:         log.New(os.Stderr, "", log.LstdFlags),
		lastBroadPhase: s.BroadPhase,
	}
}

// SetLogger replaces the world's logger; nil silences it.
func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	w.logger = l
}

// AddBody appends b to the pool and assigns its ID.
func (w *World) AddBody(b *DynamicBody) *DynamicBody {
	b.ID = len(w.bodies)
	w.bodies = append(w.bodies, b)
	return b
}

// NewSpherePool fills the world with n inactive spheres of the given radius.
func (w *World) NewSpherePool(n int, radius float32, mesh any) {
	for i := 0; i < n; i++ {
		b := NewDynamicBody(SphereCollider{Radius: radius}, mesh)
		b.SetActive(false)
		w.AddBody(b)
	}
	w.logger.Printf("Physics: pool of %d spheres (radius %.2f)", n, radius)
}

func (w *World) Bodies() []*DynamicBody { return w.bodies }
func (w *World) Stats() TickStats       { return w.stats }

func (w *World) ActiveCount() int {
	n := 0
	for _, b := range w.bodies {
		if b.active {
			n++
		}
	}
	return n
}

// NextInactive returns the first inactive sphere body in the pool that has
// no activation queued for the next tick.
func (w *World) NextInactive() (*DynamicBody, bool) {
	for _, b := range w.bodies {
		if _, ok := b.collider.(SphereCollider); ok && !b.active && !w.activationQueued(b) {
			return b, true
		}
	}
	return nil, false
}

func (w *World) activationQueued(b *DynamicBody) bool {
	for _, o := range w.pending {
		if o.body == b && o.kind == overrideActive && o.active {
			return true
		}
	}
	return false
}

// DeactivateAll despawns every body immediately. Use between ticks only.
func (w *World) DeactivateAll() {
	for _, b := range w.bodies {
		b.active = false
	}
	w.pending = w.pending[:0]
}

func (w *World) QueuePosition(b *DynamicBody, p rl.Vector3) {
	w.pending = append(w.pending, override{body: b, kind: overridePosition, vec: p})
}

func (w *World) QueueVelocity(b *DynamicBody, v rl.Vector3) {
	w.pending = append(w.pending, override{body: b, kind: overrideVelocity, vec: v})
}

func (w *World) QueueActive(b *DynamicBody, active bool) {
	w.pending = append(w.pending, override{body: b, kind: overrideActive, active: active})
}

// QueueSpawn queues a full respawn: position, velocity and activation.
func (w *World) QueueSpawn(b *DynamicBody, p, v rl.Vector3) {
	w.QueuePosition(b, p)
	w.QueueVelocity(b, v)
	w.QueueActive(b, true)
}

func (w *World) applyOverrides() {
	for _, o := range w.pending {
		switch o.kind {
		case overridePosition:
			o.body.SetPosition(o.vec)
		case overrideVelocity:
			o.body.SetVelocity(o.vec)
		case overrideActive:
			o.body.SetActive(o.active)
		}
	}
	w.pending = w.pending[:0]
}

// Tick advances the simulation by dt against terrain t, which may be nil.
func (w *World) Tick(dt float32, t *terrain.Terrain) TickStats {
	w.stats = TickStats{}
	w.applyOverrides()

	// 1. Integrate, dropping anything that fell out of the world
	for _, b := range w.bodies {
		if !b.active {
			continue
		}
		b.Integrate(dt, w.Settings.Gravity, w.Settings.Integrator)
		if b.position.Y < w.Settings.FloorY {
			b.active = false
			w.stats.Deactivated++
		}
	}

	// 2. Broad phase
	if w.Settings.BroadPhase != w.lastBroadPhase {
		w.logger.Printf("Physics: broad phase %s -> %s (%d active bodies)", w.lastBroadPhase, w.Settings.BroadPhase, w.ActiveCount())
		w.lastBroadPhase = w.Settings.BroadPhase
	}
	switch w.Settings.BroadPhase {
	case BroadPhaseOctree:
		w.generatePairsOctree()
	default:
		w.generatePairsAll()
	}
	w.stats.Candidates = len(w.stack)

	// 3. Narrow phase and response, last candidate first
	w.clearCollisionStack()

	// 4. Terrain
	if t != nil {
		t.ResetCollidedFlags()
		for _, b := range w.bodies {
			if !b.active {
				continue
			}
			contact, ok := b.CheckTerrainCollision(t, w.Settings, dt)
			if !ok {
				continue
			}
			w.stats.TerrainContacts++
			w.stats.recordImpact(contact.ImpactSpeed, contact.Point)
		}
	}

	if w.stats.BodyContacts+w.stats.TerrainContacts > 0 && time.Since(w.lastLogTime) >= time.Second {
		w.lastLogTime = time.Now()
		w.logger.Printf("Physics: %d candidates, %d body contacts, %d terrain contacts (%d active)",
			w.stats.Candidates, w.stats.BodyContacts, w.stats.TerrainContacts, w.ActiveCount())
	}
	return w.stats
}

func (w *World) push(a, b *DynamicBody) {
	w.stack = append(w.stack, CollisionRecord{A: a, B: b})
}

func (w *World) generatePairsAll() {
	for i, a := range w.bodies {
		if !a.active {
			continue
		}
		for _, b := range w.bodies[i+1:] {
			if b.active {
				w.push(a, b)
			}
		}
	}
}

func (w *World) generatePairsOctree() {
	var bounds geom.AABB
	n := 0
	for _, b := range w.bodies {
		if !b.active {
			continue
		}
		sphere := geom.NewAABBFromSphere(b.position, b.Radius())
		if n == 0 {
			bounds = sphere
		} else {
			bounds = bounds.Union(sphere)
		}
		n++
	}
	if n < 2 {
		return
	}

	size := bounds.Size()
	half := math32.Max(size.X, math32.Max(size.Y, size.Z))/2 + geom.Epsilon
	tree := octree.NewDynamicTree(bounds.Center(), half, w.Settings.OctreeDepth)
	defer tree.Destroy()

	for _, b := range w.bodies {
		if b.active {
			tree.Insert(octree.Object{ID: b.ID, Center: b.position, Radius: b.Radius()})
		}
	}
	tree.EnumeratePairs(func(a, b octree.Object) {
		w.push(w.bodies[a.ID], w.bodies[b.ID])
	})
}

func (w *World) clearCollisionStack() {
	for len(w.stack) > 0 {
		rec := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		if !checkIntersection(&rec) {
			continue
		}
		w.stats.BodyContacts++
		speed := resolveImpulse(&rec, w.Settings.BodyRestitution)
		w.stats.recordImpact(speed, rec.Point)
		correctPosition(&rec, w.Settings.Slop, w.Settings.BodyCorrection)
	}
}
