package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Integrator selects how bodies advance each tick. The choice is global.
type Integrator int

const (
	// SemiImplicitEuler updates velocity first, then position with the new velocity.
	SemiImplicitEuler Integrator = iota
	// HalfStep splits the velocity update around the position update.
	HalfStep
)

func (i Integrator) String() string {
	if i == HalfStep {
		return "half-step"
	}
	return "semi-implicit-euler"
}

// BroadPhase selects how candidate body pairs are generated.
type BroadPhase int

const (
	BroadPhaseAllPairs BroadPhase = iota
	BroadPhaseOctree
)

func (b BroadPhase) String() string {
	if b == BroadPhaseOctree {
		return "octree"
	}
	return "all-pairs"
}

// Settings carries every tunable coefficient of the simulation.
type Settings struct {
	Gravity rl.Vector3

	BodyRestitution    float32
	TerrainRestitution float32

	// Slop is the penetration left uncorrected.
	Slop float32
	// BodyCorrection and TerrainCorrection are the fraction of the remaining
	// penetration removed per contact.
	BodyCorrection    float32
	TerrainCorrection float32

	StaticFriction  float32
	DynamicFriction float32

	// FloorY deactivates any body that falls below it.
	FloorY float32

	BroadPhase  BroadPhase
	OctreeDepth int
	Integrator  Integrator
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:            rl.Vector3{X: 0, Y: -50, Z: 0},
		BodyRestitution:    0.3,
		TerrainRestitution: 0.7,
		Slop:               0.001,
		BodyCorrection:     0.6,
		TerrainCorrection:  0.99,
		StaticFriction:     1.0,
		DynamicFriction:    0.8,
		FloorY:             -10,
		BroadPhase:         BroadPhaseAllPairs,
		OctreeDepth:        5,
		Integrator:         SemiImplicitEuler,
	}
}
