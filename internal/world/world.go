// Package world is the demo scene shared by the frame drivers: the
// switchable terrains, the physics pool and the debug spawn controls.
package world

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"collision3d/internal/config"
	"collision3d/internal/input"
	"collision3d/internal/physics"
	"collision3d/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// spawnVelocity gives fresh drops a slight upward kick.
var spawnVelocity = rl.Vector3{X: 0, Y: 0.2, Z: 0}

type World struct {
	Physics  *physics.World
	Terrains []*terrain.Terrain
	Names    []string

	cfg    config.Demo
	rng    *rand.Rand
	logger *log.Logger

	current  int
	focus    *physics.DynamicBody
	probe    *physics.DynamicBody
	lastDrop rl.Vector3

	face     int
	vertex   int
	gridStep int

	lowFacesOff bool
	slow        bool
}

// New fills p with the sphere pool and a ray probe. terrains must not be
// empty; names label them in logs and the HUD.
func New(p *physics.World, terrains []*terrain.Terrain, names []string, cfg config.Demo, seed int64) *World {
	w := &World{
		Physics:  p,
		Terrains: terrains,
		Names:    names,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   log.New(os.Stderr, "", log.LstdFlags),
	}
	p.NewSpherePool(cfg.PoolSize, cfg.SphereRadius, nil)
	w.probe = p.AddBody(physics.NewDynamicBody(physics.RayCollider{}, nil))
	w.probe.SetActive(false)
	return w
}

// SetLogger replaces the scene's logger; nil silences it.
func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	w.logger = l
}

func (w *World) Terrain() *terrain.Terrain   { return w.Terrains[w.current] }
func (w *World) TerrainIndex() int           { return w.current }
func (w *World) Focus() *physics.DynamicBody { return w.focus }
func (w *World) Probe() *physics.DynamicBody { return w.probe }
func (w *World) Face() int                   { return w.face }
func (w *World) Vertex() int                 { return w.vertex }
func (w *World) SlowMotion() bool            { return w.slow }
func (w *World) LowFacesDisabled() bool      { return w.lowFacesOff }

func (w *World) TerrainName() string {
	if w.current < len(w.Names) {
		return w.Names[w.current]
	}
	return "terrain"
}

// Step advances the simulation by one frame of frameDt seconds, slowed down
// while slow motion is on.
func (w *World) Step(frameDt float32) physics.TickStats {
	dt := frameDt
	if w.slow {
		dt /= w.cfg.SlowMotion
	}
	return w.Physics.Tick(dt, w.Terrain())
}

// Handle runs a scene action and reports whether it was one. View actions
// are left to the driver.
func (w *World) Handle(a input.Action) bool {
	switch a {
	case input.ActionDropRandom:
		x, z := w.randomXZ()
		w.dropFocus(x, z)
	case input.ActionRedrop:
		w.dropFocus(w.lastDrop.X, w.lastDrop.Z)
	case input.ActionDropGrid:
		x, z := w.gridXZ(w.gridStep)
		w.gridStep++
		w.dropFocus(x, z)
	case input.ActionPrevFace:
		w.face = wrap(w.face-1, w.Terrain().FaceCount())
		w.dropOverFace()
	case input.ActionNextFace:
		w.face = wrap(w.face+1, w.Terrain().FaceCount())
		w.dropOverFace()
	case input.ActionCycleVertex:
		w.vertex = wrap(w.vertex+1, 4)
		w.dropOverFace()
	case input.ActionDropFirstLast:
		w.dropFirstLast()
	case input.ActionSpawnNext:
		if b, ok := w.Physics.NextInactive(); ok {
			x, z := w.randomXZ()
			w.drop(b, x, z)
		} else {
			w.logger.Printf("World: pool exhausted (%d bodies)", w.cfg.PoolSize)
		}
	case input.ActionDropRay:
		x, z := w.randomXZ()
		w.drop(w.probe, x, z)
	case input.ActionClear:
		w.Physics.DeactivateAll()
	case input.ActionToggleLowFaces:
		w.toggleLowFaces()
	case input.ActionNextTerrain:
		w.nextTerrain()
	case input.ActionSlowMotion:
		w.slow = !w.slow
	case input.ActionToggleBroadPhase:
		if w.Physics.Settings.BroadPhase == physics.BroadPhaseOctree {
			w.Physics.Settings.BroadPhase = physics.BroadPhaseAllPairs
		} else {
			w.Physics.Settings.BroadPhase = physics.BroadPhaseOctree
		}
	case input.ActionSaveSnapshot:
		if err := w.SaveSnapshot(w.cfg.Snapshot); err != nil {
			w.logger.Printf("World: %v", err)
		}
	case input.ActionLoadSnapshot:
		if err := w.LoadSnapshot(w.cfg.Snapshot); err != nil {
			w.logger.Printf("World: %v", err)
		}
	default:
		return false
	}
	return true
}

// randomXZ picks a drop column on the integer lattice, offset by half a cell.
func (w *World) randomXZ() (float32, float32) {
	x := float32(w.rng.Intn(14)-7) - 0.5
	z := float32(w.rng.Intn(14)-7) - 0.5
	return x, z
}

// gridXZ walks the terrain in rows of cells twice the grid spacing wide.
func (w *World) gridXZ(step int) (float32, float32) {
	t := w.Terrain()
	bounds := t.Bounds()
	size := bounds.Size()
	stride := t.Spacing() * 2

	cols := max(1, int(size.X/stride))
	rows := max(1, int(size.Z/stride))
	i := step % (cols * rows)
	x := bounds.Min.X + (float32(i%cols)+0.5)*stride
	z := bounds.Min.Z + (float32(i/cols)+0.5)*stride
	return x, z
}

func (w *World) dropFocus(x, z float32) {
	if w.focus == nil {
		b, ok := w.Physics.NextInactive()
		if !ok {
			w.logger.Printf("World: pool exhausted (%d bodies)", w.cfg.PoolSize)
			return
		}
		w.focus = b
	}
	w.drop(w.focus, x, z)
}

func (w *World) drop(b *physics.DynamicBody, x, z float32) {
	w.lastDrop = rl.Vector3{X: x, Y: w.cfg.SpawnHeight, Z: z}
	w.Physics.QueueSpawn(b, w.lastDrop, spawnVelocity)
}

func (w *World) dropOverFace() {
	verts, err := w.Terrain().FaceVertices(w.face)
	if err != nil {
		w.logger.Printf("World: %v", err)
		return
	}
	v := verts[w.vertex]
	w.dropFocus(v.X, v.Z)
}

func (w *World) dropFirstLast() {
	t := w.Terrain()
	for _, i := range []int{0, t.FaceCount() - 1} {
		b, ok := w.Physics.NextInactive()
		if !ok {
			w.logger.Printf("World: pool exhausted (%d bodies)", w.cfg.PoolSize)
			return
		}
		c := t.Faces()[i].Centroid
		w.drop(b, c.X, c.Z)
	}
}

func (w *World) toggleLowFaces() {
	t := w.Terrain()
	if w.lowFacesOff {
		n := t.EnableAll()
		w.logger.Printf("World: enabled %d faces on %s", n, w.TerrainName())
	} else {
		n := t.DisableFacesBelow(w.cfg.DisableLevel)
		w.logger.Printf("World: disabled %d faces below %.1f on %s", n, w.cfg.DisableLevel, w.TerrainName())
	}
	w.lowFacesOff = !w.lowFacesOff
}

// nextTerrain switches terrain, carrying the low-face toggle across.
func (w *World) nextTerrain() {
	if w.lowFacesOff {
		w.Terrain().EnableAll()
	}
	w.current = wrap(w.current+1, len(w.Terrains))
	if w.lowFacesOff {
		w.Terrain().DisableFacesBelow(w.cfg.DisableLevel)
	}
	w.face, w.vertex, w.gridStep = 0, 0, 0
	w.logger.Printf("World: terrain %s (%d faces)", w.TerrainName(), w.Terrain().FaceCount())
}

// Status summarises the scene and the last tick for on-screen display.
func (w *World) Status(stats physics.TickStats) []string {
	p := w.Physics
	mode := "normal"
	if w.slow {
		mode = fmt.Sprintf("slow x%.0f", w.cfg.SlowMotion)
	}
	return []string{
		fmt.Sprintf("Terrain: %s (%d faces, %d disabled)", w.TerrainName(), w.Terrain().FaceCount(), w.Terrain().DisabledCount()),
		fmt.Sprintf("Bodies:  %d / %d active", p.ActiveCount(), len(p.Bodies())),
		fmt.Sprintf("Broad:   %s, %d candidates", p.Settings.BroadPhase, stats.Candidates),
		fmt.Sprintf("Contact: %d body, %d terrain", stats.BodyContacts, stats.TerrainContacts),
		fmt.Sprintf("Time:    %s, face %d vertex %d", mode, w.face, w.vertex),
	}
}

// Pick makes the nearest active sphere along the ray the focus body, so the
// next R/T/N/U/I/D drop reuses it.
func (w *World) Pick(origin, direction rl.Vector3, maxDistance float32) (*physics.DynamicBody, bool) {
	hit, ok := w.Physics.Raycast(origin, direction, maxDistance)
	if !ok {
		return nil, false
	}
	w.focus = hit.Body
	w.logger.Printf("World: picked body %d at %.1f", hit.Body.ID, hit.Distance)
	return hit.Body, true
}

// Release frees every terrain's spatial index.
func (w *World) Release() {
	for _, t := range w.Terrains {
		t.Release()
	}
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
