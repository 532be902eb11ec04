package world

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"collision3d/internal/config"
	"collision3d/internal/input"
	"collision3d/internal/physics"
	"collision3d/internal/terrain"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// raisedGrid is a 5x5 grid with the last two columns at height 10.
func raisedGrid() terrain.HeightGrid {
	g := terrain.HeightGrid{Width: 5, Length: 5, Heights: make([]float32, 25)}
	for z := 0; z < 5; z++ {
		for x := 3; x < 5; x++ {
			g.Heights[z*5+x] = 10
		}
	}
	return g
}

func flatGrid(n int) terrain.HeightGrid {
	return terrain.HeightGrid{Width: n, Length: n, Heights: make([]float32, n*n)}
}

func newTestWorld(t *testing.T, grids ...terrain.HeightGrid) *World {
	t.Helper()
	if len(grids) == 0 {
		grids = []terrain.HeightGrid{flatGrid(9)}
	}
	var terrains []*terrain.Terrain
	var names []string
	for i, g := range grids {
		ter, err := terrain.LoadFromHeightmap(g, 2, 1)
		if err != nil {
			t.Fatalf("LoadFromHeightmap failed: %v", err)
		}
		terrains = append(terrains, ter)
		names = append(names, []string{"first", "second", "third"}[i])
	}

	p := physics.NewWorld(physics.DefaultSettings())
	p.SetLogger(nil)
	cfg := config.Default().Demo
	cfg.PoolSize = 5
	cfg.Snapshot = filepath.Join(t.TempDir(), "snapshot.yaml")

	w := New(p, terrains, names, cfg, 1)
	w.SetLogger(nil)
	return w
}

func TestDropRandomSpawnsFocusOnNextStep(t *testing.T) {
	w := newTestWorld(t)

	if !w.Handle(input.ActionDropRandom) {
		t.Fatal("Expected drop to be handled")
	}
	b := w.Focus()
	if b == nil {
		t.Fatal("Expected a focus body")
	}
	if b.Active() {
		t.Fatal("Drop applied before the step")
	}

	w.Step(0.001)
	if !b.Active() {
		t.Fatal("Expected focus body active after step")
	}
	pos := b.Position()
	if pos.X < -7.5 || pos.X > 5.5 || math32.Abs(pos.X+0.5-math32.Round(pos.X+0.5)) > 1e-6 {
		t.Errorf("Expected x on the half-offset lattice in [-7.5, 5.5], got %v", pos.X)
	}
	if math32.Abs(pos.Y-20) > 0.01 {
		t.Errorf("Expected y near 20, got %v", pos.Y)
	}
}

func TestRedropReusesColumnAndBody(t *testing.T) {
	w := newTestWorld(t)
	w.Handle(input.ActionDropRandom)
	w.Step(0.01)
	first := w.Focus()
	x, z := first.Position().X, first.Position().Z

	for range 20 {
		w.Step(0.01)
	}
	w.Handle(input.ActionRedrop)
	w.Step(0.001)

	if w.Focus() != first {
		t.Error("Expected redrop to move the same body")
	}
	if first.Position().X != x || first.Position().Z != z {
		t.Errorf("Expected column (%v, %v), got (%v, %v)", x, z, first.Position().X, first.Position().Z)
	}
	if w.Physics.ActiveCount() != 1 {
		t.Errorf("Expected 1 active body, got %d", w.Physics.ActiveCount())
	}
}

func TestDropGridCoversTerrain(t *testing.T) {
	w := newTestWorld(t)
	bounds := w.Terrain().Bounds()

	seen := map[[2]float32]bool{}
	for i := 0; i < 16; i++ {
		x, z := w.gridXZ(i)
		if x < bounds.Min.X || x > bounds.Max.X || z < bounds.Min.Z || z > bounds.Max.Z {
			t.Errorf("Step %d: (%v, %v) outside terrain", i, x, z)
		}
		seen[[2]float32{x, z}] = true
	}
	if len(seen) != 16 {
		t.Errorf("Expected 16 distinct columns, got %d", len(seen))
	}

	x0, z0 := w.gridXZ(0)
	x16, z16 := w.gridXZ(16)
	if x0 != x16 || z0 != z16 {
		t.Error("Expected the grid walk to wrap after 16 steps")
	}
}

func TestFaceSteppingWraps(t *testing.T) {
	w := newTestWorld(t)
	count := w.Terrain().FaceCount()

	w.Handle(input.ActionPrevFace)
	if w.Face() != count-1 {
		t.Errorf("Expected face %d, got %d", count-1, w.Face())
	}
	w.Handle(input.ActionNextFace)
	if w.Face() != 0 {
		t.Errorf("Expected face 0, got %d", w.Face())
	}

	verts, _ := w.Terrain().FaceVertices(0)
	if w.lastDrop.X != verts[0].X || w.lastDrop.Z != verts[0].Z {
		t.Errorf("Expected drop over vertex 0 %v, got %v", verts[0], w.lastDrop)
	}

	for range 3 {
		w.Handle(input.ActionCycleVertex)
	}
	if w.Vertex() != 3 {
		t.Errorf("Expected vertex 3, got %d", w.Vertex())
	}
	if w.lastDrop.X != verts[3].X || w.lastDrop.Z != verts[3].Z {
		t.Errorf("Expected drop over the centroid %v, got %v", verts[3], w.lastDrop)
	}
	w.Handle(input.ActionCycleVertex)
	if w.Vertex() != 0 {
		t.Errorf("Expected vertex to wrap to 0, got %d", w.Vertex())
	}
}

func TestDropFirstLastUsesTwoPoolBodies(t *testing.T) {
	w := newTestWorld(t)
	w.Handle(input.ActionDropFirstLast)
	w.Step(0.001)
	if w.Physics.ActiveCount() != 2 {
		t.Errorf("Expected 2 active bodies, got %d", w.Physics.ActiveCount())
	}
}

func TestSpawnNextStopsAtPoolSize(t *testing.T) {
	w := newTestWorld(t)
	for range 7 {
		w.Handle(input.ActionSpawnNext)
	}
	w.Step(0.001)
	if w.Physics.ActiveCount() != 5 {
		t.Errorf("Expected the 5 pool spheres active, got %d", w.Physics.ActiveCount())
	}
	if w.Probe().Active() {
		t.Error("Spawning spheres should never activate the ray probe")
	}
}

func TestDropRayActivatesProbe(t *testing.T) {
	w := newTestWorld(t)
	w.Handle(input.ActionDropRay)
	w.Step(0.001)
	if !w.Probe().Active() {
		t.Fatal("Expected the probe to be active")
	}
	if w.Probe().Collider().Kind() != "ray" {
		t.Errorf("Expected a ray collider, got %s", w.Probe().Collider().Kind())
	}

	w.Handle(input.ActionClear)
	if w.Physics.ActiveCount() != 0 {
		t.Errorf("Expected clear to despawn everything, got %d active", w.Physics.ActiveCount())
	}
}

func TestPickMakesHitBodyTheFocus(t *testing.T) {
	w := newTestWorld(t)
	left, _ := w.Physics.NextInactive()
	w.Physics.QueueSpawn(left, rl.Vector3{X: -4, Y: 20}, rl.Vector3{})
	w.Step(0.001)
	right, _ := w.Physics.NextInactive()
	w.Physics.QueueSpawn(right, rl.Vector3{X: 4, Y: 20}, rl.Vector3{})
	w.Step(0.001)

	got, ok := w.Pick(rl.Vector3{X: 4, Y: 40}, rl.Vector3{Y: -1}, 100)
	if !ok || got != right {
		t.Fatalf("Expected to pick body %d, got %v (%v)", right.ID, got, ok)
	}
	if w.Focus() != right {
		t.Error("Expected the picked body to become the focus")
	}

	if _, ok := w.Pick(rl.Vector3{X: 0, Y: 40}, rl.Vector3{Y: -1}, 100); ok {
		t.Error("Expected a miss between the bodies")
	}
	if w.Focus() != right {
		t.Error("Expected a miss to keep the focus")
	}
}

func TestLowFacesToggleFollowsTerrainSwitch(t *testing.T) {
	w := newTestWorld(t, raisedGrid(), raisedGrid())

	w.Handle(input.ActionToggleLowFaces)
	if !w.LowFacesDisabled() || w.Terrain().DisabledCount() != 16 {
		t.Fatalf("Expected 16 disabled faces, got %d", w.Terrain().DisabledCount())
	}

	w.Handle(input.ActionNextTerrain)
	if w.TerrainIndex() != 1 || w.TerrainName() != "second" {
		t.Fatalf("Expected terrain second, got %s", w.TerrainName())
	}
	if w.Terrains[0].DisabledCount() != 0 {
		t.Errorf("Expected previous terrain restored, got %d disabled", w.Terrains[0].DisabledCount())
	}
	if w.Terrain().DisabledCount() != 16 {
		t.Errorf("Expected toggle carried to new terrain, got %d disabled", w.Terrain().DisabledCount())
	}

	w.Handle(input.ActionToggleLowFaces)
	if w.Terrain().DisabledCount() != 0 {
		t.Errorf("Expected all faces enabled, got %d disabled", w.Terrain().DisabledCount())
	}

	w.Handle(input.ActionNextTerrain)
	if w.TerrainIndex() != 0 {
		t.Errorf("Expected terrain switch to wrap, got %d", w.TerrainIndex())
	}
}

func TestSlowMotionDividesStep(t *testing.T) {
	w := newTestWorld(t)
	w.Handle(input.ActionDropRandom)
	w.Step(0)
	b := w.Focus()

	w.Handle(input.ActionSlowMotion)
	if !w.SlowMotion() {
		t.Fatal("Expected slow motion on")
	}
	w.Step(0.06)
	// -50 * 0.06/6 = -0.5
	if math32.Abs(b.Velocity().Y-(0.2-0.5)) > 1e-5 {
		t.Errorf("Expected vy -0.3, got %v", b.Velocity().Y)
	}

	w.Handle(input.ActionSlowMotion)
	w.Step(0.06)
	if math32.Abs(b.Velocity().Y-(-0.3-3)) > 1e-4 {
		t.Errorf("Expected vy -3.3, got %v", b.Velocity().Y)
	}
}

func TestToggleBroadPhase(t *testing.T) {
	w := newTestWorld(t)
	start := w.Physics.Settings.BroadPhase
	w.Handle(input.ActionToggleBroadPhase)
	if w.Physics.Settings.BroadPhase == start {
		t.Error("Expected broad phase to change")
	}
	w.Handle(input.ActionToggleBroadPhase)
	if w.Physics.Settings.BroadPhase != start {
		t.Error("Expected broad phase to toggle back")
	}
}

func TestViewActionsAreLeftToDriver(t *testing.T) {
	w := newTestWorld(t)
	for _, a := range []input.Action{input.ActionNone, input.ActionCameraMode, input.ActionZoomIn, input.ActionWireframe, input.ActionQuit} {
		if w.Handle(a) {
			t.Errorf("Expected %v not to be handled by the scene", a)
		}
	}
}

func TestSnapshotSaveAndRestore(t *testing.T) {
	w := newTestWorld(t, flatGrid(9), flatGrid(5))
	w.Handle(input.ActionDropFirstLast)
	w.Handle(input.ActionDropRay)
	w.Step(0.01)
	want := w.Capture()
	if len(want.Bodies) != 3 {
		t.Fatalf("Expected 3 captured bodies, got %d", len(want.Bodies))
	}

	if !w.Handle(input.ActionSaveSnapshot) {
		t.Fatal("Expected save to be handled")
	}
	w.Handle(input.ActionNextTerrain)
	w.Handle(input.ActionClear)
	w.Step(0.01)
	if w.Physics.ActiveCount() != 0 {
		t.Fatal("Expected no active bodies after clear")
	}

	if err := w.LoadSnapshot(w.cfg.Snapshot); err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if w.TerrainName() != "first" {
		t.Errorf("Expected terrain first, got %s", w.TerrainName())
	}
	w.Step(0)

	got := w.Capture()
	if len(got.Bodies) != len(want.Bodies) {
		t.Fatalf("Expected %d bodies, got %d", len(want.Bodies), len(got.Bodies))
	}
	for i := range want.Bodies {
		if got.Bodies[i] != want.Bodies[i] {
			t.Errorf("Body %d: expected %+v, got %+v", i, want.Bodies[i], got.Bodies[i])
		}
	}
}

func TestRestoreRejectsMismatchedPool(t *testing.T) {
	w := newTestWorld(t)
	probeID := w.Probe().ID

	cases := []Snapshot{
		{Bodies: []BodyState{{ID: 99, Collider: "sphere", Active: true}}},
		{Bodies: []BodyState{{ID: -1, Collider: "sphere", Active: true}}},
		{Bodies: []BodyState{{ID: probeID, Collider: "sphere", Active: true}}},
	}
	for i, snap := range cases {
		if err := w.Restore(snap); !errors.Is(err, ErrSnapshotMismatch) {
			t.Errorf("Case %d: expected ErrSnapshotMismatch, got %v", i, err)
		}
	}

	if err := w.LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing snapshot")
	}
}

func TestStatusReportsSceneState(t *testing.T) {
	w := newTestWorld(t)
	w.Handle(input.ActionDropFirstLast)
	w.Handle(input.ActionSlowMotion)
	stats := w.Step(0.01)

	lines := w.Status(stats)
	if len(lines) != 5 {
		t.Fatalf("Expected 5 status lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "first (128 faces, 0 disabled)") {
		t.Errorf("Unexpected terrain line %q", lines[0])
	}
	if !strings.Contains(lines[1], "2 / 6 active") {
		t.Errorf("Unexpected bodies line %q", lines[1])
	}
	if !strings.Contains(lines[4], "slow x6") {
		t.Errorf("Unexpected time line %q", lines[4])
	}
}
