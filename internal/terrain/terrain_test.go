package terrain

import (
	"errors"
	"math/rand"
	"testing"

	"collision3d/internal/geom"
	"collision3d/internal/octree"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func flatGrid(w, l int, h float32) HeightGrid {
	g := HeightGrid{Width: w, Length: l, Heights: make([]float32, w*l)}
	for i := range g.Heights {
		g.Heights[i] = h
	}
	return g
}

func bumpyGrid(w, l int, seed int64) HeightGrid {
	r := rand.New(rand.NewSource(seed))
	g := HeightGrid{Width: w, Length: l, Heights: make([]float32, w*l)}
	for i := range g.Heights {
		g.Heights[i] = r.Float32() * 8
	}
	return g
}

func mustLoad(t *testing.T, g HeightGrid) *Terrain {
	t.Helper()
	ter, err := LoadFromHeightmap(g, 2, 1)
	if err != nil {
		t.Fatalf("LoadFromHeightmap failed: %v", err)
	}
	return ter
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		grid    HeightGrid
		spacing float32
		scale   float32
	}{
		{"single row", flatGrid(5, 1, 0), 2, 1},
		{"empty", HeightGrid{}, 2, 1},
		{"short heights", HeightGrid{Width: 3, Length: 3, Heights: make([]float32, 8)}, 2, 1},
		{"zero spacing", flatGrid(3, 3, 0), 0, 1},
		{"negative scale", flatGrid(3, 3, 0), 2, -1},
		{"nan height", HeightGrid{Width: 2, Length: 2, Heights: []float32{0, 0, math32.NaN(), 0}}, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromHeightmap(tt.grid, tt.spacing, tt.scale)
			if !errors.Is(err, ErrLoad) {
				t.Errorf("Expected ErrLoad, got %v", err)
			}
		})
	}

	for _, depth := range []int{-1, octree.DepthLimit + 1, 30} {
		if _, err := LoadFromHeightmap(flatGrid(3, 3, 0), 2, 1, WithTreeDepth(depth)); !errors.Is(err, ErrLoad) {
			t.Errorf("Tree depth %d: expected ErrLoad, got %v", depth, err)
		}
	}
}

func TestLoadBuildsCentredGrid(t *testing.T) {
	ter := mustLoad(t, flatGrid(4, 3, 1.5))

	if ter.FaceCount() != 2*3*2 {
		t.Errorf("Expected 12 faces, got %d", ter.FaceCount())
	}
	if ter.Width() != 4 || ter.Length() != 3 {
		t.Errorf("Expected 4x3, got %dx%d", ter.Width(), ter.Length())
	}

	b := ter.Bounds()
	want := geom.AABB{Min: rl.Vector3{X: -3, Y: 1.5, Z: -2}, Max: rl.Vector3{X: 3, Y: 1.5, Z: 2}}
	if b != want {
		t.Errorf("Expected bounds %v, got %v", want, b)
	}

	for i, f := range ter.Faces() {
		if math32.Abs(f.Normal.Y-1) > 1e-5 {
			t.Errorf("Face %d: expected +Y normal on flat terrain, got %v", i, f.Normal)
		}
		if f.Radius <= 0 {
			t.Errorf("Face %d: expected positive bounding radius, got %f", i, f.Radius)
		}
	}
}

func TestNormalsPointUpOnBumpyTerrain(t *testing.T) {
	ter := mustLoad(t, bumpyGrid(9, 9, 3))
	for i, f := range ter.Faces() {
		if f.Normal.Y <= 0 {
			t.Errorf("Face %d: expected upward normal, got %v", i, f.Normal)
		}
		if math32.Abs(rl.Vector3Length(f.Normal)-1) > 1e-4 {
			t.Errorf("Face %d: expected unit normal, got %v", i, f.Normal)
		}
	}
}

func TestFaceVertices(t *testing.T) {
	ter := mustLoad(t, flatGrid(3, 3, 0))

	v, err := ter.FaceVertices(0)
	if err != nil {
		t.Fatalf("FaceVertices(0) failed: %v", err)
	}
	centroid := geom.Centroid(v[0], v[1], v[2])
	if rl.Vector3Distance(centroid, v[3]) > 1e-5 {
		t.Errorf("Expected centroid %v as fourth vertex, got %v", centroid, v[3])
	}

	for _, i := range []int{-1, ter.FaceCount()} {
		if _, err := ter.FaceVertices(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("FaceVertices(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestSphereCollisionFlat(t *testing.T) {
	ter := mustLoad(t, flatGrid(5, 5, 2))

	normal, pen, ok := ter.SphereCollision(rl.Vector3{X: 0.5, Y: 2.25, Z: 0.5}, 0.5)
	if !ok {
		t.Fatal("Expected sphere sunk into the ground to collide")
	}
	if math32.Abs(pen-0.25) > 1e-5 {
		t.Errorf("Expected penetration 0.25, got %f", pen)
	}
	if math32.Abs(normal.Y-1) > 1e-4 {
		t.Errorf("Expected +Y normal, got %v", normal)
	}

	// touching exactly is not a contact
	if _, _, ok := ter.SphereCollision(rl.Vector3{X: 0.5, Y: 2.5, Z: 0.5}, 0.5); ok {
		t.Error("Expected sphere touching the surface not to collide")
	}
}

func TestSphereCollisionCentreOnFace(t *testing.T) {
	ter := mustLoad(t, flatGrid(3, 3, 0))

	normal, pen, ok := ter.SphereCollision(rl.Vector3{X: 0.5, Y: 0, Z: 0.5}, 0.25)
	if !ok {
		t.Fatal("Expected a contact for a centre lying on the surface")
	}
	if math32.Abs(normal.Y-1) > 1e-5 || math32.Abs(pen-0.25) > 1e-5 {
		t.Errorf("Expected face normal and full radius penetration, got %v and %f", normal, pen)
	}
}

func TestSphereCollisionBelowSurfaceUsesFaceNormal(t *testing.T) {
	ter := mustLoad(t, flatGrid(5, 5, 0))

	// off the cell centre, so the first face found may only touch the
	// sphere along an edge or at a vertex
	for _, centre := range []rl.Vector3{
		{X: 0.3, Y: -0.2, Z: 0.3},
		{X: 0.3, Y: 0.2, Z: 0.3},
		{X: 1.9, Y: -0.1, Z: -0.1},
		{X: -2, Y: 0.05, Z: 2},
	} {
		normal, pen, ok := ter.SphereCollision(centre, 0.5)
		if !ok {
			t.Fatalf("Expected a contact at %v", centre)
		}
		if math32.Abs(normal.Y-1) > 1e-5 {
			t.Errorf("At %v: expected +Y normal, got %v", centre, normal)
		}
		if pen <= 0 || pen > 0.5 {
			t.Errorf("At %v: penetration %f out of range", centre, pen)
		}
	}
}

func TestSphereCollisionMatchesBruteForce(t *testing.T) {
	ter := mustLoad(t, bumpyGrid(12, 12, 11))
	r := rand.New(rand.NewSource(5))
	b := ter.Bounds()

	for trial := 0; trial < 300; trial++ {
		centre := rl.Vector3{
			X: b.Min.X + r.Float32()*(b.Max.X-b.Min.X),
			Y: b.Min.Y + r.Float32()*(b.Max.Y-b.Min.Y+2),
			Z: b.Min.Z + r.Float32()*(b.Max.Z-b.Min.Z),
		}
		radius := 0.2 + r.Float32()*2

		want := false
		for _, f := range ter.Faces() {
			cp := geom.ClosestPointOnTriangle(centre, f.V[0], f.V[1], f.V[2])
			if rl.Vector3Distance(centre, cp) < radius {
				want = true
				break
			}
		}

		_, pen, ok := ter.SphereCollision(centre, radius)
		if ok != want {
			t.Fatalf("Sphere at %v r=%f: expected contact %v, got %v", centre, radius, want, ok)
		}
		if ok && (pen <= 0 || pen > radius) {
			t.Fatalf("Penetration %f out of range for radius %f", pen, radius)
		}
	}
}

func TestQueriesAreDeterministic(t *testing.T) {
	ter := mustLoad(t, bumpyGrid(10, 10, 8))
	centre := rl.Vector3{X: 1, Y: 4, Z: -2}

	n1, p1, ok1 := ter.SphereCollision(centre, 3)
	n2, p2, ok2 := ter.SphereCollision(centre, 3)
	if n1 != n2 || p1 != p2 || ok1 != ok2 {
		t.Errorf("Expected identical results, got (%v %f %v) and (%v %f %v)", n1, p1, ok1, n2, p2, ok2)
	}

	origin := rl.Vector3{X: 2, Y: 20, Z: 3}
	dir := rl.Vector3{X: 0.1, Y: -1, Z: 0.05}
	a1, b1, c1 := ter.RayCollision(origin, dir, 40)
	a2, b2, c2 := ter.RayCollision(origin, dir, 40)
	if a1 != a2 || b1 != b2 || c1 != c2 {
		t.Error("Expected identical ray results")
	}
}

func TestRayCollision(t *testing.T) {
	ter := mustLoad(t, flatGrid(5, 5, 2))

	point, normal, ok := ter.RayCollision(rl.Vector3{X: 0.3, Y: 5, Z: 0.7}, rl.Vector3{Y: -3}, 10)
	if !ok {
		t.Fatal("Expected downward ray to hit the terrain")
	}
	if math32.Abs(point.Y-2) > 1e-4 || math32.Abs(point.X-0.3) > 1e-4 {
		t.Errorf("Expected hit at (0.3, 2, 0.7), got %v", point)
	}
	if math32.Abs(normal.Y-1) > 1e-5 {
		t.Errorf("Expected +Y normal, got %v", normal)
	}

	if _, _, ok := ter.RayCollision(rl.Vector3{X: 0.3, Y: 5, Z: 0.7}, rl.Vector3{Y: -1}, 2); ok {
		t.Error("Expected short ray to miss")
	}

	_, normal, ok = ter.RayCollision(rl.Vector3{X: 0.3, Y: -1, Z: 0.7}, rl.Vector3{Y: 1}, 10)
	if !ok || math32.Abs(normal.Y+1) > 1e-5 {
		t.Errorf("Expected hit from below with -Y normal, got %v (ok=%v)", normal, ok)
	}

	if _, _, ok := ter.RayCollision(rl.Vector3{X: 0.3, Y: 5, Z: 0.7}, rl.Vector3{}, 10); ok {
		t.Error("Expected zero direction to report no hit")
	}

	if _, _, ok := ter.RayCollision(rl.Vector3{X: 50, Y: 5, Z: 0}, rl.Vector3{Y: -1}, 10); ok {
		t.Error("Expected ray outside the terrain to miss")
	}
}

func TestRayCollisionNearestFace(t *testing.T) {
	ter := mustLoad(t, bumpyGrid(8, 8, 21))
	origin := rl.Vector3{X: -6, Y: 10, Z: -1}
	dir := rl.Vector3{X: 1, Y: -0.6, Z: 0.2}

	point, _, ok := ter.RayCollision(origin, dir, 40)
	if !ok {
		t.Skip("ray missed this terrain")
	}
	hitDist := rl.Vector3Distance(origin, point)

	// no face may be crossed closer to the origin
	for i := 1; i < 50; i++ {
		frac := float32(i) / 50 * hitDist
		if _, _, closer := ter.RayCollision(origin, dir, frac-1e-3); closer && frac < hitDist-1e-2 {
			t.Fatalf("Found a crossing within %f of origin, nearest reported at %f", frac, hitDist)
		}
	}
}

func TestDisableAndEnableFaces(t *testing.T) {
	g := flatGrid(5, 5, 0)
	for z := 0; z < 5; z++ {
		for x := 3; x < 5; x++ {
			g.Heights[z*5+x] = 10
		}
	}
	ter := mustLoad(t, g)

	// cells with x in [0, 2) are fully below 4
	disabled := ter.DisableFacesBelow(4)
	if disabled != 2*2*4 {
		t.Errorf("Expected 16 faces disabled, got %d", disabled)
	}
	if again := ter.DisableFacesBelow(4); again != 0 {
		t.Errorf("Expected second disable to toggle nothing, got %d", again)
	}
	if ter.DisabledCount() != disabled {
		t.Errorf("Expected %d disabled faces, got %d", disabled, ter.DisabledCount())
	}

	if _, _, ok := ter.SphereCollision(rl.Vector3{X: -3, Y: 0.2, Z: 0.5}, 0.5); ok {
		t.Error("Expected disabled faces to be ignored by sphere queries")
	}
	if _, _, ok := ter.RayCollision(rl.Vector3{X: -3, Y: 5, Z: 0.5}, rl.Vector3{Y: -1}, 10); ok {
		t.Error("Expected disabled faces to be ignored by ray queries")
	}

	if enabled := ter.EnableAll(); enabled != disabled {
		t.Errorf("Expected %d faces enabled, got %d", disabled, enabled)
	}
	if _, _, ok := ter.SphereCollision(rl.Vector3{X: -3, Y: 0.2, Z: 0.5}, 0.5); !ok {
		t.Error("Expected re-enabled faces to collide")
	}
}

func TestCollidedFlags(t *testing.T) {
	ter := mustLoad(t, flatGrid(3, 3, 0))
	ter.SphereCollision(rl.Vector3{X: 0.5, Y: 0.1, Z: 0.5}, 0.5)

	count := func() int {
		n := 0
		for _, f := range ter.Faces() {
			if f.Collided {
				n++
			}
		}
		return n
	}
	if count() != 1 {
		t.Errorf("Expected 1 collided face, got %d", count())
	}
	ter.ResetCollidedFlags()
	if count() != 0 {
		t.Errorf("Expected no collided faces after reset, got %d", count())
	}
}
