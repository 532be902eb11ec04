// Package terrain holds the static triangulated heightmap that bodies collide
// against. Faces are indexed once in a static oct-tree at load time; after that
// only the Disabled and Collided flags ever change.
package terrain

import (
	"errors"
	"fmt"
	"log"

	"collision3d/internal/geom"
	"collision3d/internal/octree"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ErrLoad            = errors.New("terrain: load failed")
	ErrIndexOutOfRange = errors.New("terrain: face index out of range")
)

// DefaultTreeDepth is the static oct-tree depth used unless WithTreeDepth says otherwise.
const DefaultTreeDepth = 4

// HeightGrid is a row-major grid of vertex heights: Heights[z*Width+x].
type HeightGrid struct {
	Width   int
	Length  int
	Heights []float32
}

func (g HeightGrid) At(x, z int) float32 {
	return g.Heights[z*g.Width+x]
}

// Face is one terrain triangle. V is wound so the normal points up.
type Face struct {
	V        [3]rl.Vector3
	Normal   rl.Vector3
	Centroid rl.Vector3
	Radius   float32

	Disabled bool
	Collided bool // set by queries, debug colouring only
}

// Top is the highest vertex Y of the face.
func (f *Face) Top() float32 {
	return math32.Max(f.V[0].Y, math32.Max(f.V[1].Y, f.V[2].Y))
}

type Terrain struct {
	width       int
	length      int
	spacing     float32
	heightScale float32

	faces  []Face
	bounds geom.AABB
	tree   octree.StaticTree
}

type Option func(*loadOptions)

type loadOptions struct {
	treeDepth int
}

// WithTreeDepth sets the depth of the static face index.
func WithTreeDepth(depth int) Option {
	return func(o *loadOptions) { o.treeDepth = depth }
}

// LoadFromHeightmap triangulates grid into a terrain centred on the origin.
// Vertex (x, z) sits at ((x-(W-1)/2)*gridSpacing, h*heightScale, (z-(L-1)/2)*gridSpacing)
// and every cell contributes two faces.
func LoadFromHeightmap(grid HeightGrid, gridSpacing, heightScale float32, opts ...Option) (*Terrain, error) {
	o := loadOptions{treeDepth: DefaultTreeDepth}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case grid.Width < 2 || grid.Length < 2:
		return nil, fmt.Errorf("%w: grid %dx%d needs at least 2x2 vertices", ErrLoad, grid.Width, grid.Length)
	case len(grid.Heights) != grid.Width*grid.Length:
		return nil, fmt.Errorf("%w: %d heights for a %dx%d grid", ErrLoad, len(grid.Heights), grid.Width, grid.Length)
	case gridSpacing <= 0 || heightScale <= 0:
		return nil, fmt.Errorf("%w: spacing %v and height scale %v must be positive", ErrLoad, gridSpacing, heightScale)
	case o.treeDepth < 0 || o.treeDepth > octree.DepthLimit:
		return nil, fmt.Errorf("%w: tree depth %d outside [0, %d]", ErrLoad, o.treeDepth, octree.DepthLimit)
	}
	for i, h := range grid.Heights {
		if math32.IsNaN(h) || math32.IsInf(h, 0) {
			return nil, fmt.Errorf("%w: height %d is not finite", ErrLoad, i)
		}
	}

	t := &Terrain{
		width:       grid.Width,
		length:      grid.Length,
		spacing:     gridSpacing,
		heightScale: heightScale,
	}

	vertices := make([]rl.Vector3, grid.Width*grid.Length)
	offX := float32(grid.Width-1) / 2
	offZ := float32(grid.Length-1) / 2
	for z := 0; z < grid.Length; z++ {
		for x := 0; x < grid.Width; x++ {
			v := rl.Vector3{
				X: (float32(x) - offX) * gridSpacing,
				Y: grid.At(x, z) * heightScale,
				Z: (float32(z) - offZ) * gridSpacing,
			}
			vertices[z*grid.Width+x] = v
			if x == 0 && z == 0 {
				t.bounds = geom.AABB{Min: v, Max: v}
			} else {
				t.bounds.Min = rl.Vector3Min(t.bounds.Min, v)
				t.bounds.Max = rl.Vector3Max(t.bounds.Max, v)
			}
		}
	}

	t.faces = make([]Face, 0, 2*(grid.Width-1)*(grid.Length-1))
	for z := 0; z < grid.Length-1; z++ {
		for x := 0; x < grid.Width-1; x++ {
			v00 := vertices[z*grid.Width+x]
			v10 := vertices[z*grid.Width+x+1]
			v01 := vertices[(z+1)*grid.Width+x]
			v11 := vertices[(z+1)*grid.Width+x+1]
			t.faces = append(t.faces, newFace(v00, v01, v10), newFace(v10, v01, v11))
		}
	}

	size := t.bounds.Size()
	half := math32.Max(size.X, math32.Max(size.Y, size.Z))/2 + gridSpacing
	t.tree.Build(t.bounds.Center(), half, o.treeDepth)
	for i := range t.faces {
		f := &t.faces[i]
		t.tree.Insert(octree.Object{ID: i, Center: f.Centroid, Radius: f.Radius})
	}

	log.Printf("Terrain: %d faces from %dx%d grid (spacing %.2f, height scale %.2f, tree depth %d)",
		len(t.faces), grid.Width, grid.Length, gridSpacing, heightScale, o.treeDepth)
	return t, nil
}

func newFace(a, b, c rl.Vector3) Face {
	n := geom.TriangleNormal(a, b, c, geom.Up)
	if n.Y < 0 {
		n = rl.Vector3Negate(n)
	}
	centroid := geom.Centroid(a, b, c)
	return Face{
		V:        [3]rl.Vector3{a, b, c},
		Normal:   n,
		Centroid: centroid,
		Radius:   geom.BoundingRadius(centroid, a, b, c),
	}
}

// Faces returns the face slice itself; callers may read it but must not grow it.
func (t *Terrain) Faces() []Face     { return t.faces }
func (t *Terrain) FaceCount() int    { return len(t.faces) }
func (t *Terrain) Width() int        { return t.width }
func (t *Terrain) Length() int       { return t.length }
func (t *Terrain) Bounds() geom.AABB { return t.bounds }
func (t *Terrain) Spacing() float32  { return t.spacing }

// FaceVertices returns the three vertices of face i followed by its centroid.
func (t *Terrain) FaceVertices(i int) ([4]rl.Vector3, error) {
	if i < 0 || i >= len(t.faces) {
		return [4]rl.Vector3{}, fmt.Errorf("face %d of %d: %w", i, len(t.faces), ErrIndexOutOfRange)
	}
	f := &t.faces[i]
	return [4]rl.Vector3{f.V[0], f.V[1], f.V[2], f.Centroid}, nil
}

// DisableFacesBelow disables every enabled face lying entirely below level
// and returns how many were toggled.
func (t *Terrain) DisableFacesBelow(level float32) int {
	n := 0
	for i := range t.faces {
		f := &t.faces[i]
		if !f.Disabled && f.Top() < level {
			f.Disabled = true
			n++
		}
	}
	return n
}

// EnableAll re-enables every disabled face and returns how many were toggled.
func (t *Terrain) EnableAll() int {
	n := 0
	for i := range t.faces {
		if t.faces[i].Disabled {
			t.faces[i].Disabled = false
			n++
		}
	}
	return n
}

func (t *Terrain) DisabledCount() int {
	n := 0
	for i := range t.faces {
		if t.faces[i].Disabled {
			n++
		}
	}
	return n
}

func (t *Terrain) ResetCollidedFlags() {
	for i := range t.faces {
		t.faces[i].Collided = false
	}
}

// Release drops the face index. The terrain must not be queried afterwards.
func (t *Terrain) Release() {
	t.tree.Clear()
}
