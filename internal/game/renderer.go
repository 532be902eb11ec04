package game

import (
	"image/color"

	"collision3d/internal/geom"
	"collision3d/internal/physics"
	"collision3d/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorLow      = rl.NewColor(70, 130, 60, 255)
	colorHigh     = rl.NewColor(200, 190, 160, 255)
	colorDisabled = rl.NewColor(60, 60, 70, 120)
	colorCollided = rl.NewColor(230, 60, 50, 255)
	colorWire     = rl.NewColor(120, 200, 120, 255)

	colorBody  = rl.Orange
	colorFocus = rl.SkyBlue
	colorProbe = rl.Magenta
)

// Renderer draws the terrain faces and the active bodies in immediate mode,
// lit by a single directional light computed on the CPU.
type Renderer struct {
	LightDir  rl.Vector3
	Wireframe bool

	sphere rl.Model
	loaded bool

	// faces and bodies drawn last frame
	FacesDrawn  int
	BodiesDrawn int
}

func NewRenderer() *Renderer {
	return &Renderer{
		LightDir: rl.Vector3Normalize(rl.Vector3{X: 0.35, Y: -1.0, Z: -0.35}),
	}
}

// Initialize builds the shared sphere model. It needs a GL context.
func (r *Renderer) Initialize(radius float32) {
	r.sphere = rl.LoadModelFromMesh(rl.GenMeshSphere(radius, 16, 16))
	r.loaded = true
}

// SphereModel is the mesh handle attached to sphere bodies.
func (r *Renderer) SphereModel() *rl.Model { return &r.sphere }

func (r *Renderer) DrawTerrain(t *terrain.Terrain, frustum *Frustum) {
	r.FacesDrawn = 0
	bounds := t.Bounds()
	faces := t.Faces()
	for i := range faces {
		f := &faces[i]
		if !frustum.ContainsSphere(f.Centroid, f.Radius) {
			continue
		}
		r.FacesDrawn++
		if r.Wireframe {
			c := colorWire
			if f.Disabled {
				c = colorDisabled
			} else if f.Collided {
				c = colorCollided
			}
			rl.DrawLine3D(f.V[0], f.V[1], c)
			rl.DrawLine3D(f.V[1], f.V[2], c)
			rl.DrawLine3D(f.V[2], f.V[0], c)
			continue
		}
		rl.DrawTriangle3D(f.V[0], f.V[1], f.V[2], faceColor(f, bounds.Min.Y, bounds.Max.Y, r.LightDir))
	}
}

func (r *Renderer) DrawBodies(bodies []*physics.DynamicBody, focus *physics.DynamicBody, frustum *Frustum) {
	r.BodiesDrawn = 0
	for _, b := range bodies {
		if !b.Active() {
			continue
		}
		pos := b.Position()
		switch b.Collider().(type) {
		case physics.RayCollider:
			// the probe is a point; show where it is heading
			rl.DrawSphere(pos, 0.15, colorProbe)
			rl.DrawLine3D(pos, rl.Vector3Add(pos, rl.Vector3Scale(b.Velocity(), 0.1)), colorProbe)
			r.BodiesDrawn++
		case physics.SphereCollider:
			if !frustum.ContainsSphere(pos, b.Radius()) {
				continue
			}
			model, ok := b.Mesh().(*rl.Model)
			if !ok || model == nil {
				continue
			}
			tint := colorBody
			if b == focus {
				tint = colorFocus
			}
			model.Transform = b.WorldMatrix()
			if r.Wireframe {
				rl.DrawModelWires(*model, rl.Vector3{}, 1, tint)
			} else {
				rl.DrawModel(*model, rl.Vector3{}, 1, tint)
			}
			r.BodiesDrawn++
		}
	}
}

func (r *Renderer) Unload() {
	if r.loaded {
		rl.UnloadModel(r.sphere)
		r.loaded = false
	}
}

// faceColor blends by height between minY and maxY and shades by the angle
// to the light. Disabled and collided faces use flat debug colours.
func faceColor(f *terrain.Face, minY, maxY float32, lightDir rl.Vector3) color.RGBA {
	if f.Disabled {
		return colorDisabled
	}
	if f.Collided {
		return colorCollided
	}
	t := float32(0)
	if maxY > minY {
		t = (f.Centroid.Y - minY) / (maxY - minY)
	}
	base := lerpColor(colorLow, colorHigh, t)

	diffuse := geom.Clamp(-rl.Vector3DotProduct(f.Normal, lightDir), 0, 1)
	// 0.35 ambient floor
	return scaleColor(base, 1-0.65*(1-diffuse))
}

func lerpColor(a, b color.RGBA, t float32) color.RGBA {
	t = geom.Clamp(t, 0, 1)
	mix := func(x, y uint8) uint8 { return uint8(float32(x) + (float32(y)-float32(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func scaleColor(c color.RGBA, k float32) color.RGBA {
	k = geom.Clamp(k, 0, 1)
	return color.RGBA{R: uint8(float32(c.R) * k), G: uint8(float32(c.G) * k), B: uint8(float32(c.B) * k), A: c.A}
}
