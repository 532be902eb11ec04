// Package game is the raylib frame driver: it owns the window, camera,
// audio and input, and draws the shared scene.
package game

import (
	"log"
	"time"

	"collision3d/internal/audio"
	"collision3d/internal/camera"
	"collision3d/internal/config"
	"collision3d/internal/input"
	"collision3d/internal/physics"
	"collision3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	keyCooldown    = 80 * time.Millisecond
	cameraDistance = 60
	audioRange     = 150
	pickDistance   = 1000
)

type Game struct {
	Scene  *world.World
	Config config.Config

	camera   *camera.OrbitCamera
	audio    *audio.Manager
	keys     *input.Debouncer
	renderer *Renderer

	stats   physics.TickStats
	showHUD bool
	quit    bool

	// Debug timing (ms)
	stepMs float64
	drawMs float64
}

func New(cfg config.Config, scene *world.World) *Game {
	return &Game{
		Scene:    scene,
		Config:   cfg,
		camera:   camera.New(scene.Terrain().Bounds().Center(), cameraDistance),
		audio:    audio.NewManager(audioRange),
		keys:     input.NewDebouncer(keyCooldown),
		renderer: NewRenderer(),
		showHUD:  true,
	}
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(g.Config.Demo.WindowWidth), int32(g.Config.Demo.WindowHeight), "Collision: sphere / terrain")
	defer rl.CloseWindow()

	rl.SetTargetFPS(120)
	// Escape is bound to the quit action instead
	rl.SetExitKey(rl.KeyNull)

	// Models need the GL context created above
	g.renderer.Initialize(g.Config.Demo.SphereRadius)
	defer g.renderer.Unload()
	for _, b := range g.Scene.Physics.Bodies() {
		if _, ok := b.Collider().(physics.SphereCollider); ok {
			b.SetMesh(g.renderer.SphereModel())
		}
	}
	initHUDStyle()

	if g.Config.Demo.Sound {
		if err := g.audio.Init(); err != nil {
			log.Printf("Audio: disabled: %v", err)
		}
		defer g.audio.Close()
	}

	for !rl.WindowShouldClose() && !g.quit {
		g.Update()
		g.Draw()
	}
}

func (g *Game) Update() {
	deltaTime := rl.GetFrameTime()

	for _, a := range pollActions(g.keys, rl.IsKeyDown) {
		g.handle(a)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), g.camera.GetRaylibCamera())
		g.Scene.Pick(ray.Position, ray.Direction, pickDistance)
	}

	stepStart := time.Now()
	g.stats = g.Scene.Step(deltaTime)
	g.stepMs = float64(time.Since(stepStart).Microseconds()) / 1000.0

	g.camera.Update(deltaTime)
	g.audio.SetListener(g.camera.Position(), g.camera.Forward(), rl.Vector3{X: 0, Y: 1, Z: 0})
	if g.stats.MaxImpactSpeed > 0 {
		g.audio.PlayImpact(g.stats.ImpactPoint, g.stats.MaxImpactSpeed)
	}
}

// handle runs a scene action, or applies a view action to the driver.
func (g *Game) handle(a input.Action) {
	if g.Scene.Handle(a) {
		if a == input.ActionNextTerrain {
			g.camera.Target = g.Scene.Terrain().Bounds().Center()
		}
		return
	}
	switch a {
	case input.ActionCameraMode:
		g.camera.ToggleMode()
	case input.ActionZoomIn:
		g.camera.Zoom(1)
	case input.ActionZoomOut:
		g.camera.Zoom(-1)
	case input.ActionTurnLeft:
		g.camera.Turn(-1)
	case input.ActionTurnRight:
		g.camera.Turn(1)
	case input.ActionWireframe:
		g.renderer.Wireframe = !g.renderer.Wireframe
	case input.ActionToggleHUD:
		g.showHUD = !g.showHUD
	case input.ActionQuit:
		g.quit = true
	}
}

func (g *Game) Draw() {
	cam := g.camera.GetRaylibCamera()
	aspect := float32(rl.GetScreenWidth()) / float32(rl.GetScreenHeight())
	frustum := ExtractFrustum(cam, aspect)

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(cam)
	g.renderer.DrawTerrain(g.Scene.Terrain(), &frustum)
	g.renderer.DrawBodies(g.Scene.Physics.Bodies(), g.Scene.Focus(), &frustum)
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.drawHUD()
	rl.EndDrawing()
}
