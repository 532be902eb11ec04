package game

import (
	"fmt"

	"collision3d/internal/physics"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	helpText  = "Zoom/Rotate Q,A/O,P  Camera C  Drop R,T,N  Faces U,I,D,F  Spawn Up  Ray Y  Clear X  Hide H  Terrain Tab"
	helpText2 = "Slow Space  Broad phase B  Save/Load K,L  Wire W  HUD G  Quit Esc"
)

var (
	colorPanel = rl.NewColor(18, 18, 24, 220)
	colorText  = rl.NewColor(200, 200, 208, 255)
	colorMuted = rl.NewColor(119, 119, 119, 255)
	colorGood  = rl.Lime
)

// initHUDStyle sets up a dark theme for the tuning panel
func initHUDStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorPanel))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(28, 28, 38, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.NewColor(38, 38, 52, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(rl.NewColor(108, 99, 255, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.White))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.NewColor(108, 99, 255, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
}

func (g *Game) drawHUD() {
	rl.DrawText(helpText, 10, 10, 16, colorMuted)
	rl.DrawText(helpText2, 10, 28, 16, colorMuted)
	rl.DrawFPS(10, 48)
	if !g.showHUD {
		return
	}

	for i, line := range g.Scene.Status(g.stats) {
		rl.DrawText(line, 10, int32(72+i*18), 16, colorText)
	}
	rl.DrawText(fmt.Sprintf("Step: %.2f ms  Draw: %.2f ms  Faces: %d", g.stepMs, g.drawMs, g.renderer.FacesDrawn), 10, 168, 16, colorGood)

	g.drawTuningPanel()
}

// drawTuningPanel edits the live physics settings.
func (g *Game) drawTuningPanel() {
	s := &g.Scene.Physics.Settings
	panelW := float32(300)
	x := float32(rl.GetScreenWidth()) - panelW - 10
	y := float32(50)

	rl.DrawRectangle(int32(x-10), int32(y-10), int32(panelW+20), 230, colorPanel)

	slider := func(label string, value *float32, min, max float32) {
		rl.DrawText(label, int32(x), int32(y), 14, colorText)
		bounds := rl.Rectangle{X: x + 130, Y: y - 2, Width: panelW - 180, Height: 16}
		*value = gui.Slider(bounds, "", fmt.Sprintf("%.2f", *value), *value, min, max)
		y += 24
	}
	slider("Body bounce", &s.BodyRestitution, 0, 1)
	slider("Terrain bounce", &s.TerrainRestitution, 0, 1)
	slider("Static friction", &s.StaticFriction, 0, 2)
	slider("Dynamic friction", &s.DynamicFriction, 0, 2)
	slider("Correction", &s.TerrainCorrection, 0, 1)
	slider("Gravity", &s.Gravity.Y, -100, 0)
	clampFriction(s)

	octree := s.BroadPhase == physics.BroadPhaseOctree
	octree = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Octree broad phase", octree)
	s.BroadPhase = physics.BroadPhaseAllPairs
	if octree {
		s.BroadPhase = physics.BroadPhaseOctree
	}
	y += 24

	g.camera.AutoTurn = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Auto turn", g.camera.AutoTurn)
}

// clampFriction keeps dynamic friction within the static cone.
func clampFriction(s *physics.Settings) {
	if s.DynamicFriction > s.StaticFriction {
		s.DynamicFriction = s.StaticFriction
	}
}
