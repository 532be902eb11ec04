// Package termview is a top-down terminal frame driver for the scene. It
// shares the simulation and key actions with the window driver and draws
// terrain heights as shaded characters.
package termview

import (
	"time"
	"unicode"

	"collision3d/internal/input"
	"collision3d/internal/physics"
	"collision3d/internal/world"

	"github.com/gdamore/tcell/v2"
)

const (
	keyCooldown = 60 * time.Millisecond
	statusRows  = 6
)

// heightRamp shades terrain from lowest to highest.
var heightRamp = []rune(" .:-=+*#%@")

var (
	styleTerrain  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDisabled = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleCollided = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBody     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFocus    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleProbe    = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const helpLine = "r/t/n drop  u/i/d/f faces  y ray  x clear  h hide  tab terrain  space slow  b broad  k/l save/load  esc quit"

type View struct {
	screen tcell.Screen
	scene  *world.World
	keys   *input.Debouncer
	stats  physics.TickStats
}

func New(screen tcell.Screen, scene *world.World) *View {
	return &View{
		screen: screen,
		scene:  scene,
		keys:   input.NewDebouncer(keyCooldown),
	}
}

// Run steps and redraws every frame until a quit key arrives.
func (v *View) Run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				// screen finalised
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !v.HandleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			v.Step(float32(now.Sub(last).Seconds()))
			last = now
			v.Draw()
		}
	}
}

// Step advances the scene by dt seconds.
func (v *View) Step(dt float32) {
	v.stats = v.scene.Step(dt)
}

// HandleEvent applies one terminal event and reports whether to keep running.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a := actionFor(ev)
		if a == input.ActionQuit {
			return false
		}
		// terminals repeat held keys, so every event is a press
		if v.keys.Allow(a) {
			v.scene.Handle(a)
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func actionFor(ev *tcell.EventKey) input.Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.ActionQuit
	case tcell.KeyUp:
		return input.ActionSpawnNext
	case tcell.KeyTab:
		return input.ActionNextTerrain
	case tcell.KeyRune:
		return input.RuneKeys[unicode.ToLower(ev.Rune())]
	}
	return input.ActionNone
}

// grid maps world xz onto screen cells.
type grid struct {
	minX, minZ     float32
	scaleX, scaleZ float32
	w, h           int
}

func (g grid) cell(x, z float32) (int, int, bool) {
	cx := int((x - g.minX) * g.scaleX)
	cy := int((z - g.minZ) * g.scaleZ)
	if cx < 0 || cy < 0 || cx >= g.w || cy >= g.h {
		return 0, 0, false
	}
	return cx, cy, true
}

func (v *View) Draw() {
	v.screen.Clear()
	sw, sh := v.screen.Size()
	mapH := sh - statusRows
	if sw < 1 || mapH < 1 {
		v.screen.Show()
		return
	}

	t := v.scene.Terrain()
	bounds := t.Bounds()
	size := bounds.Size()
	g := grid{minX: bounds.Min.X, minZ: bounds.Min.Z, w: sw, h: mapH}
	if size.X > 0 {
		g.scaleX = float32(sw) / size.X
	}
	if size.Z > 0 {
		g.scaleZ = float32(mapH) / size.Z
	}

	// highest face per cell
	heights := make([]float32, sw*mapH)
	styles := make([]tcell.Style, sw*mapH)
	seen := make([]bool, sw*mapH)
	faces := t.Faces()
	for i := range faces {
		f := &faces[i]
		cx, cy, ok := g.cell(f.Centroid.X, f.Centroid.Z)
		if !ok {
			continue
		}
		idx := cy*sw + cx
		style := styleTerrain
		switch {
		case f.Disabled:
			style = styleDisabled
		case f.Collided:
			style = styleCollided
		}
		if top := f.Top(); !seen[idx] || top > heights[idx] || f.Collided {
			heights[idx] = top
			styles[idx] = style
			seen[idx] = true
		}
	}

	span := size.Y
	for idx, ok := range seen {
		if !ok {
			continue
		}
		level := 0
		if span > 0 {
			level = int((heights[idx] - bounds.Min.Y) / span * float32(len(heightRamp)-1))
		}
		level = max(0, min(level, len(heightRamp)-1))
		v.screen.SetContent(idx%sw, idx/sw, heightRamp[level], nil, styles[idx])
	}

	focus := v.scene.Focus()
	for _, b := range v.scene.Physics.Bodies() {
		if !b.Active() {
			continue
		}
		pos := b.Position()
		cx, cy, ok := g.cell(pos.X, pos.Z)
		if !ok {
			continue
		}
		r, style := 'o', styleBody
		switch {
		case b.Collider().Kind() == "ray":
			r, style = '+', styleProbe
		case b == focus:
			r, style = 'O', styleFocus
		}
		v.screen.SetContent(cx, cy, r, nil, style)
	}

	for i, line := range v.scene.Status(v.stats) {
		drawText(v.screen, 0, mapH+i, sw, line, styleStatus)
	}
	drawText(v.screen, 0, mapH+statusRows-1, sw, helpLine, styleHelp)
	v.screen.Show()
}

func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxW {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
