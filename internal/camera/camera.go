package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type Mode int

const (
	// Rotate orbits the target slowly at a low pitch.
	Rotate Mode = iota
	// Top looks straight down on the terrain.
	Top
)

const (
	rotatePitch  = 30.0
	topPitch     = 89.0
	transition   = 0.6 // seconds
	minDistance  = 5
	maxDistance  = 200
	zoomStep     = 1.25
	turnStep     = 15.0 // degrees per key press
	autoTurnRate = 6.0  // degrees per second in Rotate mode
)

// OrbitCamera circles a target point. Mode changes and zoom steps are eased.
type OrbitCamera struct {
	Target   rl.Vector3
	Yaw      float32
	Pitch    float32
	Distance float32
	Mode     Mode
	AutoTurn bool

	pitchTween *gween.Tween
	zoomTween  *gween.Tween
	zoomTo     float32
	yawTween   *gween.Tween
}

func New(target rl.Vector3, distance float32) *OrbitCamera {
	return &OrbitCamera{
		Target:   target,
		Yaw:      -135.0,
		Pitch:    rotatePitch,
		Distance: distance,
		Mode:     Rotate,
		AutoTurn: true,
	}
}

// ToggleMode switches between Rotate and Top.
func (c *OrbitCamera) ToggleMode() {
	if c.Mode == Top {
		c.Mode = Rotate
	} else {
		c.Mode = Top
	}
	c.pitchTween = gween.New(c.Pitch, c.pitchTarget(), transition, ease.InOutQuad)
}

func (c *OrbitCamera) pitchTarget() float32 {
	if c.Mode == Top {
		return topPitch
	}
	return rotatePitch
}

// Zoom moves the camera in (steps > 0) or out (steps < 0).
func (c *OrbitCamera) Zoom(steps int) {
	from := c.Distance
	if c.zoomTween != nil {
		from = c.zoomTo
	}
	to := from * float32(math.Pow(zoomStep, float64(-steps)))
	c.zoomTo = float32(math.Max(minDistance, math.Min(maxDistance, float64(to))))
	c.zoomTween = gween.New(c.Distance, c.zoomTo, transition/2, ease.OutQuad)
}

// Turn rotates the orbit by a fixed step; positive turns clockwise seen from above.
func (c *OrbitCamera) Turn(steps int) {
	c.yawTween = gween.New(c.Yaw, c.Yaw+float32(steps)*turnStep, transition/2, ease.OutCubic)
}

// Update advances running transitions.
func (c *OrbitCamera) Update(dt float32) {
	if c.pitchTween != nil {
		v, done := c.pitchTween.Update(dt)
		c.Pitch = v
		if done {
			c.pitchTween = nil
		}
	}
	if c.zoomTween != nil {
		v, done := c.zoomTween.Update(dt)
		c.Distance = v
		if done {
			c.zoomTween = nil
		}
	}
	if c.yawTween != nil {
		v, done := c.yawTween.Update(dt)
		c.Yaw = v
		if done {
			c.yawTween = nil
		}
	} else if c.AutoTurn && c.Mode == Rotate {
		c.Yaw += autoTurnRate * dt
	}
	if c.Yaw > 360 || c.Yaw < -360 {
		c.Yaw = float32(math.Mod(float64(c.Yaw), 360))
	}
}

// Position is the eye position for the current yaw, pitch and distance.
func (c *OrbitCamera) Position() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180

	return rl.Vector3{
		X: c.Target.X + c.Distance*float32(math.Cos(yawRad)*math.Cos(pitchRad)),
		Y: c.Target.Y + c.Distance*float32(math.Sin(pitchRad)),
		Z: c.Target.Z + c.Distance*float32(math.Sin(yawRad)*math.Cos(pitchRad)),
	}
}

// Forward is the unit view direction.
func (c *OrbitCamera) Forward() rl.Vector3 {
	return rl.Vector3Normalize(rl.Vector3Subtract(c.Target, c.Position()))
}

func (c *OrbitCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
