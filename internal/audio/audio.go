// Package audio plays short procedural impact clicks when bodies hit each
// other or the terrain. Sounds are synthesised with beep; nothing is loaded
// from disk.
package audio

import (
	"math"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

const (
	// MinImpactSpeed is the closing speed below which contacts stay silent.
	MinImpactSpeed = 2.0
	// FullImpactSpeed and above play at full volume.
	FullImpactSpeed = 40.0

	clickDuration = 60 * time.Millisecond
	minInterval   = 45 * time.Millisecond
)

// Listener represents the audio listener position and orientation
type Listener struct {
	Position rl.Vector3
	Forward  rl.Vector3
	Right    rl.Vector3
}

// Manager owns the speaker and a mixer that impact clicks are added to.
type Manager struct {
	mu          sync.Mutex
	listener    Listener
	mixer       *beep.Mixer
	maxDistance float32
	lastPlay    time.Time
	initialized bool
}

func NewManager(maxDistance float32) *Manager {
	return &Manager{
		mixer:       &beep.Mixer{},
		maxDistance: maxDistance,
		listener: Listener{
			Forward: rl.Vector3{X: 0, Y: 0, Z: -1},
			Right:   rl.Vector3{X: 1, Y: 0, Z: 0},
		},
	}
}

// Init opens the speaker. Calling it twice is harmless.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return err
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.mixer.Clear()
	m.initialized = false
}

// SetListener updates the listener position and orientation
func (m *Manager) SetListener(pos, forward, up rl.Vector3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = newListener(pos, forward, up)
}

func newListener(pos, forward, up rl.Vector3) Listener {
	l := Listener{Position: pos}

	// Normalize forward, default to -Z if zero
	fwdLen := rl.Vector3Length(forward)
	if fwdLen > 0.001 {
		l.Forward = rl.Vector3Scale(forward, 1.0/fwdLen)
	} else {
		l.Forward = rl.Vector3{X: 0, Y: 0, Z: -1}
	}

	// Calculate right vector (up × forward)
	right := rl.Vector3CrossProduct(up, l.Forward)
	rightLen := rl.Vector3Length(right)
	if rightLen > 0.001 {
		l.Right = rl.Vector3Scale(right, 1.0/rightLen)
	} else {
		l.Right = rl.Vector3{X: 1, Y: 0, Z: 0}
	}
	return l
}

// PlayImpact queues a click for an impact at pos. Quiet or too frequent
// impacts are dropped. It reports whether a click was queued.
func (m *Manager) PlayImpact(pos rl.Vector3, speed float32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return false
	}
	now := time.Now()
	if now.Sub(m.lastPlay) < minInterval {
		return false
	}

	gain := ImpactGain(speed)
	volume, pan := spatialGain(m.listener, pos, m.maxDistance)
	volume *= gain
	if volume <= 0 {
		return false
	}
	m.lastPlay = now

	click := NewClick(speed, sampleRate)
	speaker.Lock()
	m.mixer.Add(&effects.Pan{Streamer: newVolume(click, float64(volume)), Pan: float64(pan)})
	speaker.Unlock()
	return true
}

// ImpactGain maps a closing speed to a volume in [0, 1].
func ImpactGain(speed float32) float32 {
	if speed < MinImpactSpeed {
		return 0
	}
	g := (speed - MinImpactSpeed) / (FullImpactSpeed - MinImpactSpeed)
	if g > 1 {
		return 1
	}
	return g
}

// spatialGain returns linear distance attenuation and a pan in [-1, 1].
func spatialGain(listener Listener, pos rl.Vector3, maxDistance float32) (volume, pan float32) {
	toSource := rl.Vector3Subtract(pos, listener.Position)
	distance := rl.Vector3Length(toSource)
	if distance >= maxDistance {
		return 0, 0
	}
	volume = 1.0 - distance/maxDistance

	if distance > 0.001 {
		direction := rl.Vector3Scale(toSource, 1.0/distance)
		pan = rl.Vector3DotProduct(direction, listener.Right)

		// sounds behind are slightly quieter
		frontDot := rl.Vector3DotProduct(direction, listener.Forward)
		if frontDot < 0 {
			volume *= 0.7 + 0.3*float32(math.Abs(float64(frontDot)))
		}
	}
	return volume, pan
}

// math.Log2(0) is -Inf, so 0 volume is handled as silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
