package world

import (
	"errors"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

var ErrSnapshotMismatch = errors.New("snapshot does not match the body pool")

// --- YAML types ---

type Snapshot struct {
	Terrain string      `yaml:"terrain"`
	Bodies  []BodyState `yaml:"bodies"`
}

type BodyState struct {
	ID       int        `yaml:"id"`
	Collider string     `yaml:"collider"`
	Active   bool       `yaml:"active"`
	Position [3]float32 `yaml:"position,flow"`
	Velocity [3]float32 `yaml:"velocity,flow"`
}

func toArray(v rl.Vector3) [3]float32  { return [3]float32{v.X, v.Y, v.Z} }
func toVector(a [3]float32) rl.Vector3 { return rl.Vector3{X: a[0], Y: a[1], Z: a[2]} }

// --- Saving ---

// Capture records the active bodies and the current terrain.
func (w *World) Capture() Snapshot {
	snap := Snapshot{Terrain: w.TerrainName()}
	for _, b := range w.Physics.Bodies() {
		if !b.Active() {
			continue
		}
		snap.Bodies = append(snap.Bodies, BodyState{
			ID:       b.ID,
			Collider: b.Collider().Kind(),
			Active:   true,
			Position: toArray(b.Position()),
			Velocity: toArray(b.Velocity()),
		})
	}
	return snap
}

func (w *World) SaveSnapshot(path string) error {
	snap := w.Capture()
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.Printf("World: saved %d bodies to %s", len(snap.Bodies), path)
	return nil
}

// --- Loading ---

func (w *World) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	if err := w.Restore(snap); err != nil {
		return err
	}
	w.logger.Printf("World: restored %d bodies from %s", len(snap.Bodies), path)
	return nil
}

// Restore despawns everything, switches to the snapshot's terrain if it is
// loaded and queues every recorded body for the next tick. The pool is
// validated before anything changes.
func (w *World) Restore(snap Snapshot) error {
	bodies := w.Physics.Bodies()
	for _, s := range snap.Bodies {
		if s.ID < 0 || s.ID >= len(bodies) {
			return fmt.Errorf("body %d of %d: %w", s.ID, len(bodies), ErrSnapshotMismatch)
		}
		if kind := bodies[s.ID].Collider().Kind(); kind != s.Collider {
			return fmt.Errorf("body %d is %s, snapshot has %s: %w", s.ID, kind, s.Collider, ErrSnapshotMismatch)
		}
	}

	for i, name := range w.Names {
		if name == snap.Terrain && i != w.current && i < len(w.Terrains) {
			for w.current != i {
				w.nextTerrain()
			}
			break
		}
	}

	w.Physics.DeactivateAll()
	for _, s := range snap.Bodies {
		b := bodies[s.ID]
		w.Physics.QueuePosition(b, toVector(s.Position))
		w.Physics.QueueVelocity(b, toVector(s.Velocity))
		w.Physics.QueueActive(b, s.Active)
	}
	return nil
}
