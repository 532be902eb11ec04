// Package config loads the demo's tunables from a YAML file. A missing file
// yields the defaults and nothing is written until Save is called.
package config

import (
	"errors"
	"fmt"
	"os"

	"collision3d/internal/octree"
	"collision3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid value")

type Physics struct {
	Gravity            float32 `yaml:"gravity"`
	BodyRestitution    float32 `yaml:"body_restitution"`
	TerrainRestitution float32 `yaml:"terrain_restitution"`
	Slop               float32 `yaml:"slop"`
	BodyCorrection     float32 `yaml:"body_correction"`
	TerrainCorrection  float32 `yaml:"terrain_correction"`
	StaticFriction     float32 `yaml:"static_friction"`
	DynamicFriction    float32 `yaml:"dynamic_friction"`
	FloorY             float32 `yaml:"floor_y"`
	BroadPhase         string  `yaml:"broad_phase"`
	OctreeDepth        int     `yaml:"octree_depth"`
	Integrator         string  `yaml:"integrator"`
}

type Terrain struct {
	GridSpacing float32  `yaml:"grid_spacing"`
	HeightScale float32  `yaml:"height_scale"`
	TreeDepth   int      `yaml:"tree_depth"`
	Blur        float64  `yaml:"blur,omitempty"`
	MaxSize     int      `yaml:"max_size"`
	Heightmaps  []string `yaml:"heightmaps,omitempty"`
}

type Demo struct {
	WindowWidth  int     `yaml:"window_width"`
	WindowHeight int     `yaml:"window_height"`
	PoolSize     int     `yaml:"pool_size"`
	SphereRadius float32 `yaml:"sphere_radius"`
	SpawnHeight  float32 `yaml:"spawn_height"`
	DisableLevel float32 `yaml:"disable_level"`
	SlowMotion   float32 `yaml:"slow_motion"`
	Sound        bool    `yaml:"sound"`
	Snapshot     string  `yaml:"snapshot"`
}

type Config struct {
	Physics Physics `yaml:"physics"`
	Terrain Terrain `yaml:"terrain"`
	Demo    Demo    `yaml:"demo"`
}

func Default() Config {
	s := physics.DefaultSettings()
	return Config{
		Physics: Physics{
			Gravity:            s.Gravity.Y,
			BodyRestitution:    s.BodyRestitution,
			TerrainRestitution: s.TerrainRestitution,
			Slop:               s.Slop,
			BodyCorrection:     s.BodyCorrection,
			TerrainCorrection:  s.TerrainCorrection,
			StaticFriction:     s.StaticFriction,
			DynamicFriction:    s.DynamicFriction,
			FloorY:             s.FloorY,
			BroadPhase:         s.BroadPhase.String(),
			OctreeDepth:        s.OctreeDepth,
			Integrator:         s.Integrator.String(),
		},
		Terrain: Terrain{
			GridSpacing: 2.0,
			HeightScale: 0.75,
			TreeDepth:   4,
			MaxSize:     129,
		},
		Demo: Demo{
			WindowWidth:  1280,
			WindowHeight: 720,
			PoolSize:     100,
			SphereRadius: 0.5,
			SpawnHeight:  20,
			DisableLevel: 4.0,
			SlowMotion:   6,
			Sound:        true,
			Snapshot:     "snapshot.yaml",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	p := c.Physics
	checks := []struct {
		name     string
		v        float32
		min, max float32
	}{
		{"body_restitution", p.BodyRestitution, 0, 1},
		{"terrain_restitution", p.TerrainRestitution, 0, 1},
		{"slop", p.Slop, 0, 1},
		{"body_correction", p.BodyCorrection, 0, 1},
		{"terrain_correction", p.TerrainCorrection, 0, 1},
		{"static_friction", p.StaticFriction, 0, 10},
		{"dynamic_friction", p.DynamicFriction, 0, 10},
	}
	for _, ch := range checks {
		if ch.v < ch.min || ch.v > ch.max {
			return fmt.Errorf("%w: %s = %v, want [%v, %v]", ErrInvalid, ch.name, ch.v, ch.min, ch.max)
		}
	}
	if p.DynamicFriction > p.StaticFriction {
		return fmt.Errorf("%w: dynamic_friction %v exceeds static_friction %v", ErrInvalid, p.DynamicFriction, p.StaticFriction)
	}
	if _, err := parseBroadPhase(p.BroadPhase); err != nil {
		return err
	}
	if _, err := parseIntegrator(p.Integrator); err != nil {
		return err
	}
	for _, d := range []struct {
		name  string
		depth int
	}{{"octree_depth", p.OctreeDepth}, {"tree_depth", c.Terrain.TreeDepth}} {
		if d.depth < 0 || d.depth > octree.DepthLimit {
			return fmt.Errorf("%w: %s = %d, want [0, %d]", ErrInvalid, d.name, d.depth, octree.DepthLimit)
		}
	}
	if c.Terrain.GridSpacing <= 0 || c.Terrain.HeightScale <= 0 {
		return fmt.Errorf("%w: grid_spacing and height_scale must be positive", ErrInvalid)
	}
	if c.Demo.PoolSize < 1 || c.Demo.SphereRadius <= 0 {
		return fmt.Errorf("%w: pool_size and sphere_radius must be positive", ErrInvalid)
	}
	if c.Demo.SlowMotion < 1 {
		return fmt.Errorf("%w: slow_motion %v must be at least 1", ErrInvalid, c.Demo.SlowMotion)
	}
	return nil
}

// Settings converts the physics section into simulation settings.
func (p Physics) Settings() (physics.Settings, error) {
	bp, err := parseBroadPhase(p.BroadPhase)
	if err != nil {
		return physics.Settings{}, err
	}
	integ, err := parseIntegrator(p.Integrator)
	if err != nil {
		return physics.Settings{}, err
	}
	return physics.Settings{
		Gravity:            rl.Vector3{Y: p.Gravity},
		BodyRestitution:    p.BodyRestitution,
		TerrainRestitution: p.TerrainRestitution,
		Slop:               p.Slop,
		BodyCorrection:     p.BodyCorrection,
		TerrainCorrection:  p.TerrainCorrection,
		StaticFriction:     p.StaticFriction,
		DynamicFriction:    p.DynamicFriction,
		FloorY:             p.FloorY,
		BroadPhase:         bp,
		OctreeDepth:        p.OctreeDepth,
		Integrator:         integ,
	}, nil
}

func parseBroadPhase(s string) (physics.BroadPhase, error) {
	switch s {
	case "", physics.BroadPhaseAllPairs.String():
		return physics.BroadPhaseAllPairs, nil
	case physics.BroadPhaseOctree.String():
		return physics.BroadPhaseOctree, nil
	}
	return 0, fmt.Errorf("%w: broad_phase %q", ErrInvalid, s)
}

func parseIntegrator(s string) (physics.Integrator, error) {
	switch s {
	case "", physics.SemiImplicitEuler.String():
		return physics.SemiImplicitEuler, nil
	case physics.HalfStep.String():
		return physics.HalfStep, nil
	}
	return 0, fmt.Errorf("%w: integrator %q", ErrInvalid, s)
}
