package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"collision3d/internal/config"
	"collision3d/internal/game"
	"collision3d/internal/physics"
	"collision3d/internal/world"
)

func main() {
	configPath := flag.String("config", "config.yaml", "YAML settings file; missing means defaults")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for procedural terrain and random drops")
	writeConfig := flag.Bool("write-config", false, "write the effective settings to -config and exit")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil && !filepath.IsAbs(*configPath) {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatalf("Config: %v", err)
		}
		log.Printf("Config: wrote %s", *configPath)
		return
	}

	settings, err := cfg.Physics.Settings()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	terrains, names, err := world.LoadTerrains(cfg.Terrain, *seed)
	if err != nil {
		log.Fatalf("Terrain: %v", err)
	}

	scene := world.New(physics.NewWorld(settings), terrains, names, cfg.Demo, *seed)
	defer scene.Release()

	game.New(cfg, scene).Run()
}
