// Command termview runs the collision scene in a terminal, seen from above.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"collision3d/internal/config"
	"collision3d/internal/physics"
	"collision3d/internal/termview"
	"collision3d/internal/world"

	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "YAML settings file; missing means defaults")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for procedural terrain and random drops")
	logPath := flag.String("log", "", "append logs to this file instead of discarding them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	settings, err := cfg.Physics.Settings()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	terrains, names, err := world.LoadTerrains(cfg.Terrain, *seed)
	if err != nil {
		log.Fatalf("Terrain: %v", err)
	}

	// The screen owns stdout from here on
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("Log: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	log.SetOutput(logOut)
	logger := log.New(logOut, "", log.LstdFlags)

	phys := physics.NewWorld(settings)
	phys.SetLogger(logger)
	scene := world.New(phys, terrains, names, cfg.Demo, *seed)
	scene.SetLogger(logger)
	defer scene.Release()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Screen: %v", err)
	}
	defer screen.Fini()

	termview.New(screen, scene).Run(16 * time.Millisecond)
}
