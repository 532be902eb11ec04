package world

import (
	"fmt"
	"path/filepath"
	"strings"

	"collision3d/internal/config"
	"collision3d/internal/heightmap"
	"collision3d/internal/terrain"
)

// ProceduralSize is the grid size of the built-in terrains.
const ProceduralSize = 33

// LoadTerrains builds the switchable terrain set: one per configured
// heightmap image, or the built-in procedural set when none are listed.
func LoadTerrains(cfg config.Terrain, seed int64) ([]*terrain.Terrain, []string, error) {
	var grids []terrain.HeightGrid
	var names []string

	if len(cfg.Heightmaps) == 0 {
		grids = heightmap.Set(ProceduralSize, seed)
		for _, k := range heightmap.Kinds {
			names = append(names, k.String())
		}
	} else {
		opts := heightmap.Options{Blur: cfg.Blur, MaxSize: cfg.MaxSize}
		for _, path := range cfg.Heightmaps {
			grid, err := heightmap.Load(path, opts)
			if err != nil {
				return nil, nil, err
			}
			grids = append(grids, grid)
			names = append(names, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
	}

	terrains := make([]*terrain.Terrain, 0, len(grids))
	for i, grid := range grids {
		t, err := terrain.LoadFromHeightmap(grid, cfg.GridSpacing, cfg.HeightScale, terrain.WithTreeDepth(cfg.TreeDepth))
		if err != nil {
			for _, built := range terrains {
				built.Release()
			}
			return nil, nil, fmt.Errorf("terrain %s: %w", names[i], err)
		}
		terrains = append(terrains, t)
	}
	return terrains, names, nil
}
