package heightmap

import (
	"fmt"
	"image"
	"math/rand"

	"collision3d/internal/terrain"

	"github.com/anthonynsimon/bild/blur"
	"github.com/chewxy/math32"
)

type Kind int

const (
	Hills Kind = iota
	Bowl
	Ramp
	Dunes
)

func (k Kind) String() string {
	switch k {
	case Hills:
		return "hills"
	case Bowl:
		return "bowl"
	case Ramp:
		return "ramp"
	case Dunes:
		return "dunes"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds lists every built-in terrain in switch order.
var Kinds = []Kind{Hills, Bowl, Ramp, Dunes}

// Generate builds a size x size grid with heights in [0, MaxLevel].
func Generate(kind Kind, size int, seed int64) terrain.HeightGrid {
	if size < 2 {
		size = 2
	}
	if kind == Dunes {
		return dunes(size, seed)
	}

	grid := terrain.HeightGrid{Width: size, Length: size, Heights: make([]float32, size*size)}
	span := float32(size - 1)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			u := float32(x)/span*2 - 1
			v := float32(z)/span*2 - 1
			grid.Heights[z*size+x] = MaxLevel * shape(kind, u, v)
		}
	}
	return grid
}

// shape returns a height fraction in [0, 1] for u, v in [-1, 1].
func shape(kind Kind, u, v float32) float32 {
	switch kind {
	case Bowl:
		return math32.Min((u*u+v*v)/2, 1)
	case Ramp:
		return (u + 1) / 2 * 0.8
	default:
		h := math32.Sin(u*math32.Pi*1.5)*math32.Cos(v*math32.Pi*1.5)*0.25 + 0.35
		return math32.Max(0, math32.Min(h, 1))
	}
}

// dunes is seeded noise smoothed through the same blur used for image maps.
func dunes(size int, seed int64) terrain.HeightGrid {
	r := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = uint8(r.Intn(256))
	}
	return FromImage(blur.Gaussian(img, float64(size)/8), Options{})
}

// Set returns the four built-in terrains.
func Set(size int, seed int64) []terrain.HeightGrid {
	grids := make([]terrain.HeightGrid, len(Kinds))
	for i, k := range Kinds {
		grids[i] = Generate(k, size, seed)
	}
	return grids
}
