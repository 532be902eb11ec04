// Package heightmap turns grayscale images and procedural recipes into height
// grids for the terrain package. Image formats stop here.
package heightmap

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"log"
	"os"

	"collision3d/internal/terrain"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
)

// MaxLevel is the height of a white pixel before terrain scaling.
const MaxLevel = 16

var ErrDecode = errors.New("heightmap: decode failed")

type Options struct {
	// Blur is the gaussian radius applied before sampling; 0 disables it.
	Blur float64
	// MaxSize downsamples images whose longer side exceeds it; 0 keeps the source size.
	MaxSize int
}

// Load opens and decodes a BMP or PNG heightmap.
func Load(path string, opts Options) (terrain.HeightGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return terrain.HeightGrid{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	grid, err := Decode(f, opts)
	if err != nil {
		return terrain.HeightGrid{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("Heightmap: loaded %s (%dx%d)", path, grid.Width, grid.Length)
	return grid, nil
}

func Decode(r io.Reader, opts Options) (terrain.HeightGrid, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return terrain.HeightGrid{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() < 2 || b.Dy() < 2 {
		return terrain.HeightGrid{}, fmt.Errorf("%w: %s image is %dx%d", ErrDecode, format, b.Dx(), b.Dy())
	}
	return FromImage(img, opts), nil
}

// FromImage samples img as luminance. Row y of the image becomes grid row z.
func FromImage(img image.Image, opts Options) terrain.HeightGrid {
	b := img.Bounds()
	if opts.MaxSize > 1 && (b.Dx() > opts.MaxSize || b.Dy() > opts.MaxSize) {
		w, h := b.Dx(), b.Dy()
		if w >= h {
			h = max(2, h*opts.MaxSize/w)
			w = opts.MaxSize
		} else {
			w = max(2, w*opts.MaxSize/h)
			h = opts.MaxSize
		}
		img = transform.Resize(img, w, h, transform.Linear)
	}
	if opts.Blur > 0 {
		img = blur.Gaussian(img, opts.Blur)
	}
	gray := effect.Grayscale(img)

	gb := gray.Bounds()
	grid := terrain.HeightGrid{
		Width:   gb.Dx(),
		Length:  gb.Dy(),
		Heights: make([]float32, gb.Dx()*gb.Dy()),
	}
	// bild keeps RGBA output; after Grayscale every channel holds the luminance
	for z := 0; z < grid.Length; z++ {
		for x := 0; x < grid.Width; x++ {
			v := gray.Pix[gray.PixOffset(gb.Min.X+x, gb.Min.Y+z)]
			grid.Heights[z*grid.Width+x] = float32(v) / 255 * MaxLevel
		}
	}
	return grid
}
