package heightmap

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"collision3d/internal/terrain"

	"golang.org/x/image/bmp"
)

func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (w - 1))})
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(5, 3)); err != nil {
		t.Fatal(err)
	}

	grid, err := Decode(&buf, Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if grid.Width != 5 || grid.Length != 3 {
		t.Fatalf("Expected 5x3 grid, got %dx%d", grid.Width, grid.Length)
	}
	if grid.At(0, 1) != 0 {
		t.Errorf("Expected black pixel at height 0, got %f", grid.At(0, 1))
	}
	if grid.At(4, 2) != MaxLevel {
		t.Errorf("Expected white pixel at height %d, got %f", MaxLevel, grid.At(4, 2))
	}
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, gradient(4, 4)); err != nil {
		t.Fatal(err)
	}

	grid, err := Decode(&buf, Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if grid.Width != 4 || grid.At(3, 0) != MaxLevel {
		t.Errorf("Expected 4 wide grid peaking at %d, got %d wide, %f", MaxLevel, grid.Width, grid.At(3, 0))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"), Options{})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestDecodeRejectsTinyImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(2, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf, Options{}); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode for a single row, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, gradient(8, 8)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	grid, err := Load(path, Options{Blur: 1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := terrain.LoadFromHeightmap(grid, 2, 0.75); err != nil {
		t.Errorf("Expected loaded grid to build a terrain, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.png"), Options{}); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode for a missing file, got %v", err)
	}
}

func TestMaxSizeDownsamples(t *testing.T) {
	grid := FromImage(gradient(64, 32), Options{MaxSize: 16})
	if grid.Width != 16 || grid.Length != 8 {
		t.Errorf("Expected 16x8 grid, got %dx%d", grid.Width, grid.Length)
	}
}

func TestGenerateKinds(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			grid := Generate(k, 17, 1)
			if grid.Width != 17 || grid.Length != 17 || len(grid.Heights) != 17*17 {
				t.Fatalf("Expected 17x17 grid, got %dx%d (%d heights)", grid.Width, grid.Length, len(grid.Heights))
			}
			for i, h := range grid.Heights {
				if h < 0 || h > MaxLevel {
					t.Fatalf("Height %d out of range: %f", i, h)
				}
			}
			if _, err := terrain.LoadFromHeightmap(grid, 2, 0.75); err != nil {
				t.Errorf("Expected %s to build a terrain, got %v", k, err)
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(Dunes, 12, 42)
	b := Generate(Dunes, 12, 42)
	for i := range a.Heights {
		if a.Heights[i] != b.Heights[i] {
			t.Fatalf("Height %d differs: %f vs %f", i, a.Heights[i], b.Heights[i])
		}
	}
	if len(Set(9, 1)) != 4 {
		t.Error("Expected four built-in terrains")
	}
}
