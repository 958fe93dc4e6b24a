package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 0, 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAndSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	writeTestPNG(t, path)

	tex, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", tex.Width, tex.Height)
	}

	red := tex.Sample(0.25, 0.25)
	if red[0] < 0.9 || red[1] > 0.1 {
		t.Errorf("sample near (0,0) = %v, want mostly red", red)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
