// Package texture loads 2D images and samples them bilinearly, in the
// shape of the teacher's asset/texure package but over pure-Go decoders
// instead of the cgo openimageigo binding (see DESIGN.md for why that
// dependency was dropped rather than wired).
package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Mu-L/nanort/types"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Texture is a decoded RGBA32F image ready for bilinear sampling.
type Texture struct {
	Width, Height int
	Pixels        []types.Vec4
}

// Load decodes the image at path. PNG and JPEG are handled by the
// standard library; BMP/TIFF are registered via golang.org/x/image so
// image.Decode dispatches to them by content, matching the range of
// formats the teacher's oiio-backed loader accepted.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decoding %s: %w", path, err)
	}

	bounds := img.Bounds()
	tex := &Texture{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: make([]types.Vec4, bounds.Dx()*bounds.Dy()),
	}

	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = types.XYZW(
				float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff, float32(a)/0xffff,
			)
		}
	}

	return tex, nil
}

// Sample returns the bilinearly-filtered color at normalized coordinates
// (u, v), wrapping both axes.
func (t *Texture) Sample(u, v float32) types.Vec4 {
	u -= floor(u)
	v -= floor(v)

	fx := u*float32(t.Width) - 0.5
	fy := v*float32(t.Height) - 0.5

	x0 := wrap(int(floor(fx)), t.Width)
	y0 := wrap(int(floor(fy)), t.Height)
	x1 := wrap(x0+1, t.Width)
	y1 := wrap(y0+1, t.Height)

	tx := fx - floor(fx)
	ty := fy - floor(fy)

	c00 := t.at(x0, y0)
	c10 := t.at(x1, y0)
	c01 := t.at(x0, y1)
	c11 := t.at(x1, y1)

	top := lerp(c00, c10, tx)
	bottom := lerp(c01, c11, tx)
	return lerp(top, bottom, ty)
}

func (t *Texture) at(x, y int) types.Vec4 {
	return t.Pixels[y*t.Width+x]
}

func lerp(a, b types.Vec4, t float32) types.Vec4 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func floor(v float32) float32 {
	f := float32(int(v))
	if f > v {
		f--
	}
	return f
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

