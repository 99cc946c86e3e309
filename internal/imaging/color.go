package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBAColor represents a non-premultiplied color with 8-bit components.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled pixel in several representations.
//
// Sprite atlases are usually authored with straight (non-premultiplied) alpha,
// so RGBA reports the stored samples rather than premultiplied values. Hex
// excludes alpha; use RGBA.A or Transparent to inspect padding pixels.
type ColorResult struct {
	Hex         string    `json:"hex"`
	RGBA        RGBAColor `json:"rgba"`
	HSL         HSLColor  `json:"hsl"`
	Transparent bool      `json:"transparent"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based with origin at the top-left corner, relative to
// img.Bounds().Min. An error is returned when (x, y) is outside the image.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Dx() || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)

	return &ColorResult{
		Hex:         fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGBA:        RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:         toHSL(c),
		Transparent: c.A == 0,
	}, nil
}

// toHSL converts the color channels (ignoring alpha) to rounded HSL values.
func toHSL(c color.NRGBA) HSLColor {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
