package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// ToNRGBA returns an independent copy of img as a non-premultiplied RGBA8
// buffer whose bounds start at (0,0).
//
// The copy keeps the top-left origin of the source: pixel (x, y) of img
// relative to img.Bounds().Min becomes pixel (x, y) of the result. Rows are
// never flipped.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Crop copies the rectangle r out of img into a new buffer of size
// r.Dx() x r.Dy().
//
// r is expressed relative to img.Bounds().Min. Pixel (sx, sy) of img maps to
// pixel (sx - r.Min.X, sy - r.Min.Y) of the result. The region must be
// non-empty and lie entirely inside the image; Crop never clips.
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > w || r.Max.Y > h {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, w, h)
	}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("invalid crop region: width and height must be positive")
	}

	return imaging.Crop(img, r.Add(bounds.Min)), nil
}

// EncodePNG encodes img as a standard PNG byte stream.
//
// Encoding uses default compression and no timestamps or ancillary chunks,
// so identical pixels always produce identical bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("failed to encode PNG: encoder produced no data")
	}
	return buf.Bytes(), nil
}
