package export

import (
	"errors"
	"image"
	"image/color"

	"github.com/ironsheep/sprite-export/internal/imaging"
)

var (
	// ErrNoRequests is returned when ExportAll is called with an empty batch.
	ErrNoRequests = errors.New("no requests")

	// ErrInvalidRegion marks a request whose rect is empty or leaves the source.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrInvalidName marks a request whose name cannot be used as a file stem.
	ErrInvalidName = errors.New("invalid name")

	// ErrEncodeFailure marks a request whose pixels could not be encoded as PNG.
	ErrEncodeFailure = errors.New("encode failed")

	// ErrWriteFailure marks a request whose output directory or file could not
	// be written. The wrapped error carries the OS error text.
	ErrWriteFailure = errors.New("write failed")
)

// SourceImage is an immutable RGBA8 pixel buffer plus an identifier used in
// diagnostics. The origin is the top-left corner.
type SourceImage struct {
	id  string
	img *image.NRGBA
}

// NewSourceImage copies img into a new SourceImage. Later changes to img are
// not visible through the returned value.
func NewSourceImage(id string, img image.Image) *SourceImage {
	return &SourceImage{id: id, img: imaging.ToNRGBA(img)}
}

// ID returns the path or name the source was created with.
func (s *SourceImage) ID() string { return s.id }

// Width returns the source width in pixels.
func (s *SourceImage) Width() int { return s.img.Bounds().Dx() }

// Height returns the source height in pixels.
func (s *SourceImage) Height() int { return s.img.Bounds().Dy() }

// At returns the stored sample at (x, y).
func (s *SourceImage) At(x, y int) color.NRGBA { return s.img.NRGBAAt(x, y) }

// Rect is a region in pixel coordinates relative to the source's top-left
// corner.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Within reports whether r is non-empty and lies entirely inside a
// width x height image.
func (r Rect) Within(width, height int) bool {
	if r.X < 0 || r.Y < 0 || r.Width <= 0 || r.Height <= 0 {
		return false
	}
	return r.Width <= width-r.X && r.Height <= height-r.Y
}

// Bounds converts r to an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// ExtractionRequest names one region to export. Name becomes the output file
// stem.
type ExtractionRequest struct {
	Name string `json:"name" yaml:"name"`
	Rect Rect   `json:"rect" yaml:"rect"`
}

// ExportResult is the outcome of one ExtractionRequest. Exactly one of Path
// and Err is set.
type ExportResult struct {
	Name string
	Path string
	Err  error
}

// OK reports whether the region was written.
func (r ExportResult) OK() bool { return r.Err == nil }

// Reason returns the failure text, or "" on success.
func (r ExportResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
