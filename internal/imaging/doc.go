// Package imaging provides the pixel-level operations behind sprite export:
// decoding atlases, cropping regions and encoding PNG output.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner, X increasing rightward and Y increasing downward. Regions
// are image.Rectangle values whose Min is inclusive and Max is exclusive.
// Images are never flipped; callers holding bottom-left coordinates (such as
// Unity sprite rects) must convert them before calling into this package.
//
// # Pixel Format
//
// Loaded images are normalized to *image.NRGBA, a row-major buffer of
// non-premultiplied RGBA8 samples. Cropping an NRGBA buffer is an exact copy,
// so exported sprites carry the same sample values as the atlas.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Crop, EncodePNG and SampleColor are
// stateless and may be called concurrently on the same read-only image.
package imaging
