package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache provides thread-safe caching of decoded atlas images keyed by
// file path.
//
// Once an image is loaded, subsequent Load calls for the same path return the
// cached copy without disk I/O. Exports never modify a source on disk, but a
// caller that rewrites an atlas should Evict it so the next Load sees the new
// pixels.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/atlas.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/atlas.png")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*image.NRGBA),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. The decoded image
// is normalized to a non-premultiplied RGBA8 buffer with a top-left origin at
// (0,0). The returned buffer is shared by all callers and must be treated as
// read-only.
//
// The image is cached using the exact path string provided. Different paths to
// the same file (e.g., relative vs absolute) result in separate cache entries.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img := ToNRGBA(decoded)

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image, loading it into the cache
// if not already present.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
