package export

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/sprite-export/internal/imaging"
)

// Exporter crops regions out of a SourceImage and writes them as PNG files.
//
// The zero value is not usable; create one with New. An Exporter holds no
// per-call state and may be shared between goroutines working on distinct
// sources.
type Exporter struct {
	encode   func(image.Image) ([]byte, error)
	dirMode  os.FileMode
	fileMode os.FileMode
	debug    bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithDebug enables a log line for every written file.
func WithDebug(debug bool) Option {
	return func(e *Exporter) { e.debug = debug }
}

// New creates an Exporter that encodes with imaging.EncodePNG.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		encode:   imaging.EncodePNG,
		dirMode:  0o755,
		fileMode: 0o644,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportAll writes one PNG per request into outputDir and returns one result
// per request, in input order.
//
// An empty batch returns an empty slice and ErrNoRequests without touching
// flag. Otherwise flag (which may be nil) is made readable for the whole
// batch and restored to its prior value before ExportAll returns, even if a
// request panics. Per-request failures are reported only through the
// results. The returned error is non-nil only when the host flag could not be
// switched on (no results) or restored (results still returned).
func (e *Exporter) ExportAll(src *SourceImage, flag ReadabilityFlag, requests []ExtractionRequest, outputDir string) (results []ExportResult, err error) {
	if len(requests) == 0 {
		return []ExportResult{}, ErrNoRequests
	}

	guard, err := AcquireReadability(flag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.ID(), err)
	}
	defer func() {
		if rerr := guard.Release(); rerr != nil {
			log.Printf("Failed to restore readability for %s: %v", src.ID(), rerr)
			err = errors.Join(err, fmt.Errorf("%s: %w", src.ID(), rerr))
		}
	}()

	results = make([]ExportResult, 0, len(requests))
	for _, req := range requests {
		res := e.exportOne(src, req, outputDir)
		if res.Err != nil {
			log.Printf("Failed to export %q from %s: %v", req.Name, src.ID(), res.Err)
		} else if e.debug {
			log.Printf("Exported %q from %s to %s", req.Name, src.ID(), res.Path)
		}
		results = append(results, res)
	}

	log.Printf("%s: %s", src.ID(), Summarize(results))
	return results, nil
}

func (e *Exporter) exportOne(src *SourceImage, req ExtractionRequest, outputDir string) ExportResult {
	res := ExportResult{Name: req.Name}

	if !req.Rect.Within(src.Width(), src.Height()) {
		res.Err = ErrInvalidRegion
		return res
	}
	if !validName(req.Name) {
		res.Err = ErrInvalidName
		return res
	}

	cropped, err := imaging.Crop(src.img, req.Rect.Bounds())
	if err != nil {
		res.Err = ErrInvalidRegion
		return res
	}

	data, err := e.encode(cropped)
	if err != nil || len(data) == 0 {
		if err != nil {
			log.Printf("PNG encoder error for %q: %v", req.Name, err)
		}
		res.Err = ErrEncodeFailure
		return res
	}

	if err := os.MkdirAll(outputDir, e.dirMode); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteFailure, err)
		return res
	}

	path := filepath.Join(outputDir, req.Name+".png")
	if err := os.WriteFile(path, data, e.fileMode); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteFailure, err)
		return res
	}

	res.Path = path
	return res
}

// validName reports whether name can be used as a file stem inside the
// output directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
