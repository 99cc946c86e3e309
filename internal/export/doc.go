// Package export writes named sub-regions of a source image to standalone
// PNG files.
//
// The entry point is Exporter.ExportAll, a single synchronous pass over an
// ordered list of ExtractionRequest values. Each request yields exactly one
// ExportResult in input order. A bad region, an encoding error or a failed
// write is recorded on that request's result and never stops the batch.
//
// # Readability
//
// Asset hosts often keep an image's raw pixels unreadable until an import
// setting is switched on. ExportAll brackets the whole batch with a
// ReadabilityGuard: the host flag is set readable before the first region is
// cropped and restored to its prior value after the last request, on every exit
// path including panics. The guard is scoped to one source image and is not
// safe for overlapping calls on the same source; RunBatch rejects such jobs.
//
// The flag gates the host's in-memory pixel access, not the image file.
// SourceImage already holds decoded pixels, so callers that decode from disk
// (the manifest loader and the server tools) do so before the guard exists.
//
// # Coordinates
//
// Rects use the top-left origin of SourceImage. Pixel (x, y) of the source
// becomes pixel (x - Rect.X, y - Rect.Y) of the exported file.
package export
