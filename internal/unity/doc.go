// Package unity reads and edits the texture import settings Unity keeps in
// ".meta" sidecar files next to each asset.
//
// MetaFile implements export.ReadabilityFlag on top of the importer's
// isReadable key and lists the sprite rects of a sprite sheet. Unity stores
// sprite rects with a bottom-left origin; Sprites converts them to the
// top-left origin used by export.SourceImage.
package unity
