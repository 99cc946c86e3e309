// Package manifest reads YAML batch descriptions for the export command.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/sprite-export/internal/export"
	"github.com/ironsheep/sprite-export/internal/imaging"
	"github.com/ironsheep/sprite-export/internal/unity"
)

// Manifest lists the atlases to export in one run.
type Manifest struct {
	OutputDir string   `yaml:"output_dir"`
	Workers   int      `yaml:"workers"`
	Sources   []Source `yaml:"sources"`
}

// Source is one atlas and the regions to cut from it. When Regions is empty
// and Meta is set, the sprite table of the meta file is used instead.
type Source struct {
	Path      string   `yaml:"path"`
	Meta      string   `yaml:"meta"`
	OutputDir string   `yaml:"output_dir"`
	Regions   []Region `yaml:"regions"`
}

// Region is a named rectangle with a top-left origin.
type Region struct {
	Name   string `yaml:"name"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Load reads the manifest at path. Relative paths inside it are resolved
// against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.resolve(filepath.Dir(path))
	return m, nil
}

// Parse decodes and validates a manifest. Paths are left as written.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Workers == 0 {
		m.Workers = 1
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest shape. Per-region bounds are checked later by
// the exporter, which reports them per item.
func (m *Manifest) Validate() error {
	if len(m.Sources) == 0 {
		return fmt.Errorf("manifest lists no sources")
	}
	if m.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", m.Workers)
	}

	seen := make(map[string]int, len(m.Sources))
	metas := make(map[string]int, len(m.Sources))
	for i, s := range m.Sources {
		if s.Path == "" {
			return fmt.Errorf("source %d: path is required", i)
		}
		clean := filepath.Clean(s.Path)
		if j, dup := seen[clean]; dup {
			return fmt.Errorf("source %d: %s already listed as source %d", i, s.Path, j)
		}
		seen[clean] = i

		// Guards on one meta file restore each other's values when they overlap.
		if s.Meta != "" {
			meta := filepath.Clean(s.Meta)
			if j, dup := metas[meta]; dup {
				return fmt.Errorf("source %d: meta %s already used by source %d", i, s.Meta, j)
			}
			metas[meta] = i
		}

		if len(s.Regions) == 0 && s.Meta == "" {
			return fmt.Errorf("source %d: %s has neither regions nor a meta file", i, s.Path)
		}
		if s.OutputDir == "" && m.OutputDir == "" {
			return fmt.Errorf("source %d: %s has no output_dir", i, s.Path)
		}
	}
	return nil
}

func (m *Manifest) resolve(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	m.OutputDir = abs(m.OutputDir)
	for i := range m.Sources {
		s := &m.Sources[i]
		s.Path = abs(s.Path)
		s.Meta = abs(s.Meta)
		s.OutputDir = abs(s.OutputDir)
	}
}

// Requests converts the listed regions to extraction requests.
func (s Source) Requests() []export.ExtractionRequest {
	reqs := make([]export.ExtractionRequest, 0, len(s.Regions))
	for _, r := range s.Regions {
		reqs = append(reqs, export.ExtractionRequest{
			Name: r.Name,
			Rect: export.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		})
	}
	return reqs
}

// Jobs loads every source through cache and builds one export job per source.
func (m *Manifest) Jobs(cache *imaging.ImageCache) ([]export.Job, error) {
	jobs := make([]export.Job, 0, len(m.Sources))
	for _, s := range m.Sources {
		img, err := cache.Load(s.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Path, err)
		}
		src := export.NewSourceImage(s.Path, img)

		job := export.Job{
			Source:    src,
			Requests:  s.Requests(),
			OutputDir: s.OutputDir,
		}
		if job.OutputDir == "" {
			job.OutputDir = m.OutputDir
		}

		if s.Meta != "" {
			meta, err := unity.OpenMeta(s.Meta)
			if err != nil {
				return nil, err
			}
			job.Flag = meta
			if len(job.Requests) == 0 {
				if job.Requests, err = meta.Sprites(src.Width(), src.Height()); err != nil {
					return nil, err
				}
			}
		}

		jobs = append(jobs, job)
	}
	return jobs, nil
}
