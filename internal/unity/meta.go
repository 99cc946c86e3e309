package unity

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/sprite-export/internal/export"
)

const (
	importerKey = "TextureImporter"
	readableKey = "isReadable"
)

// Sprite modes stored in TextureImporter.spriteMode.
const (
	SpriteModeNone     = 0
	SpriteModeSingle   = 1
	SpriteModeMultiple = 2
)

// MetaFile is a texture ".meta" file on disk. Every call re-reads the file so
// edits made by the editor in between are never overwritten with stale data.
type MetaFile struct {
	path string
	mu   sync.Mutex
}

// MetaPath returns the conventional sidecar path for an asset.
func MetaPath(assetPath string) string {
	return assetPath + ".meta"
}

// OpenMeta checks that path holds a texture importer and returns a handle to it.
func OpenMeta(path string) (*MetaFile, error) {
	m := &MetaFile{path: path}
	if _, _, _, err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the file the handle reads and writes.
func (m *MetaFile) Path() string { return m.path }

// Readable reports the importer's isReadable value. A missing key reads as
// false, which is the importer default.
func (m *MetaFile) Readable() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, _, importer, err := m.load()
	if err != nil {
		return false, err
	}

	node := mappingValue(importer, readableKey)
	if node == nil {
		return false, nil
	}
	switch strings.TrimSpace(node.Value) {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("%s: unexpected %s value %q", m.path, readableKey, node.Value)
	}
}

// SetReadable writes isReadable as 0 or 1. The file is rewritten only when the
// value changes, and only the isReadable line is touched so the rest of the
// file keeps its bytes.
func (m *MetaFile) SetReadable(readable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, doc, importer, err := m.load()
	if err != nil {
		return err
	}

	want := "0"
	if readable {
		want = "1"
	}

	node := mappingValue(importer, readableKey)
	if node != nil && node.Value == want {
		return nil
	}
	if out, ok := patchReadable(data, importer, node, want); ok {
		return m.write(out)
	}

	// Flow-style or quoted importers have no single line to patch.
	if node == nil {
		importer.Content = append(importer.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: readableKey},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: want},
		)
	} else {
		node.Value = want
		node.Tag = "!!int"
		node.Style = 0
	}
	return m.save(doc)
}

// Sprites returns one extraction request per sprite in the importer's sprite
// sheet, converted to a top-left origin for a texture textureHeight pixels
// tall.
//
// Single-sprite textures yield one request covering the whole texture, named
// after the asset. Textures that are not sprites yield no requests. Rect
// values are truncated to whole pixels.
func (m *MetaFile) Sprites(textureWidth, textureHeight int) ([]export.ExtractionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, _, importer, err := m.load()
	if err != nil {
		return nil, err
	}

	var settings textureImporter
	if err := importer.Decode(&settings); err != nil {
		return nil, fmt.Errorf("%s: failed to decode %s: %w", m.path, importerKey, err)
	}

	switch settings.SpriteMode {
	case SpriteModeSingle:
		if len(settings.SpriteSheet.Sprites) == 0 {
			return []export.ExtractionRequest{{
				Name: assetStem(m.path),
				Rect: export.Rect{Width: textureWidth, Height: textureHeight},
			}}, nil
		}
	case SpriteModeMultiple:
	default:
		return []export.ExtractionRequest{}, nil
	}

	reqs := make([]export.ExtractionRequest, 0, len(settings.SpriteSheet.Sprites))
	for _, s := range settings.SpriteSheet.Sprites {
		reqs = append(reqs, export.ExtractionRequest{
			Name: s.Name,
			Rect: s.Rect.topLeft(textureHeight),
		})
	}
	return reqs, nil
}

type textureImporter struct {
	SpriteMode  int `yaml:"spriteMode"`
	SpriteSheet struct {
		Sprites []spriteEntry `yaml:"sprites"`
	} `yaml:"spriteSheet"`
}

type spriteEntry struct {
	Name string     `yaml:"name"`
	Rect spriteRect `yaml:"rect"`
}

// spriteRect is a Unity rect: (X, Y) is the bottom-left corner.
type spriteRect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (r spriteRect) topLeft(textureHeight int) export.Rect {
	x, y, w, h := int(r.X), int(r.Y), int(r.Width), int(r.Height)
	return export.Rect{
		X:      x,
		Y:      textureHeight - (y + h),
		Width:  w,
		Height: h,
	}
}

// load parses the file and returns its bytes, the document node and the
// importer mapping inside it.
func (m *MetaFile) load() ([]byte, *yaml.Node, *yaml.Node, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read meta file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse meta file %s: %w", m.path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, nil, fmt.Errorf("%s: empty meta file", m.path)
	}

	importer := mappingValue(doc.Content[0], importerKey)
	if importer == nil || importer.Kind != yaml.MappingNode {
		return nil, nil, nil, fmt.Errorf("%s: no %s section", m.path, importerKey)
	}
	return data, &doc, importer, nil
}

// patchReadable edits the isReadable value in place, or inserts the key above
// the importer's first key when it is missing. It reports false when the
// importer is not in block style and the caller has to re-encode.
func patchReadable(data []byte, importer, node *yaml.Node, want string) ([]byte, bool) {
	if importer.Style&yaml.FlowStyle != 0 {
		return nil, false
	}

	if node == nil {
		if len(importer.Content) == 0 {
			return nil, false
		}
		first := importer.Content[0]
		start, _, ok := lineBounds(data, first.Line)
		if !ok || first.Column < 1 {
			return nil, false
		}
		eol := "\n"
		if bytes.Contains(data, []byte("\r\n")) {
			eol = "\r\n"
		}
		line := strings.Repeat(" ", first.Column-1) + readableKey + ": " + want + eol

		out := make([]byte, 0, len(data)+len(line))
		out = append(out, data[:start]...)
		out = append(out, line...)
		return append(out, data[start:]...), true
	}

	if node.Kind != yaml.ScalarNode || node.Style != 0 {
		return nil, false
	}
	start, end, ok := lineBounds(data, node.Line)
	if !ok || node.Column < 1 {
		return nil, false
	}
	off := start + node.Column - 1
	if off > end || !bytes.HasPrefix(data[off:end], []byte(node.Value)) {
		return nil, false
	}

	out := make([]byte, 0, len(data)-len(node.Value)+len(want))
	out = append(out, data[:off]...)
	out = append(out, want...)
	return append(out, data[off+len(node.Value):]...), true
}

// lineBounds returns the byte range of the 1-based line n, without its line
// break.
func lineBounds(data []byte, n int) (int, int, bool) {
	if n < 1 {
		return 0, 0, false
	}
	start := 0
	for i := 1; i < n; i++ {
		j := bytes.IndexByte(data[start:], '\n')
		if j < 0 {
			return 0, 0, false
		}
		start += j + 1
	}
	end := len(data)
	if j := bytes.IndexByte(data[start:], '\n'); j >= 0 {
		end = start + j
	}
	if end > start && data[end-1] == '\r' {
		end--
	}
	return start, end, true
}

func (m *MetaFile) save(doc *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode meta file %s: %w", m.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode meta file %s: %w", m.path, err)
	}
	return m.write(buf.Bytes())
}

func (m *MetaFile) write(data []byte) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(m.path); err == nil {
		mode = st.Mode().Perm()
	}
	if err := os.WriteFile(m.path, data, mode); err != nil {
		return fmt.Errorf("failed to write meta file: %w", err)
	}
	return nil
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// assetStem returns the texture file name without extension for a meta path
// such as "Assets/ui/icon.png.meta".
func assetStem(metaPath string) string {
	base := filepath.Base(strings.TrimSuffix(metaPath, ".meta"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
