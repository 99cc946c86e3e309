package unity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/sprite-export/internal/export"
)

const sheetMeta = `fileFormatVersion: 2
guid: 5d1c2b3a4f6e7d8c9b0a1f2e3d4c5b6a
TextureImporter:
  serializedVersion: 12
  mipmaps:
    enableMipMap: 0
  isReadable: 0
  spriteMode: 2
  spriteSheet:
    serializedVersion: 2
    sprites:
    - serializedVersion: 2
      name: atlas_0
      rect:
        serializedVersion: 2
        x: 0
        y: 96
        width: 32
        height: 32
      alignment: 0
    - serializedVersion: 2
      name: atlas_1
      rect:
        serializedVersion: 2
        x: 32.75
        y: 0
        width: 16
        height: 8.5
  userData:
  assetBundleName:
`

const singleMeta = `fileFormatVersion: 2
guid: 0a1b2c3d4e5f60718293a4b5c6d7e8f9
TextureImporter:
  spriteMode: 1
  spriteSheet:
    sprites: []
`

// writeMeta writes content to a temp meta file and returns its path.
func writeMeta(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write meta: %v", err)
	}
	return path
}

func TestMetaFile_ReadableRoundTrip(t *testing.T) {
	path := writeMeta(t, "atlas.png.meta", sheetMeta)
	m, err := OpenMeta(path)
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	readable, err := m.Readable()
	if err != nil {
		t.Fatalf("Readable failed: %v", err)
	}
	if readable {
		t.Fatal("Readable: got true, want false")
	}

	if err := m.SetReadable(true); err != nil {
		t.Fatalf("SetReadable(true) failed: %v", err)
	}
	if readable, _ = m.Readable(); !readable {
		t.Fatal("Readable after SetReadable(true): got false")
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "isReadable: 1") {
		t.Errorf("meta file not updated:\n%s", data)
	}
	if !strings.Contains(string(data), "guid: 5d1c2b3a4f6e7d8c9b0a1f2e3d4c5b6a") {
		t.Errorf("unrelated keys lost:\n%s", data)
	}

	if err := m.SetReadable(false); err != nil {
		t.Fatalf("SetReadable(false) failed: %v", err)
	}
	if readable, _ = m.Readable(); readable {
		t.Fatal("Readable after SetReadable(false): got true")
	}
}

func TestMetaFile_SetReadableUnchangedDoesNotRewrite(t *testing.T) {
	path := writeMeta(t, "atlas.png.meta", sheetMeta)
	m, err := OpenMeta(path)
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	if err := m.SetReadable(false); err != nil {
		t.Fatalf("SetReadable failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != sheetMeta {
		t.Error("meta file rewritten although the value did not change")
	}
}

func TestMetaFile_SetReadableAddsMissingKey(t *testing.T) {
	path := writeMeta(t, "single.png.meta", singleMeta)
	m, err := OpenMeta(path)
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	if readable, err := m.Readable(); err != nil || readable {
		t.Fatalf("Readable: got %t, %v; want false, nil", readable, err)
	}
	if err := m.SetReadable(true); err != nil {
		t.Fatalf("SetReadable failed: %v", err)
	}
	if readable, err := m.Readable(); err != nil || !readable {
		t.Fatalf("Readable: got %t, %v; want true, nil", readable, err)
	}
}

func TestMetaFile_GuardRestoresFile(t *testing.T) {
	path := writeMeta(t, "atlas.png.meta", sheetMeta)
	m, err := OpenMeta(path)
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	guard, err := export.AcquireReadability(m)
	if err != nil {
		t.Fatalf("AcquireReadability failed: %v", err)
	}
	if readable, _ := m.Readable(); !readable {
		t.Error("texture should be readable while the guard is held")
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if readable, _ := m.Readable(); readable {
		t.Error("texture should be unreadable after release")
	}
}

// editorMeta is laid out the way the Unity editor writes it: sequences at the
// parent key's indentation and trailing spaces after empty values.
const editorMeta = "fileFormatVersion: 2\n" +
	"guid: 7f3e2d1c0b9a88776655443322110000\n" +
	"TextureImporter:\n" +
	"  internalIDToNameTable:\n" +
	"  - first:\n" +
	"      213: 21300000\n" +
	"    second: ship_0\n" +
	"  - first:\n" +
	"      213: 21300002\n" +
	"    second: ship_1\n" +
	"  externalObjects: {}\n" +
	"  serializedVersion: 11\n" +
	"  isReadable: 0\n" +
	"  spriteMode: 2\n" +
	"  spriteSheet:\n" +
	"    serializedVersion: 2\n" +
	"    sprites:\n" +
	"    - serializedVersion: 2\n" +
	"      name: ship_0\n" +
	"      rect:\n" +
	"        serializedVersion: 2\n" +
	"        x: 0\n" +
	"        y: 0\n" +
	"        width: 16\n" +
	"        height: 16\n" +
	"    outline: []\n" +
	"  spritePackingTag: \n" +
	"  userData: \n" +
	"  assetBundleName: \n" +
	"  assetBundleVariant: \n"

func TestMetaFile_GuardLeavesFileBytesUnchanged(t *testing.T) {
	path := writeMeta(t, "ships.png.meta", editorMeta)
	m, err := OpenMeta(path)
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	guard, err := export.AcquireReadability(m)
	if err != nil {
		t.Fatalf("AcquireReadability failed: %v", err)
	}

	held, _ := os.ReadFile(path)
	wantHeld := strings.Replace(editorMeta, "isReadable: 0", "isReadable: 1", 1)
	if string(held) != wantHeld {
		t.Errorf("meta while held:\n%s\nwant:\n%s", held, wantHeld)
	}

	if err := guard.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	after, _ := os.ReadFile(path)
	if string(after) != editorMeta {
		t.Errorf("meta changed after release:\n%s\nwant:\n%s", after, editorMeta)
	}
}

func TestMetaFile_SetReadableInsertKeepsLayout(t *testing.T) {
	content := "fileFormatVersion: 2\r\n" +
		"TextureImporter:\r\n" +
		"  internalIDToNameTable: []\r\n" +
		"  spriteMode: 1\r\n" +
		"  userData: \r\n"
	path := writeMeta(t, "hero.png.meta", content)
	m, err := OpenMeta(path)
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	if err := m.SetReadable(true); err != nil {
		t.Fatalf("SetReadable failed: %v", err)
	}

	got, _ := os.ReadFile(path)
	want := "fileFormatVersion: 2\r\n" +
		"TextureImporter:\r\n" +
		"  isReadable: 1\r\n" +
		"  internalIDToNameTable: []\r\n" +
		"  spriteMode: 1\r\n" +
		"  userData: \r\n"
	if string(got) != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
	if readable, err := m.Readable(); err != nil || !readable {
		t.Fatalf("Readable: got %t, %v; want true, nil", readable, err)
	}
}

func TestMetaFile_SetReadableFlowImporter(t *testing.T) {
	path := writeMeta(t, "flow.png.meta", "TextureImporter: {spriteMode: 1, isReadable: 0}\n")
	m, err := OpenMeta(path)
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	if err := m.SetReadable(true); err != nil {
		t.Fatalf("SetReadable failed: %v", err)
	}
	if readable, err := m.Readable(); err != nil || !readable {
		t.Fatalf("Readable: got %t, %v; want true, nil", readable, err)
	}
}

func TestMetaFile_Sprites(t *testing.T) {
	m, err := OpenMeta(writeMeta(t, "atlas.png.meta", sheetMeta))
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	reqs, err := m.Sprites(128, 128)
	if err != nil {
		t.Fatalf("Sprites failed: %v", err)
	}

	want := []export.ExtractionRequest{
		{Name: "atlas_0", Rect: export.Rect{X: 0, Y: 0, Width: 32, Height: 32}},
		{Name: "atlas_1", Rect: export.Rect{X: 32, Y: 120, Width: 16, Height: 8}},
	}
	if len(reqs) != len(want) {
		t.Fatalf("sprites: got %d, want %d", len(reqs), len(want))
	}
	for i := range want {
		if reqs[i] != want[i] {
			t.Errorf("sprite %d: got %+v, want %+v", i, reqs[i], want[i])
		}
	}
}

func TestMetaFile_SpritesSingleMode(t *testing.T) {
	m, err := OpenMeta(writeMeta(t, "hero.png.meta", singleMeta))
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	reqs, err := m.Sprites(40, 24)
	if err != nil {
		t.Fatalf("Sprites failed: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("sprites: got %d, want 1", len(reqs))
	}
	want := export.ExtractionRequest{Name: "hero", Rect: export.Rect{Width: 40, Height: 24}}
	if reqs[0] != want {
		t.Errorf("got %+v, want %+v", reqs[0], want)
	}
}

func TestMetaFile_SpritesNotASprite(t *testing.T) {
	content := "fileFormatVersion: 2\nTextureImporter:\n  spriteMode: 0\n"
	m, err := OpenMeta(writeMeta(t, "plain.png.meta", content))
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}

	reqs, err := m.Sprites(16, 16)
	if err != nil {
		t.Fatalf("Sprites failed: %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("sprites: got %d, want 0", len(reqs))
	}
}

func TestOpenMeta_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no importer", "fileFormatVersion: 2\nguid: abc\n"},
		{"invalid yaml", "TextureImporter: [unclosed\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := OpenMeta(writeMeta(t, "bad.meta", tt.content)); err == nil {
				t.Error("OpenMeta should fail")
			}
		})
	}

	if _, err := OpenMeta(filepath.Join(t.TempDir(), "missing.meta")); err == nil {
		t.Error("OpenMeta should fail for a missing file")
	}
}

func TestMetaFile_ReadableBadValue(t *testing.T) {
	content := "TextureImporter:\n  isReadable: maybe\n"
	m, err := OpenMeta(writeMeta(t, "odd.png.meta", content))
	if err != nil {
		t.Fatalf("OpenMeta failed: %v", err)
	}
	if _, err := m.Readable(); err == nil {
		t.Error("Readable should fail for a non-boolean value")
	}
}

func TestMetaPath(t *testing.T) {
	if got := MetaPath("Assets/ui/atlas.png"); got != "Assets/ui/atlas.png.meta" {
		t.Errorf("MetaPath: got %s", got)
	}
}
