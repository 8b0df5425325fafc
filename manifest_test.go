package ndsfs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aligator/ndsfs/internal/romtest"
	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestFs_Manifest(t *testing.T) {
	fs := testingNew(t, romtest.Options{Arm9Footer: true})

	m, err := fs.Manifest()
	assert.NilError(t, err)

	assert.Equal(t, m.Title, romtest.Title)
	assert.Equal(t, m.GameCode, romtest.GameCode)
	assert.Equal(t, m.MakerCode, romtest.Maker)
	assert.Equal(t, m.ImageSize, int64(romtest.ImageSize))
	assert.Check(t, m.Arm9Footer)
	assert.Equal(t, m.Arm9.Size, uint32(romtest.Arm9Size))
	assert.Equal(t, len(m.Arm9Overlays), 1)
	assert.Equal(t, m.Arm7Overlays[0].FileID, uint32(1))
	assert.Equal(t, m.Files, 2)
	assert.Assert(t, m.Banner != nil)
	assert.Equal(t, m.Banner.Titles[English].Title, romtest.BannerTitle)
}

func TestFs_Manifest_StagedEdits(t *testing.T) {
	fs := testingNew(t, romtest.Options{})

	header, err := fs.ReadFile("/header.bin")
	assert.NilError(t, err)
	copy(header[0x00C:], "EDIT")
	assert.NilError(t, fs.WriteFile("/header.bin", header))
	assert.NilError(t, fs.WriteFile("/data/new.txt", []byte("new")))

	m, err := fs.Manifest()
	assert.NilError(t, err)
	assert.Equal(t, m.GameCode, "EDIT")
	assert.Equal(t, m.Files, 3)
}

func TestFs_Manifest_NoBanner(t *testing.T) {
	data := romtest.Build(romtest.Options{})
	// Remove the icon offset.
	copy(data[0x068:], []byte{0, 0, 0, 0})

	fs, err := New(NewMemoryBuffer(data))
	assert.NilError(t, err)
	defer fs.Close()

	m, err := fs.Manifest()
	assert.NilError(t, err)
	assert.Check(t, m.Banner == nil)
}

func TestManifest_YAML(t *testing.T) {
	fs := testingNew(t, romtest.Options{})

	m, err := fs.Manifest()
	assert.NilError(t, err)

	var buf bytes.Buffer
	assert.NilError(t, m.WriteYAML(&buf))
	assert.Check(t, strings.Contains(buf.String(), "game_code: NTST\n"))
	assert.Check(t, strings.Contains(buf.String(), "  - language: japanese\n"))

	got, err := ReadManifest(&buf)
	assert.NilError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("ReadManifest() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadManifest_Invalid(t *testing.T) {
	_, err := ReadManifest(strings.NewReader("title: [unterminated"))
	assert.ErrorContains(t, err, "yaml")
}
