package ndsfs

import (
	"testing"

	"github.com/aligator/ndsfs/internal/romtest"
	"gotest.tools/v3/assert"
)

func TestDecodeOverlayTable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []OverlayEntry
	}{
		{
			name: "empty",
			data: nil,
			want: []OverlayEntry{},
		},
		{
			name: "one record",
			data: romtest.Overlay(0, 7),
			want: []OverlayEntry{
				{OverlayID: 0, RAMAddress: 0x02100000, RAMSize: 0x40, BSSSize: 0x10, FileID: 7},
			},
		},
		{
			name: "trailing bytes are ignored",
			data: append(append(romtest.Overlay(0, 0), romtest.Overlay(1, 1)...), 1, 2, 3),
			want: []OverlayEntry{
				{OverlayID: 0, RAMAddress: 0x02100000, RAMSize: 0x40, BSSSize: 0x10, FileID: 0},
				{OverlayID: 1, RAMAddress: 0x02101000, RAMSize: 0x40, BSSSize: 0x10, FileID: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOverlayTable(tt.data)
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestEncodeOverlayTable(t *testing.T) {
	data := append(romtest.Overlay(0, 4), romtest.Overlay(1, 5)...)

	entries, err := DecodeOverlayTable(data)
	assert.NilError(t, err)
	assert.DeepEqual(t, EncodeOverlayTable(entries), data)
	assert.Equal(t, len(EncodeOverlayTable(nil)), 0)
}

func TestOverlayEntry_FileName(t *testing.T) {
	tests := []struct {
		fileID uint32
		want   string
	}{
		{fileID: 0, want: "overlay_0000.bin"},
		{fileID: 42, want: "overlay_0042.bin"},
		{fileID: 12345, want: "overlay_12345.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, OverlayEntry{FileID: tt.fileID}.FileName(), tt.want)
		})
	}
}

func Test_parseOverlayFileName(t *testing.T) {
	tests := []struct {
		name   string
		want   uint32
		wantOk bool
	}{
		{name: "overlay_0000.bin", want: 0, wantOk: true},
		{name: "overlay_0042.bin", want: 42, wantOk: true},
		{name: "OVERLAY_0003.BIN", want: 3, wantOk: true},
		{name: "overlay_7.bin", want: 7, wantOk: true},
		{name: "overlay_.bin", wantOk: false},
		{name: "overlay_00x1.bin", wantOk: false},
		{name: "overlay_-1.bin", wantOk: false},
		{name: "overlay_0001.dat", wantOk: false},
		{name: "readme.txt", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseOverlayFileName(tt.name)
			assert.Equal(t, ok, tt.wantOk)
			if tt.wantOk {
				assert.Equal(t, got, tt.want)
			}
		})
	}
}

func Test_findOverlay(t *testing.T) {
	entries := []OverlayEntry{{OverlayID: 0, FileID: 4}, {OverlayID: 1, FileID: 9}}

	got, ok := findOverlay(entries, 9)
	assert.Check(t, ok)
	assert.Equal(t, got.OverlayID, uint32(1))

	_, ok = findOverlay(entries, 1)
	assert.Check(t, !ok)
}
