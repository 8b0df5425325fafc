package ndsfs

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/aligator/ndsfs/internal/romtest"
)

func TestGoFS(t *testing.T) {
	gofs := GoFs{testingNew(t, romtest.Options{})}
	if err := fstest.TestFS(gofs, "data/readme.txt", "data/sound/bgm.sdat", "overlay/overlay_0000.bin", "arm9.bin"); err != nil {
		t.Fatal(err)
	}
}

func TestGoFS_Footer(t *testing.T) {
	gofs := GoFs{testingNew(t, romtest.Options{Arm9Footer: true})}
	if err := fstest.TestFS(gofs, "arm9.bin", "overlay7/overlay_0001.bin"); err != nil {
		t.Fatal(err)
	}
}

func TestGoFs_InvalidPath(t *testing.T) {
	gofs := GoFs{testingNew(t, romtest.Options{})}

	for _, name := range []string{"/data", "data/", "../data", "data/./readme.txt"} {
		if _, err := gofs.Open(name); !errors.Is(err, fs.ErrInvalid) {
			t.Errorf("GoFs.Open(%q) error = %v, want %v", name, err, fs.ErrInvalid)
		}
	}
}

func TestNewGoFS(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		// Do not expect something special. Should be enough to check for non-nil.
		wantNotNil bool
		wantErr    bool
	}{
		{
			name:       "synthetic image",
			data:       romtest.Build(romtest.Options{}),
			wantNotNil: true,
			wantErr:    false,
		},
		{
			name:       "synthetic image with footer",
			data:       romtest.Build(romtest.Options{Arm9Footer: true}),
			wantNotNil: true,
			wantErr:    false,
		},
		{
			name:       "no rom file",
			data:       []byte("This is no rom file"),
			wantNotNil: false,
			wantErr:    true,
		},
		{
			name:       "invalid sub-table",
			data:       romtest.Build(romtest.Options{InvalidSubTable: true}),
			wantNotNil: false,
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewGoFS(NewMemoryBuffer(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGoFS() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if (got != nil) != tt.wantNotNil {
				t.Errorf("NewGoFS() = %v, wantNotNil %v", got, tt.wantNotNil)
			}
		})
	}
}
