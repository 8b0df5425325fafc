package ndsfs

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestFileInfo(t *testing.T) {
	staged := fakeFileInfo{someData: "readme.txt", fileSize: 42}

	tests := []struct {
		name     string
		info     fileInfo
		wantName string
		wantSize int64
		wantMode os.FileMode
		wantDir  bool
		wantSys  interface{}
	}{
		{
			name:     "directory",
			info:     newDirInfo("sound"),
			wantName: "sound",
			wantSize: 0,
			wantMode: os.ModeDir | 0o555,
			wantDir:  true,
			wantSys:  nil,
		},
		{
			name:     "packed file",
			info:     newPackedInfo("bgm.sdat", FATEntry{Start: 0x5600, End: 0x5660}),
			wantName: "bgm.sdat",
			wantSize: 0x60,
			wantMode: 0o444,
			wantDir:  false,
			wantSys:  FATEntry{Start: 0x5600, End: 0x5660},
		},
		{
			name:     "placeholder",
			info:     newPackedInfo("overlay_0003.bin", FATEntry{}),
			wantName: "overlay_0003.bin",
			wantSize: 0,
			wantMode: 0o444,
			wantDir:  false,
			wantSys:  FATEntry{},
		},
		{
			name:     "staged file",
			info:     newShadowInfo("README.TXT", staged),
			wantName: "README.TXT",
			wantSize: 42,
			wantMode: 0o644,
			wantDir:  false,
			wantSys:  staged,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Name(); got != tt.wantName {
				t.Errorf("fileInfo.Name() = %v, want %v", got, tt.wantName)
			}
			if got := tt.info.Size(); got != tt.wantSize {
				t.Errorf("fileInfo.Size() = %v, want %v", got, tt.wantSize)
			}
			if got := tt.info.Mode(); got != tt.wantMode {
				t.Errorf("fileInfo.Mode() = %v, want %v", got, tt.wantMode)
			}
			if got := tt.info.IsDir(); got != tt.wantDir {
				t.Errorf("fileInfo.IsDir() = %v, want %v", got, tt.wantDir)
			}
			if got := tt.info.ModTime(); !got.Equal(time.Time{}) {
				t.Errorf("fileInfo.ModTime() = %v, want the zero time", got)
			}
			if got := tt.info.Sys(); !reflect.DeepEqual(got, tt.wantSys) {
				t.Errorf("fileInfo.Sys() = %v, want %v", got, tt.wantSys)
			}
		})
	}
}
