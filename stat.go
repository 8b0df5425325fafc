package ndsfs

import (
	"os"
	"time"
)

// fileInfo describes a virtual path.
// The image stores no timestamps or permissions, so every entry reports the zero time and fixed modes.
type fileInfo struct {
	name string
	size int64
	mode os.FileMode
	sys  interface{}
}

func newDirInfo(name string) fileInfo {
	return fileInfo{name: name, mode: os.ModeDir | 0o555}
}

// newPackedInfo describes a file stored in the image, Sys returns its FATEntry.
func newPackedInfo(name string, fat FATEntry) fileInfo {
	return fileInfo{name: name, size: fat.Len(), mode: 0o444, sys: fat}
}

// newShadowInfo describes a staged file by the info of its copy in the staging area.
func newShadowInfo(name string, staged os.FileInfo) fileInfo {
	return fileInfo{name: name, size: staged.Size(), mode: 0o644, sys: staged}
}

func (i fileInfo) Name() string {
	return i.name
}

func (i fileInfo) Size() int64 {
	return i.size
}

func (i fileInfo) Mode() os.FileMode {
	return i.mode
}

func (i fileInfo) ModTime() time.Time {
	return time.Time{}
}

func (i fileInfo) IsDir() bool {
	return i.mode.IsDir()
}

func (i fileInfo) Sys() interface{} {
	return i.sys
}
