package ndsfs

import (
	"io/fs"
	"os"
	"sort"

	"github.com/aligator/ndsfs/checkpoint"
	"github.com/spf13/afero"
)

type GoDirEntry struct {
	fs.FileInfo
}

func (g GoDirEntry) Type() fs.FileMode {
	return g.FileInfo.Mode().Type()
}

func (g GoDirEntry) Info() (fs.FileInfo, error) {
	return g.FileInfo, nil
}

type GoFile struct {
	afero.File
	name string
}

func (g GoFile) Stat() (fs.FileInfo, error) {
	info, err := g.File.Stat()
	if err != nil {
		return nil, err
	}
	return renamedInfo(info, g.name), nil
}

func (g GoFile) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := g.File.Readdir(n)

	goEntries := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		goEntries[i] = GoDirEntry{e}
	}

	return goEntries, err
}

// GoFs just wraps the afero rom implementation to be compatible with fs.FS.
// Names are always resolved against the root, independent of the working directory.
type GoFs struct {
	*Fs
}

// NewGoFS opens a rom image from the given buffer as fs.FS compatible filesystem.
func NewGoFS(buf Buffer, opts ...Option) (*GoFs, error) {
	fs, err := New(buf, opts...)
	if err != nil {
		return nil, err
	}

	return &GoFs{fs}, nil
}

func (g GoFs) Open(name string) (fs.File, error) {
	p, err := goPath("open", name)
	if err != nil {
		return nil, err
	}

	file, err := g.Fs.Open(p)
	if err != nil {
		return nil, err
	}

	return GoFile{File: file, name: fsBase(name)}, nil
}

func (g GoFs) Stat(name string) (fs.FileInfo, error) {
	p, err := goPath("stat", name)
	if err != nil {
		return nil, err
	}

	info, err := g.Fs.Stat(p)
	if err != nil {
		return nil, err
	}
	return renamedInfo(info, fsBase(name)), nil
}

func (g GoFs) ReadFile(name string) ([]byte, error) {
	p, err := goPath("readfile", name)
	if err != nil {
		return nil, err
	}
	return g.Fs.ReadFile(p)
}

// ReadDir returns the entries of a directory sorted by name.
func (g GoFs) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := goPath("readdir", name)
	if err != nil {
		return nil, err
	}

	infos, err := g.Fs.readDirInfo(p)
	if err != nil {
		return nil, err
	}

	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = GoDirEntry{info}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// goPath converts an io/fs name into an absolute virtual path.
func goPath(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", checkpoint.From(&fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid})
	}
	if name == "." {
		return "/", nil
	}
	return "/" + name, nil
}

func fsBase(name string) string {
	if name == "." {
		return "."
	}
	return baseName("/" + name)
}

// renamedInfo reports the name as passed to io/fs, which differs from the
// virtual name for the root and in casing.
func renamedInfo(info os.FileInfo, name string) os.FileInfo {
	if info.Name() == name {
		return info
	}
	return fileInfo{name: name, size: info.Size(), mode: info.Mode(), sys: info.Sys()}
}
