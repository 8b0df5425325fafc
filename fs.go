// Package ndsfs exposes the content of a Nintendo DS ROM image as afero.Fs.
//
// The image keeps its files in one flat blob addressed by the file allocation
// table (FAT), named by the filename table (FNT) and the overlay tables. ndsfs
// maps all of them into one tree:
//
//  /header.bin /banner.bin /arm9.bin /arm7.bin /y9.bin /y7.bin
//  /overlay/overlay_NNNN.bin   ARM9 overlays
//  /overlay7/overlay_NNNN.bin  ARM7 overlays
//  /data/...                   the nitrofs tree
//
// Changes are staged and only written back by Save.
package ndsfs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aligator/ndsfs/checkpoint"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Fixed names of the top level directory.
const (
	nameHeader       = "header.bin"
	nameBanner       = "banner.bin"
	nameArm9         = "arm9.bin"
	nameArm7         = "arm7.bin"
	nameArm9Overlays = "y9.bin"
	nameArm7Overlays = "y7.bin"
	dirArm9Overlays  = "overlay"
	dirArm7Overlays  = "overlay7"
)

// singletonNames lists the fixed files in listing order.
var singletonNames = []string{nameArm7, nameArm9, nameHeader, nameBanner, nameArm7Overlays, nameArm9Overlays}

// Fs is a ROM image opened as filesystem.
//
// The tables decoded at open time are never modified. Pending edits live in a
// staging area until Save builds a fresh image from the current view.
type Fs struct {
	buf Buffer

	header       *Header
	fat          []FATEntry
	arm9Overlays []OverlayEntry
	arm7Overlays []OverlayEntry
	tree         *Node
	arm9Footer   bool

	mountName  string
	sequential bool
	log        *logrus.Entry
	stage      *stage

	cwdLock sync.RWMutex
	cwd     string
}

// New opens the image stored in buf.
// The header is parsed first, then both overlay tables, the FAT and the FNT.
func New(buf Buffer, opts ...Option) (*Fs, error) {
	o := newOptions(opts)
	if o.mountName == "" || strings.ContainsAny(o.mountName, "/\\") || isReservedName(o.mountName) {
		return nil, checkpoint.Wrapf(syscall.EINVAL, "mount name %q", o.mountName)
	}

	raw, err := readRange(buf, 0, HeaderSize)
	if err != nil {
		return nil, checkpoint.Wrap(ErrFormat, fmt.Errorf("image smaller than the header: %w", err))
	}
	header, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}

	fs := &Fs{
		buf:        buf,
		header:     header,
		mountName:  o.mountName,
		sequential: o.sequential,
		log:        o.log.WithField("rom", header.GameCode()),
		cwd:        "/",
	}

	// Each table is written by exactly one unit.
	tables := []func() error{
		func() (err error) {
			fs.arm9Overlays, err = fs.readOverlayTable(header.Arm9Overlays())
			return err
		},
		func() (err error) {
			fs.arm7Overlays, err = fs.readOverlayTable(header.Arm7Overlays())
			return err
		},
		func() error {
			data, err := fs.readTable(header.FAT())
			if err != nil {
				return err
			}
			fs.fat, err = DecodeFAT(data)
			return err
		},
		func() error {
			if header.FNT().Size == 0 {
				fs.tree = NewDirectory(fs.mountName)
				return nil
			}
			data, err := fs.readTable(header.FNT())
			if err != nil {
				return err
			}
			fs.tree, err = DecodeFNT(data, fs.mountName)
			return err
		},
	}
	err = fs.runner().run(len(tables), func(i int) error {
		return tables[i]()
	})
	if err != nil {
		return nil, err
	}

	fs.arm9Footer = hasArm9Footer(buf, header.Arm9())

	staging := o.staging
	var cleanup func() error
	if o.tempStaging != nil {
		dir, err := afero.TempDir(o.tempStaging, "", "ndsfs-stage")
		if err != nil {
			return nil, checkpoint.From(err)
		}
		staging = afero.NewBasePathFs(o.tempStaging, dir)
		cleanup = func() error {
			return o.tempStaging.RemoveAll(dir)
		}
	}
	if staging == nil {
		staging = afero.NewMemMapFs()
	}
	fs.stage = newStage(staging)
	fs.stage.cleanup = cleanup

	fs.log.WithFields(logrus.Fields{
		"title":         header.GameTitle(),
		"code":          header.GameCode(),
		"fat":           len(fs.fat),
		"arm9_overlays": len(fs.arm9Overlays),
		"arm7_overlays": len(fs.arm7Overlays),
		"arm9_footer":   fs.arm9Footer,
	}).Debug("opened rom")

	return fs, nil
}

func (fs *Fs) readTable(t Table) ([]byte, error) {
	data, err := readRange(fs.buf, int64(t.Offset), int64(t.Size))
	if err != nil {
		return nil, checkpoint.Wrap(ErrFormat, fmt.Errorf("table at 0x%X with 0x%X bytes: %w", t.Offset, t.Size, err))
	}
	return data, nil
}

func (fs *Fs) readOverlayTable(t Table) ([]OverlayEntry, error) {
	data, err := fs.readTable(t)
	if err != nil {
		return nil, err
	}
	return DecodeOverlayTable(data)
}

// hasArm9Footer checks for the footer marker directly behind the ARM9 binary.
func hasArm9Footer(buf Buffer, arm9 Executable) bool {
	end := int64(arm9.RomOffset) + int64(arm9.Size)
	if end+arm9FooterSize > buf.Len() {
		return false
	}
	marker, err := readUint32(buf, end)
	return err == nil && marker == arm9FooterMarker
}

func isReservedName(name string) bool {
	lower := strings.ToLower(name)
	if lower == dirArm9Overlays || lower == dirArm7Overlays {
		return true
	}
	for _, s := range singletonNames {
		if lower == s {
			return true
		}
	}
	return false
}

func (fs *Fs) runner() runner {
	return runner{parallel: !fs.sequential && fs.buf.ConcurrentAccess()}
}

// Header returns the header decoded at open time.
func (fs *Fs) Header() *Header {
	return fs.header
}

// Tree returns the directory tree decoded at open time. It does not reflect pending edits
// and must not be modified.
func (fs *Fs) Tree() *Node {
	return fs.tree
}

// MountName returns the name of the data directory.
func (fs *Fs) MountName() string {
	return fs.mountName
}

// Close releases the staging area. Pending edits are lost.
func (fs *Fs) Close() error {
	return fs.stage.close()
}

// Getwd returns the working directory relative paths are resolved against.
func (fs *Fs) Getwd() string {
	fs.cwdLock.RLock()
	defer fs.cwdLock.RUnlock()
	return fs.cwd
}

// Chdir changes the working directory.
func (fs *Fs) Chdir(dir string) error {
	p := fs.abs(dir)
	e, err := fs.lookup(p)
	if err != nil {
		return err
	}
	if !e.dir {
		return pathError("chdir", p, syscall.ENOTDIR)
	}

	fs.cwdLock.Lock()
	defer fs.cwdLock.Unlock()
	fs.cwd = e.path
	return nil
}

func (fs *Fs) abs(p string) string {
	return normalizePath(fs.Getwd(), p)
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	p := fs.abs(name)
	if _, err := fs.lookup(p); err == nil {
		return pathError("mkdir", p, os.ErrExist)
	}
	if parent, err := fs.lookup(parentPath(p)); err != nil || !parent.dir {
		return notFound("mkdir", p)
	}
	return fs.CreateDirectory(p)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return fs.CreateDirectory(path)
}

func (fs *Fs) Open(name string) (afero.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens packed files and directories read only. Opening for writing
// stages a copy of the file first, all writes go to that copy.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	p := fs.abs(name)

	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) == 0 {
		return fs.openRead(p)
	}

	e, err := fs.lookup(p)
	switch {
	case err == nil && e.dir:
		return nil, pathError("open", p, syscall.EISDIR)
	case err == nil && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, pathError("open", p, os.ErrExist)
	case err != nil && flag&os.O_CREATE == 0:
		return nil, err
	case err != nil:
		if parent, perr := fs.lookup(parentPath(p)); perr != nil || !parent.dir {
			return nil, notFound("open", p)
		}
	}

	target, err := fs.writablePath("open", p)
	if err != nil {
		return nil, err
	}

	// Copy on write, unless the content gets discarded anyway.
	if e.path != "" && !e.shadow && flag&os.O_TRUNC == 0 {
		data, err := fs.ReadFile(e.path)
		if err != nil {
			return nil, err
		}
		if err := fs.stage.writeFile(target, data); err != nil {
			return nil, err
		}
	}

	file, err := fs.stage.openFile(target, flag|os.O_CREATE, perm)
	if err != nil {
		return nil, checkpoint.Wrap(err, &os.PathError{Op: "open", Path: p, Err: syscall.EIO})
	}
	return &shadowFile{File: file, path: target}, nil
}

func (fs *Fs) openRead(p string) (afero.File, error) {
	e, err := fs.lookup(p)
	if err != nil {
		return nil, err
	}

	stat, err := fs.fileInfo(e)
	if err != nil {
		return nil, err
	}

	if e.shadow {
		file, err := fs.stage.openFile(e.path, os.O_RDONLY, 0)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		return &shadowFile{File: file, path: e.path}, nil
	}

	return &File{
		fs:          fs,
		path:        e.path,
		isDirectory: e.dir,
		fat:         e.fat,
		stat:        stat,
	}, nil
}

// Remove deletes a file or an empty directory.
func (fs *Fs) Remove(name string) error {
	p := fs.abs(name)
	e, err := fs.lookup(p)
	if err != nil {
		return err
	}

	if !e.dir {
		return fs.DeleteFile(p)
	}

	children, err := fs.readDir(e.path)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return pathError("remove", p, syscall.ENOTEMPTY)
	}
	return fs.DeleteDirectory(p)
}

// RemoveAll deletes path and everything below. A missing path is no error.
func (fs *Fs) RemoveAll(path string) error {
	p := fs.abs(path)
	e, err := fs.lookup(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if e.dir {
		return fs.DeleteDirectory(p)
	}
	return fs.DeleteFile(p)
}

// Rename moves a file. Directories cannot be renamed.
func (fs *Fs) Rename(oldname, newname string) error {
	oldPath, newPath := fs.abs(oldname), fs.abs(newname)
	e, err := fs.lookup(oldPath)
	if err != nil {
		return err
	}
	if e.dir {
		return checkpoint.From(&os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: syscall.EISDIR})
	}
	if pathKey(oldPath) == pathKey(newPath) {
		return nil
	}

	data, err := fs.ReadFile(oldPath)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(newPath, data); err != nil {
		return err
	}
	return fs.DeleteFile(oldPath)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	e, err := fs.lookup(fs.abs(name))
	if err != nil {
		return nil, err
	}
	return fs.fileInfo(e)
}

func (fs *Fs) Name() string {
	return "ndsfs"
}

// Chmod is not supported as the image does not store any file modes.
func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return fs.unsupportedAttribute("chmod", name)
}

// Chown is not supported as the image does not store any owners.
func (fs *Fs) Chown(name string, uid, gid int) error {
	return fs.unsupportedAttribute("chown", name)
}

// Chtimes is not supported as the image does not store any timestamps.
func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return fs.unsupportedAttribute("chtimes", name)
}

func (fs *Fs) unsupportedAttribute(op, name string) error {
	p := fs.abs(name)
	if _, err := fs.lookup(p); err != nil {
		return err
	}
	return pathError(op, p, syscall.EPERM)
}
