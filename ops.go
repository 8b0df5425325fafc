package ndsfs

import (
	"os"
	"regexp"
	"strings"
	"syscall"

	"github.com/aligator/ndsfs/checkpoint"
	"github.com/spf13/afero"
)

// FileExists reports whether path resolves to a visible file.
func (fs *Fs) FileExists(path string) bool {
	e, err := fs.lookup(fs.abs(path))
	return err == nil && !e.dir
}

// DirectoryExists reports whether path resolves to a visible directory.
func (fs *Fs) DirectoryExists(path string) bool {
	e, err := fs.lookup(fs.abs(path))
	return err == nil && e.dir
}

// ReadFile returns the full content of a file, preferring its staged copy.
func (fs *Fs) ReadFile(path string) ([]byte, error) {
	p := fs.abs(path)
	e, err := fs.lookup(p)
	if err != nil {
		return nil, err
	}
	if e.dir {
		return nil, pathError("read", p, syscall.EISDIR)
	}

	if e.shadow {
		return fs.stage.readFile(e.path)
	}

	data, err := readRange(fs.buf, int64(e.fat.Start), e.fat.Len())
	if err != nil {
		return nil, checkpoint.Wrapf(err, "read %s", e.path)
	}
	return data, nil
}

// WriteFile stages new content for path. Missing directories inside the data tree are created.
// Overlay payloads may only be written for names of the form overlay_NNNN.bin.
func (fs *Fs) WriteFile(path string, data []byte) error {
	p := fs.abs(path)
	target, err := fs.writablePath("write", p)
	if err != nil {
		return err
	}
	if e, err := fs.lookup(target); err == nil && e.dir {
		return pathError("write", p, syscall.EISDIR)
	}

	fs.log.WithField("path", target).Debug("stage file")
	return fs.stage.writeFile(target, data)
}

// DeleteFile hides a file until it is written again.
func (fs *Fs) DeleteFile(path string) error {
	p := fs.abs(path)
	e, err := fs.lookup(p)
	if err != nil {
		return err
	}
	if e.dir {
		return pathError("remove", p, syscall.EISDIR)
	}

	fs.log.WithField("path", e.path).Debug("delete file")
	return fs.stage.tombstone(e.path)
}

// CreateDirectory creates a directory inside the data tree including all missing parents.
// Existing directories are no error.
func (fs *Fs) CreateDirectory(path string) error {
	p := fs.abs(path)
	if e, err := fs.lookup(p); err == nil {
		if e.dir {
			return nil
		}
		return pathError("mkdir", p, syscall.ENOTDIR)
	}

	segments := splitPath(p)
	if len(segments) < 2 || !strings.EqualFold(segments[0], fs.mountName) {
		return notFound("mkdir", p)
	}
	if err := fs.checkAncestors("mkdir", p); err != nil {
		return err
	}

	return fs.stage.mkdir(fs.canonical(p))
}

// DeleteDirectory hides a directory and everything below it.
// The root, both overlay directories and the data directory cannot be deleted.
func (fs *Fs) DeleteDirectory(path string) error {
	p := fs.abs(path)
	e, err := fs.lookup(p)
	if err != nil {
		return err
	}
	if !e.dir {
		return pathError("remove", p, syscall.ENOTDIR)
	}
	if fs.isFixedDirectory(e.path) {
		return pathError("remove", p, syscall.EPERM)
	}

	files, err := fs.GetFiles(e.path, "*", false)
	if err != nil {
		return err
	}
	dirs, err := fs.GetDirectories(e.path, "*", false)
	if err != nil {
		return err
	}

	for _, f := range append(files, dirs...) {
		if err := fs.stage.tombstone(f); err != nil {
			return err
		}
	}
	if err := fs.stage.removeTree(e.path); err != nil {
		return err
	}

	fs.log.WithField("path", e.path).Debug("delete directory")
	return fs.stage.tombstone(e.path)
}

// GetFiles lists the files below dir whose name matches the wildcard pattern.
// Unless topDirectoryOnly is set all subdirectories are searched, files of a
// directory are listed before the ones of its subdirectories.
func (fs *Fs) GetFiles(dir, pattern string, topDirectoryOnly bool) ([]string, error) {
	re, err := wildcardPattern(pattern)
	if err != nil {
		return nil, err
	}

	result := []string{}
	err = fs.collectFiles(fs.abs(dir), re, topDirectoryOnly, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (fs *Fs) collectFiles(dir string, re *regexp.Regexp, topDirectoryOnly bool, result *[]string) error {
	entries, err := fs.readDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !e.dir && re.MatchString(baseName(e.path)) {
			*result = append(*result, e.path)
		}
	}

	if topDirectoryOnly {
		return nil
	}

	for _, e := range entries {
		if e.dir {
			if err := fs.collectFiles(e.path, re, false, result); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetDirectories lists the directories below dir whose name matches the wildcard pattern.
// Unless topDirectoryOnly is set all subdirectories are searched depth first.
func (fs *Fs) GetDirectories(dir, pattern string, topDirectoryOnly bool) ([]string, error) {
	re, err := wildcardPattern(pattern)
	if err != nil {
		return nil, err
	}

	result := []string{}
	err = fs.collectDirectories(fs.abs(dir), re, topDirectoryOnly, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (fs *Fs) collectDirectories(dir string, re *regexp.Regexp, topDirectoryOnly bool, result *[]string) error {
	entries, err := fs.readDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !e.dir {
			continue
		}
		if re.MatchString(baseName(e.path)) {
			*result = append(*result, e.path)
		}
		if topDirectoryOnly {
			continue
		}
		if err := fs.collectDirectories(e.path, re, false, result); err != nil {
			return err
		}
	}
	return nil
}

// Import stages every file of source below dir, keeping the relative layout.
// Regular files only, empty directories are created as well.
func (fs *Fs) Import(source afero.Fs, dir string) error {
	target := fs.abs(dir)
	return afero.Walk(source, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return checkpoint.From(err)
		}
		if p == "/" {
			return nil
		}

		virtual := joinPath(target, p)
		if info.IsDir() {
			return fs.CreateDirectory(virtual)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		data, err := afero.ReadFile(source, p)
		if err != nil {
			return checkpoint.From(err)
		}
		return fs.WriteFile(virtual, data)
	})
}
