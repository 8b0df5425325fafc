package ndsfs

import (
	"os"
	"strings"
	"syscall"

	"github.com/aligator/ndsfs/checkpoint"
)

// entry is a resolved virtual path.
type entry struct {
	// path is the display path, using the casing of the image or of the first write.
	path   string
	dir    bool
	shadow bool
	// fat is the packed range of files which are not shadowed.
	fat FATEntry
}

// lookup resolves a normalized path.
// Shadow files and directories win over the packed image, tombstones hide it.
// A shadow directory can only exist at the key of a packed file after that
// file was deleted, so it replaces the file.
func (fs *Fs) lookup(p string) (entry, error) {
	if display, ok := fs.stage.file(p); ok {
		return entry{path: display, shadow: true}, nil
	}
	if p != "/" && fs.stage.isTombstoned(p) {
		return entry{}, notFound("stat", p)
	}
	if display, ok := fs.stage.dir(p); ok {
		return entry{path: display, dir: true}, nil
	}

	return fs.resolvePacked(p)
}

func (fs *Fs) resolvePacked(p string) (entry, error) {
	segments := splitPath(p)
	if len(segments) == 0 {
		return entry{path: "/", dir: true}, nil
	}

	top := strings.ToLower(segments[0])
	if len(segments) == 1 {
		if fat, ok := fs.singleton(top); ok {
			return entry{path: "/" + top, fat: fat}, nil
		}
	}

	switch {
	case top == dirArm9Overlays || top == dirArm7Overlays:
		return fs.resolveOverlay(p, top, segments[1:])
	case top == strings.ToLower(fs.mountName):
		return fs.resolveData(p, segments[1:])
	}
	return entry{}, notFound("stat", p)
}

// singleton returns the range backing one of the fixed top level files.
func (fs *Fs) singleton(name string) (FATEntry, bool) {
	switch name {
	case nameHeader:
		return FATEntry{Start: 0, End: HeaderSize}, true
	case nameBanner:
		// Offset 0 means there is no banner.
		icon := fs.header.IconOffset()
		if icon == 0 {
			return FATEntry{}, true
		}
		return FATEntry{Start: icon, End: icon + BannerSize}, true
	case nameArm9:
		arm9 := fs.header.Arm9()
		end := arm9.RomOffset + arm9.Size
		if fs.arm9Footer {
			end += arm9FooterSize
		}
		return FATEntry{Start: arm9.RomOffset, End: end}, true
	case nameArm7:
		arm7 := fs.header.Arm7()
		return FATEntry{Start: arm7.RomOffset, End: arm7.RomOffset + arm7.Size}, true
	case nameArm9Overlays:
		t := fs.header.Arm9Overlays()
		return FATEntry{Start: t.Offset, End: t.Offset + t.Size}, true
	case nameArm7Overlays:
		t := fs.header.Arm7Overlays()
		return FATEntry{Start: t.Offset, End: t.Offset + t.Size}, true
	}
	return FATEntry{}, false
}

func (fs *Fs) overlays(dir string) []OverlayEntry {
	if dir == dirArm7Overlays {
		return fs.arm7Overlays
	}
	return fs.arm9Overlays
}

func (fs *Fs) fatEntry(p string, id int) (FATEntry, error) {
	if id < 0 || id >= len(fs.fat) {
		return FATEntry{}, checkpoint.Wrapf(ErrFormat, "%s: file id %d outside of the FAT with %d records", p, id, len(fs.fat))
	}
	return fs.fat[id], nil
}

func (fs *Fs) resolveOverlay(p, dir string, rest []string) (entry, error) {
	display := "/" + dir
	if len(rest) == 0 {
		return entry{path: display, dir: true}, nil
	}
	if len(rest) > 1 {
		return entry{}, notFound("stat", p)
	}

	id, ok := parseOverlayFileName(rest[0])
	if !ok {
		return entry{}, notFound("stat", p)
	}
	overlay, ok := findOverlay(fs.overlays(dir), id)
	if !ok {
		return entry{}, notFound("stat", p)
	}

	fat, err := fs.fatEntry(p, int(overlay.FileID))
	if err != nil {
		return entry{}, err
	}
	if fat.IsPlaceholder() {
		// The overlay was deleted before the image got saved.
		return entry{}, notFound("stat", p)
	}
	return entry{path: joinPath(display, overlay.FileName()), fat: fat}, nil
}

func (fs *Fs) resolveData(p string, rest []string) (entry, error) {
	node := fs.tree
	display := "/" + fs.mountName
	for _, s := range rest {
		if !node.IsDir() {
			return entry{}, notFound("stat", p)
		}
		child := node.Child(s)
		if child == nil {
			return entry{}, notFound("stat", p)
		}
		node = child
		display = joinPath(display, child.Name)
	}

	if node.IsDir() {
		return entry{path: display, dir: true}, nil
	}

	fat, err := fs.fatEntry(p, node.FileID)
	if err != nil {
		return entry{}, err
	}
	return entry{path: display, fat: fat}, nil
}

// packedChildren lists the display paths the image itself has directly inside
// the directory with the display path p, in declaration order.
func (fs *Fs) packedChildren(p string) []string {
	segments := splitPath(p)
	if len(segments) == 0 {
		result := make([]string, 0, len(singletonNames)+3)
		for _, name := range singletonNames {
			result = append(result, "/"+name)
		}
		return append(result, "/"+dirArm9Overlays, "/"+dirArm7Overlays, "/"+fs.mountName)
	}

	top := strings.ToLower(segments[0])
	switch {
	case len(segments) == 1 && (top == dirArm9Overlays || top == dirArm7Overlays):
		overlays := fs.overlays(top)
		result := make([]string, len(overlays))
		for i, o := range overlays {
			result[i] = joinPath(p, o.FileName())
		}
		return result

	case top == strings.ToLower(fs.mountName):
		node := fs.tree
		for _, s := range segments[1:] {
			if node = node.Child(s); node == nil || !node.IsDir() {
				return nil
			}
		}
		result := make([]string, len(node.Children))
		for i, c := range node.Children {
			result[i] = joinPath(p, c.Name)
		}
		return result
	}
	return nil
}

// readDir lists the visible entries of a directory: packed entries in
// declaration order followed by shadow only entries sorted by path.
func (fs *Fs) readDir(p string) ([]entry, error) {
	dir, err := fs.lookup(p)
	if err != nil {
		return nil, err
	}
	if !dir.dir {
		return nil, pathError("readdir", p, syscall.ENOTDIR)
	}

	var result []entry
	seen := make(map[string]bool)
	add := func(child string) {
		key := pathKey(child)
		if seen[key] {
			return
		}
		e, err := fs.lookup(child)
		if err != nil {
			// Hidden by a tombstone.
			return
		}
		seen[key] = true
		result = append(result, e)
	}

	for _, child := range fs.packedChildren(dir.path) {
		add(child)
	}
	files, dirs := fs.stage.children(dir.path)
	for _, child := range files {
		add(child)
	}
	for _, child := range dirs {
		add(child)
	}
	return result, nil
}

// readDirInfo is readDir returning os.FileInfo.
func (fs *Fs) readDirInfo(p string) ([]os.FileInfo, error) {
	entries, err := fs.readDir(p)
	if err != nil {
		return nil, err
	}

	result := make([]os.FileInfo, len(entries))
	for i, e := range entries {
		info, err := fs.fileInfo(e)
		if err != nil {
			return nil, err
		}
		result[i] = info
	}
	return result, nil
}

// readFileAt reads up to size bytes of a packed file starting at offset relative to the file start.
func (fs *Fs) readFileAt(fat FATEntry, offset int64, size int64) ([]byte, error) {
	if offset < 0 || size < 0 {
		return nil, checkpoint.Wrapf(ErrRange, "offset %d, size %d", offset, size)
	}
	if offset >= fat.Len() {
		return []byte{}, nil
	}
	if offset+size > fat.Len() {
		size = fat.Len() - offset
	}
	return readRange(fs.buf, int64(fat.Start)+offset, size)
}

func (fs *Fs) fileInfo(e entry) (os.FileInfo, error) {
	name := baseName(e.path)
	switch {
	case e.dir:
		return newDirInfo(name), nil
	case e.shadow:
		info, err := fs.stage.stat(e.path)
		if err != nil {
			return nil, err
		}
		return newShadowInfo(name, info), nil
	}
	return newPackedInfo(name, e.fat), nil
}

// canonical replaces every existing prefix of p by its display path.
func (fs *Fs) canonical(p string) string {
	result := "/"
	for _, s := range splitPath(p) {
		next := joinPath(result, s)
		if e, err := fs.lookup(next); err == nil {
			next = e.path
		}
		result = next
	}
	return result
}

// checkAncestors fails if any existing ancestor of p is a file.
func (fs *Fs) checkAncestors(op, p string) error {
	for dir := parentPath(p); dir != "/"; dir = parentPath(dir) {
		if e, err := fs.lookup(dir); err == nil && !e.dir {
			return pathError(op, p, syscall.ENOTDIR)
		}
	}
	return nil
}

// writablePath checks that a file may be stored at p and returns the path to stage it at.
// Only the fixed top level files, overlay payloads of existing overlay names and
// the data tree accept files.
func (fs *Fs) writablePath(op, p string) (string, error) {
	segments := splitPath(p)
	if len(segments) == 0 {
		return "", pathError(op, p, syscall.EISDIR)
	}

	top := strings.ToLower(segments[0])
	if len(segments) == 1 {
		if _, ok := fs.singleton(top); ok {
			return "/" + top, nil
		}
	}

	switch {
	case top == dirArm9Overlays || top == dirArm7Overlays:
		if len(segments) == 1 {
			return "", pathError(op, p, syscall.EISDIR)
		}
		if len(segments) > 2 {
			return "", notFound(op, p)
		}
		id, ok := parseOverlayFileName(segments[1])
		if !ok {
			return "", pathError(op, p, syscall.EINVAL)
		}
		// Overlay files are only stored for records of the overlay table.
		overlay, ok := findOverlay(fs.overlays(top), id)
		if !ok {
			return "", notFound(op, p)
		}
		return joinPath("/"+top, overlay.FileName()), nil

	case top == strings.ToLower(fs.mountName):
		if len(segments) == 1 {
			return "", pathError(op, p, syscall.EISDIR)
		}
		if err := fs.checkAncestors(op, p); err != nil {
			return "", err
		}
		return fs.canonical(p), nil
	}

	return "", notFound(op, p)
}

// isFixedDirectory reports directories which always exist.
func (fs *Fs) isFixedDirectory(p string) bool {
	key := pathKey(p)
	return key == "/" ||
		key == "/"+dirArm9Overlays ||
		key == "/"+dirArm7Overlays ||
		key == "/"+strings.ToLower(fs.mountName)
}
