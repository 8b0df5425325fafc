package ndsfs

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/aligator/ndsfs/checkpoint"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// overlayTableGap is left free behind the overlay tables before the first file.
	overlayTableGap = 0xA0
	// tableAlignment is the alignment of the rebuilt FNT and FAT.
	tableAlignment = 4
)

// region is a fixed part of the rebuilt image.
type region struct {
	name   string
	offset int64
	data   []byte
}

func (r region) end() int64 {
	return r.offset + int64(len(r.data))
}

// payload is the content of one file id.
type payload struct {
	id   int
	data []byte
}

// Save writes a fresh image built from the current view, including all staged
// edits, to dst. The content of dst is replaced.
func (fs *Fs) Save(dst Buffer) error {
	return fs.SaveWithProgress(dst, NopReporter{})
}

// SaveFile saves the image to name on afs.
func (fs *Fs) SaveFile(afs afero.Fs, name string) error {
	buf, err := OpenFileBuffer(afs, name, os.O_RDWR|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}

	if err := fs.Save(buf); err != nil {
		_ = buf.Close()
		return err
	}
	if err := buf.Sync(); err != nil {
		_ = buf.Close()
		return err
	}
	return buf.Close()
}

// SaveWithProgress is Save reporting every written file.
//
// The fixed regions keep their offsets. The new FNT and FAT follow behind the
// overlay tables, then all file payloads in file id order.
func (fs *Fs) SaveWithProgress(dst Buffer, reporter ProgressReporter) error {
	singletons, err := fs.readSingletons()
	if err != nil {
		return err
	}

	header, err := ParseHeader(singletons[nameHeader])
	if err != nil {
		return err
	}

	arm9Overlays, err := DecodeOverlayTable(singletons[nameArm9Overlays])
	if err != nil {
		return err
	}
	arm7Overlays, err := DecodeOverlayTable(singletons[nameArm7Overlays])
	if err != nil {
		return err
	}

	regions, err := fs.fixedRegions(header, singletons)
	if err != nil {
		return err
	}

	anchor, err := fileAnchor(header, regions)
	if err != nil {
		return err
	}

	imageSize, err := header.ImageSize()
	if err != nil {
		return err
	}

	payloads, err := fs.stageOverlays(arm9Overlays, arm7Overlays)
	if err != nil {
		return err
	}

	// Ids of deleted overlays stay reserved, their records still point at them.
	firstDataID := 0
	for _, table := range [][]OverlayEntry{arm9Overlays, arm7Overlays} {
		for _, o := range table {
			if int(o.FileID) >= firstDataID {
				firstDataID = int(o.FileID) + 1
			}
		}
	}

	tree, dataPayloads, err := fs.stageData(firstDataID)
	if err != nil {
		return err
	}
	for _, p := range dataPayloads {
		payloads[p.id] = p.data
	}

	fnt, err := EncodeFNT(tree)
	if err != nil {
		return err
	}

	maxID := firstDataID - 1
	for id := range payloads {
		if id > maxID {
			maxID = id
		}
	}

	fntOffset := alignUp(anchor, tableAlignment)
	fatOffset := alignUp(fntOffset+int64(len(fnt)), tableAlignment)
	fat := make([]FATEntry, maxID+1)
	offset := fatOffset + int64(len(fat))*FATEntrySize

	placed := make([]payload, 0, len(payloads))
	for id := 0; id <= maxID; id++ {
		data, ok := payloads[id]
		if !ok {
			continue
		}
		end := offset + int64(len(data))
		if end > imageSize {
			return checkpoint.Wrapf(ErrUnsupported, "file id %d ends at 0x%X behind the image size 0x%X", id, end, imageSize)
		}
		start32, err := safeOffset(offset)
		if err != nil {
			return checkpoint.Wrapf(err, "file id %d", id)
		}
		end32, err := safeOffset(end)
		if err != nil {
			return checkpoint.Wrapf(err, "file id %d", id)
		}
		fat[id] = FATEntry{Start: start32, End: end32}
		placed = append(placed, payload{id: id, data: data})
		offset = end
	}

	fnt32, err := safeOffset(fntOffset)
	if err != nil {
		return checkpoint.Wrapf(err, "fnt")
	}
	fat32, err := safeOffset(fatOffset)
	if err != nil {
		return checkpoint.Wrapf(err, "fat")
	}
	used32, err := safeOffset(offset)
	if err != nil {
		return checkpoint.Wrapf(err, "total used size")
	}
	header.SetFNT(Table{Offset: fnt32, Size: uint32(len(fnt))})
	header.SetFAT(Table{Offset: fat32, Size: uint32(len(fat) * FATEntrySize)})
	header.SetTotalUsedSize(used32)

	fs.log.WithFields(logrus.Fields{
		"fnt":        fmt.Sprintf("0x%X", fntOffset),
		"fat":        fmt.Sprintf("0x%X", fatOffset),
		"files":      len(placed),
		"used":       fmt.Sprintf("0x%X", offset),
		"image_size": fmt.Sprintf("0x%X", imageSize),
	}).Debug("rebuild layout")

	if err := dst.Truncate(0); err != nil {
		return checkpoint.From(err)
	}
	if err := dst.Truncate(imageSize); err != nil {
		return checkpoint.From(err)
	}

	regions[0].data = header.Bytes()
	regions = append(regions,
		region{name: "fnt", offset: fntOffset, data: fnt},
		region{name: "fat", offset: fatOffset, data: EncodeFAT(fat)},
	)
	for _, r := range regions {
		if err := writeRange(dst, r.offset, r.data); err != nil {
			return checkpoint.Wrapf(err, "write %s", r.name)
		}
	}

	var written counter
	write := func(i int) error {
		p := placed[i]
		if err := writeRange(dst, int64(fat[p.id].Start), p.data); err != nil {
			return checkpoint.Wrapf(err, "write file id %d", p.id)
		}
		reporter.Report(Progress{
			Processed: written.inc(),
			Total:     len(placed),
			Message:   "writing files",
		})
		return nil
	}
	r := runner{parallel: !fs.sequential && dst.ConcurrentAccess()}
	if err := r.run(len(placed), write); err != nil {
		return err
	}

	reporter.Report(Progress{
		Processed: len(placed),
		Total:     len(placed),
		Message:   "saved",
		Done:      true,
	})
	return nil
}

// readSingletons reads the six fixed files through the virtual layer, so staged versions win.
func (fs *Fs) readSingletons() (map[string][]byte, error) {
	data := make([][]byte, len(singletonNames))
	err := fs.runner().run(len(singletonNames), func(i int) (err error) {
		data[i], err = fs.ReadFile("/" + singletonNames[i])
		return err
	})
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(singletonNames))
	for i, name := range singletonNames {
		result[name] = data[i]
	}
	return result, nil
}

// fixedRegions updates the header to the sizes of the current singletons and
// returns their regions, the header first. Overlapping regions cannot be
// solved without relocating them and are reported as unsupported.
func (fs *Fs) fixedRegions(header *Header, singletons map[string][]byte) ([]region, error) {
	arm9Data := singletons[nameArm9]
	arm9 := header.Arm9()
	arm9.Size = uint32(len(arm9Data))
	if hasFooter(arm9Data) {
		arm9.Size -= arm9FooterSize
	}
	header.SetArm9(arm9)

	arm7Data := singletons[nameArm7]
	arm7 := header.Arm7()
	arm7.Size = uint32(len(arm7Data))
	header.SetArm7(arm7)

	y9 := singletons[nameArm9Overlays]
	header.SetArm9Overlays(Table{Offset: header.Arm9Overlays().Offset, Size: uint32(len(y9))})
	y7 := singletons[nameArm7Overlays]
	header.SetArm7Overlays(Table{Offset: header.Arm7Overlays().Offset, Size: uint32(len(y7))})

	regions := []region{
		{name: nameHeader, offset: 0, data: header.Bytes()},
		{name: nameArm9, offset: int64(arm9.RomOffset), data: arm9Data},
		{name: nameArm7, offset: int64(arm7.RomOffset), data: arm7Data},
		{name: nameBanner, offset: int64(header.IconOffset()), data: singletons[nameBanner]},
		{name: nameArm9Overlays, offset: int64(header.Arm9Overlays().Offset), data: y9},
		{name: nameArm7Overlays, offset: int64(header.Arm7Overlays().Offset), data: y7},
	}

	sorted := make([]region, 0, len(regions))
	for _, r := range regions {
		if len(r.data) > 0 {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].offset < sorted[j].offset
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].offset < sorted[i-1].end() {
			return nil, checkpoint.Wrapf(ErrUnsupported, "%s at 0x%X overlaps %s ending at 0x%X",
				sorted[i].name, sorted[i].offset, sorted[i-1].name, sorted[i-1].end())
		}
	}

	return regions, nil
}

// hasFooter checks for the footer at the end of a complete ARM9 blob.
func hasFooter(arm9 []byte) bool {
	if len(arm9) < arm9FooterSize {
		return false
	}
	return binary.LittleEndian.Uint32(arm9[len(arm9)-arm9FooterSize:]) == arm9FooterMarker
}

// fileAnchor returns the first offset free for the filename table and the files.
// Without any overlay table there is nothing to place them behind.
func fileAnchor(header *Header, regions []region) (int64, error) {
	y9, y7 := header.Arm9Overlays(), header.Arm7Overlays()
	if y9.Size == 0 && y7.Size == 0 {
		return 0, checkpoint.Wrapf(ErrUnsupported, "no overlay table to place the files behind")
	}

	anchor := y9.End() + overlayTableGap
	if y7.End()+overlayTableGap > anchor {
		anchor = y7.End() + overlayTableGap
	}

	for _, r := range regions {
		if len(r.data) > 0 && r.end() > anchor {
			anchor = r.end()
		}
	}
	return anchor, nil
}

// stageOverlays collects the payload of every overlay record whose file exists, keyed by file id.
func (fs *Fs) stageOverlays(arm9Overlays, arm7Overlays []OverlayEntry) (map[int][]byte, error) {
	type overlayFile struct {
		path string
		id   int
	}

	var files []overlayFile
	for _, o := range arm9Overlays {
		files = append(files, overlayFile{joinPath("/"+dirArm9Overlays, o.FileName()), int(o.FileID)})
	}
	for _, o := range arm7Overlays {
		files = append(files, overlayFile{joinPath("/"+dirArm7Overlays, o.FileName()), int(o.FileID)})
	}

	data := make([][]byte, len(files))
	found := make([]bool, len(files))
	err := fs.runner().run(len(files), func(i int) (err error) {
		if !fs.FileExists(files[i].path) {
			return nil
		}
		found[i] = true
		data[i], err = fs.ReadFile(files[i].path)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := make(map[int][]byte, len(files))
	for i, f := range files {
		if found[i] {
			result[f.id] = data[i]
		}
	}
	return result, nil
}

// stageData assigns fresh file ids to every file of the data tree, starting at firstID
// in listing order, and builds the tree to encode.
func (fs *Fs) stageData(firstID int) (*Node, []payload, error) {
	mount := "/" + fs.mountName
	files, err := fs.GetFiles(mount, "*", false)
	if err != nil {
		return nil, nil, err
	}

	ids := make(map[string]int, len(files))
	payloads := make([]payload, len(files))
	for i, f := range files {
		ids[pathKey(f)] = firstID + i
		payloads[i].id = firstID + i
	}

	err = fs.runner().run(len(files), func(i int) (err error) {
		payloads[i].data, err = fs.ReadFile(files[i])
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	tree := NewDirectory(fs.mountName)
	if err := fs.buildTree(tree, mount, ids); err != nil {
		return nil, nil, err
	}
	return tree, payloads, nil
}

// buildTree adds the live entries of dir to node in listing order.
func (fs *Fs) buildTree(node *Node, dir string, ids map[string]int) error {
	entries, err := fs.readDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		name := baseName(e.path)
		if !e.dir {
			node.Children = append(node.Children, &Node{Name: name, FileID: ids[pathKey(e.path)]})
			continue
		}

		child := NewDirectory(name)
		if err := fs.buildTree(child, e.path, ids); err != nil {
			return err
		}
		node.Children = append(node.Children, child)
	}
	return nil
}

// safeOffset narrows an image offset to the 32 bit fields of the header and the FAT.
func safeOffset(offset int64) (uint32, error) {
	if offset < 0 {
		return 0, checkpoint.Wrapf(ErrRange, "offset %d is negative", offset)
	}
	if offset > math.MaxUint32 {
		return 0, checkpoint.Wrapf(ErrUnsupported, "offset 0x%X out of range for uint32", offset)
	}
	return uint32(offset), nil
}

func alignUp(offset, alignment int64) int64 {
	return (offset + alignment - 1) / alignment * alignment
}
