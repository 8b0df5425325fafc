package ndsfs

import (
	"bytes"
	"encoding/binary"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/aligator/ndsfs/checkpoint"
)

const (
	// directoryRecordSize is the size of one directory main table record.
	directoryRecordSize = 8
	// directoryIDBase is or-ed to the slot of a directory to form its id.
	directoryIDBase = 0xF000
	// maxDirectories is the amount of slots addressable by the 12 bit directory id.
	maxDirectories = 0x1000

	subTableEnd       = 0x00
	subTableInvalid   = 0x80
	subTableDirectory = 0x80
	maxNameLength     = 0x7F

	// noFileID is stored as first file id of directories without any file.
	noFileID = 0xFFFF
)

// Node is one entry of the filename table tree.
// A node is a directory iff FileID < 0, only directories have children.
type Node struct {
	Name     string
	FileID   int
	Children []*Node
}

// NewDirectory creates an empty directory node.
func NewDirectory(name string) *Node {
	return &Node{Name: name, FileID: -1}
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.FileID < 0
}

// Child finds a direct child by name, ignoring case.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// FileIDs maps the path of every file below n, relative to n, to its id.
func (n *Node) FileIDs() map[string]int {
	result := make(map[string]int)
	var walk func(prefix string, dir *Node)
	walk = func(prefix string, dir *Node) {
		for _, c := range dir.Children {
			p := path.Join(prefix, c.Name)
			if c.IsDir() {
				walk(p, c)
				continue
			}
			result[p] = c.FileID
		}
	}
	walk("", n)
	return result
}

// directoryRecord is one record of the directory main table.
// For the root record Parent holds the total amount of directories.
type directoryRecord struct {
	SubTableOffset uint32
	FirstFileID    uint16
	Parent         uint16
}

type fntDecoder struct {
	data    []byte
	records []directoryRecord
}

// DecodeFNT builds the directory tree of a packed filename table.
// The returned root is named rootName.
func DecodeFNT(data []byte, rootName string) (*Node, error) {
	if len(data) < directoryRecordSize {
		return nil, checkpoint.Wrapf(ErrFormat, "filename table of %d bytes", len(data))
	}

	count := int(binary.LittleEndian.Uint16(data[6:]))
	if count == 0 || count > maxDirectories || count*directoryRecordSize > len(data) {
		return nil, checkpoint.Wrapf(ErrFormat, "filename table with %d directories", count)
	}

	d := fntDecoder{
		data:    data,
		records: make([]directoryRecord, count),
	}
	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, d.records)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrFormat)
	}

	root := NewDirectory(rootName)
	if err := d.readDirectory(root, 0, 0); err != nil {
		return nil, err
	}
	return root, nil
}

// readDirectory appends the entries of the sub-table of the given slot to dir,
// descending into sub directories as they appear.
func (d *fntDecoder) readDirectory(dir *Node, slot int, depth int) error {
	// Directory ids only increase from parent to child, a longer chain can only be a loop.
	if depth >= len(d.records) {
		return checkpoint.Wrapf(ErrFormat, "directory 0x%X nested too deep", directoryIDBase|slot)
	}

	record := d.records[slot]
	offset := int(record.SubTableOffset)
	fileID := int(record.FirstFileID)

	for {
		if offset >= len(d.data) {
			return checkpoint.Wrapf(ErrFormat, "sub-table at 0x%X is not terminated", record.SubTableOffset)
		}

		length := int(d.data[offset])
		offset++

		switch {
		case length == subTableEnd:
			return nil

		case length == subTableInvalid:
			return checkpoint.Wrapf(ErrFormat, "invalid entry length 0x80 in sub-table at 0x%X", record.SubTableOffset)

		case length > subTableDirectory:
			nameLength := length & maxNameLength
			if offset+nameLength+2 > len(d.data) {
				return checkpoint.Wrapf(ErrFormat, "sub-table at 0x%X is truncated", record.SubTableOffset)
			}

			name := string(d.data[offset : offset+nameLength])
			offset += nameLength
			childSlot := int(binary.LittleEndian.Uint16(d.data[offset:]) & 0x0FFF)
			offset += 2

			if childSlot == 0 || childSlot >= len(d.records) {
				return checkpoint.Wrapf(ErrFormat, "directory %q refers to missing directory slot %d", name, childSlot)
			}

			child := NewDirectory(name)
			dir.Children = append(dir.Children, child)
			if err := d.readDirectory(child, childSlot, depth+1); err != nil {
				return err
			}

		default:
			if offset+length > len(d.data) {
				return checkpoint.Wrapf(ErrFormat, "sub-table at 0x%X is truncated", record.SubTableOffset)
			}

			dir.Children = append(dir.Children, &Node{
				Name:   string(d.data[offset : offset+length]),
				FileID: fileID,
			})
			offset += length
			fileID++
		}
	}
}

// EncodeFNT packs a directory tree into a filename table.
//
// Directories get their slots in breadth first order, the root being slot 0.
// The files of every directory must carry consecutive ids in child order
// as the packed format only stores the id of the first one.
func EncodeFNT(root *Node) ([]byte, error) {
	directories := []*Node{root}
	parents := []int{0}
	slots := map[*Node]int{root: 0}

	for i := 0; i < len(directories); i++ {
		for _, c := range directories[i].Children {
			if !c.IsDir() {
				continue
			}
			slots[c] = len(directories)
			directories = append(directories, c)
			parents = append(parents, i)
		}
	}

	if len(directories) > maxDirectories {
		return nil, checkpoint.Wrapf(ErrUnsupported, "%d directories, at most %d fit into the filename table", len(directories), maxDirectories)
	}

	records := make([]directoryRecord, len(directories))
	var subTables bytes.Buffer
	mainTableSize := len(directories) * directoryRecordSize

	for slot, dir := range directories {
		first, err := firstFileID(dir)
		if err != nil {
			return nil, err
		}

		records[slot] = directoryRecord{
			SubTableOffset: uint32(mainTableSize + subTables.Len()),
			FirstFileID:    first,
			Parent:         uint16(directoryIDBase | parents[slot]),
		}

		if err := writeSubTable(&subTables, dir, slots); err != nil {
			return nil, err
		}
	}
	records[0].Parent = uint16(len(directories))

	var result bytes.Buffer
	result.Grow(mainTableSize + subTables.Len())
	_ = binary.Write(&result, binary.LittleEndian, records)
	result.Write(subTables.Bytes())
	return result.Bytes(), nil
}

// firstFileID returns the id of the first direct file of dir. Directories without
// direct files use the first file found depth first below them, or noFileID.
// It also verifies the direct files are numbered consecutively.
func firstFileID(dir *Node) (uint16, error) {
	expected := -1
	for _, c := range dir.Children {
		if c.IsDir() {
			continue
		}
		if c.FileID > noFileID-1 {
			return 0, checkpoint.Wrapf(ErrUnsupported, "file id %d of %q exceeds 16 bit", c.FileID, c.Name)
		}
		if expected >= 0 && c.FileID != expected {
			return 0, checkpoint.Wrapf(ErrFormat, "file %q has id %d, expected the consecutive id %d", c.Name, c.FileID, expected)
		}
		expected = c.FileID + 1
	}

	if first, ok := findFirstFile(dir); ok {
		return uint16(first), nil
	}
	return noFileID, nil
}

func findFirstFile(dir *Node) (int, bool) {
	for _, c := range dir.Children {
		if !c.IsDir() {
			return c.FileID, true
		}
	}
	for _, c := range dir.Children {
		if c.IsDir() {
			if id, ok := findFirstFile(c); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func writeSubTable(buf *bytes.Buffer, dir *Node, slots map[*Node]int) error {
	seen := make(map[string]string, len(dir.Children))
	for _, c := range dir.Children {
		name := truncateName(c.Name)
		if name == "" {
			return checkpoint.Wrapf(ErrFormat, "empty name in directory %q", dir.Name)
		}
		if other, ok := seen[pathKey(name)]; ok {
			return checkpoint.Wrapf(ErrUnsupported, "%q and %q in directory %q are the same name when cut to %d bytes",
				other, c.Name, dir.Name, maxNameLength)
		}
		seen[pathKey(name)] = c.Name

		if !c.IsDir() {
			buf.WriteByte(byte(len(name)))
			buf.WriteString(name)
			continue
		}

		buf.WriteByte(byte(subTableDirectory | len(name)))
		buf.WriteString(name)
		var id [2]byte
		binary.LittleEndian.PutUint16(id[:], uint16(directoryIDBase|slots[c]))
		buf.Write(id[:])
	}
	buf.WriteByte(subTableEnd)
	return nil
}

// truncateName cuts name to the longest prefix of whole characters fitting a sub-table entry.
func truncateName(name string) string {
	if len(name) <= maxNameLength {
		return name
	}
	n := maxNameLength
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return name[:n]
}
