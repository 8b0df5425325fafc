package ndsfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/aligator/ndsfs/checkpoint"
)

// OverlayEntrySize is the size of one record of an overlay table.
const OverlayEntrySize = 32

// OverlayEntry is one record of the ARM9 or ARM7 overlay table.
type OverlayEntry struct {
	OverlayID       uint32 `yaml:"overlay_id"`
	RAMAddress      uint32 `yaml:"ram_address"`
	RAMSize         uint32 `yaml:"ram_size"`
	BSSSize         uint32 `yaml:"bss_size"`
	StaticInitStart uint32 `yaml:"static_init_start"`
	StaticInitEnd   uint32 `yaml:"static_init_end"`
	// FileID is the FAT index of the overlay payload.
	FileID   uint32 `yaml:"file_id"`
	Reserved uint32 `yaml:"reserved"`
}

// FileName returns the name the overlay payload is visible as.
func (e OverlayEntry) FileName() string {
	return fmt.Sprintf("overlay_%04d.bin", e.FileID)
}

// DecodeOverlayTable reads len(data)/32 records in table order.
// Trailing bytes not forming a whole record are ignored.
func DecodeOverlayTable(data []byte) ([]OverlayEntry, error) {
	entries := make([]OverlayEntry, len(data)/OverlayEntrySize)
	if len(entries) == 0 {
		return entries, nil
	}

	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, entries)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrFormat)
	}
	return entries, nil
}

// EncodeOverlayTable serializes the records in the given order.
func EncodeOverlayTable(entries []OverlayEntry) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(entries)*OverlayEntrySize))
	// Writing fixed size structs into a bytes.Buffer cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, entries)
	return buf.Bytes()
}

// parseOverlayFileName extracts the file id from "overlay_NNNN.bin".
func parseOverlayFileName(name string) (uint32, bool) {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "overlay_") || !strings.HasSuffix(lower, ".bin") {
		return 0, false
	}

	digits := lower[len("overlay_") : len(lower)-len(".bin")]
	if digits == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

// findOverlay returns the record backed by the given file id.
func findOverlay(entries []OverlayEntry, fileID uint32) (OverlayEntry, bool) {
	for _, e := range entries {
		if e.FileID == fileID {
			return e, true
		}
	}
	return OverlayEntry{}, false
}
