package ndsfs

import (
	"bytes"
	"encoding/binary"

	"github.com/aligator/ndsfs/checkpoint"
)

// FATEntrySize is the size of one file allocation table record.
const FATEntrySize = 8

// FATEntry is the byte range [Start, End) of one file id.
type FATEntry struct {
	Start uint32
	End   uint32
}

// Len returns the length of the range. Inverted ranges are empty.
func (e FATEntry) Len() int64 {
	if e.End < e.Start {
		return 0
	}
	return int64(e.End) - int64(e.Start)
}

// IsPlaceholder reports the all zero record used for unused ids.
func (e FATEntry) IsPlaceholder() bool {
	return e.Start == 0 && e.End == 0
}

// DecodeFAT reads len(data)/8 records; the index is the file id.
func DecodeFAT(data []byte) ([]FATEntry, error) {
	entries := make([]FATEntry, len(data)/FATEntrySize)
	if len(entries) == 0 {
		return entries, nil
	}

	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, entries)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrFormat)
	}
	return entries, nil
}

// EncodeFAT serializes all records. Unused ids have to be passed as zero FATEntry
// as ids are positional.
func EncodeFAT(entries []FATEntry) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(entries)*FATEntrySize))
	_ = binary.Write(buf, binary.LittleEndian, entries)
	return buf.Bytes()
}
