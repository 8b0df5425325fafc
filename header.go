package ndsfs

import (
	"encoding/binary"
	"strings"

	"github.com/aligator/ndsfs/checkpoint"
)

const (
	// HeaderSize is the length of the header region at the start of every image.
	HeaderSize = 0x200
	// BannerSize is the fixed length of the icon/banner region.
	BannerSize = 0x840

	// arm9FooterMarker follows the ARM9 binary if it carries a 12 byte footer.
	arm9FooterMarker = 0xDEC00621
	arm9FooterSize   = 0xC

	// minimumImageSize is the image size for device capacity 0 (128KiB).
	minimumImageSize = 128 * 1024
	// maximumDeviceCapacity is the biggest capacity code whose image fits 32 bit offsets (4GiB).
	maximumDeviceCapacity = 15
)

// Header field offsets.
const (
	offsetGameTitle      = 0x000
	offsetGameCode       = 0x00C
	offsetMakerCode      = 0x010
	offsetUnitCode       = 0x012
	offsetDeviceCapacity = 0x014
	offsetRegion         = 0x01D
	offsetRomVersion     = 0x01E
	offsetArm9           = 0x020
	offsetArm7           = 0x030
	offsetFNT            = 0x040
	offsetFAT            = 0x048
	offsetArm9Overlays   = 0x050
	offsetArm7Overlays   = 0x058
	offsetIcon           = 0x068
	offsetTotalUsedSize  = 0x080
)

// Executable describes where one of the ARM binaries lives in the image and in RAM.
type Executable struct {
	RomOffset    uint32 `yaml:"rom_offset"`
	EntryAddress uint32 `yaml:"entry_address"`
	RAMAddress   uint32 `yaml:"ram_address"`
	Size         uint32 `yaml:"size"`
}

// Table is an {offset, size} pair of a region inside the image.
type Table struct {
	Offset uint32 `yaml:"offset"`
	Size   uint32 `yaml:"size"`
}

// End returns the first offset behind the table.
func (t Table) End() int64 {
	return int64(t.Offset) + int64(t.Size)
}

// Header provides read and write access to the fields of the first 0x200 bytes of an image.
// Values are not validated, unknown regions or codes are kept as they are.
type Header struct {
	raw []byte
}

// ParseHeader copies the first HeaderSize bytes of data into a new Header.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, checkpoint.Wrapf(ErrFormat, "header needs 0x%X bytes, got 0x%X", HeaderSize, len(data))
	}

	raw := make([]byte, HeaderSize)
	copy(raw, data)
	return &Header{raw: raw}, nil
}

// Bytes returns a copy of the raw header.
func (h *Header) Bytes() []byte {
	result := make([]byte, len(h.raw))
	copy(result, h.raw)
	return result
}

func (h *Header) uint32At(offset int) uint32 {
	return binary.LittleEndian.Uint32(h.raw[offset:])
}

func (h *Header) setUint32At(offset int, value uint32) {
	binary.LittleEndian.PutUint32(h.raw[offset:], value)
}

// stringAt reads a NUL padded ASCII string.
func (h *Header) stringAt(offset, length int) string {
	value := string(h.raw[offset : offset+length])
	if i := strings.IndexByte(value, 0); i >= 0 {
		value = value[:i]
	}
	return value
}

// setStringAt writes value NUL padded, cutting it at length.
func (h *Header) setStringAt(offset, length int, value string) {
	field := h.raw[offset : offset+length]
	n := copy(field, value)
	for i := n; i < length; i++ {
		field[i] = 0
	}
}

func (h *Header) GameTitle() string         { return h.stringAt(offsetGameTitle, 12) }
func (h *Header) SetGameTitle(title string) { h.setStringAt(offsetGameTitle, 12, title) }
func (h *Header) GameCode() string          { return h.stringAt(offsetGameCode, 4) }
func (h *Header) SetGameCode(code string)   { h.setStringAt(offsetGameCode, 4, code) }
func (h *Header) MakerCode() string         { return h.stringAt(offsetMakerCode, 2) }
func (h *Header) SetMakerCode(code string)  { h.setStringAt(offsetMakerCode, 2, code) }
func (h *Header) UnitCode() uint8           { return h.raw[offsetUnitCode] }
func (h *Header) SetUnitCode(code uint8)    { h.raw[offsetUnitCode] = code }
func (h *Header) Region() uint8             { return h.raw[offsetRegion] }
func (h *Header) SetRegion(region uint8)    { h.raw[offsetRegion] = region }
func (h *Header) RomVersion() uint8         { return h.raw[offsetRomVersion] }
func (h *Header) SetRomVersion(v uint8)     { h.raw[offsetRomVersion] = v }

// DeviceCapacity returns the capacity code c, the image size is 128KiB * 2^c.
func (h *Header) DeviceCapacity() uint8 { return h.raw[offsetDeviceCapacity] }

func (h *Header) SetDeviceCapacity(c uint8) { h.raw[offsetDeviceCapacity] = c }

// ImageSize calculates the cartridge size from the device capacity.
func (h *Header) ImageSize() (int64, error) {
	capacity := h.DeviceCapacity()
	if capacity > maximumDeviceCapacity {
		return 0, checkpoint.Wrapf(ErrUnsupported, "device capacity %d", capacity)
	}
	return int64(minimumImageSize) << capacity, nil
}

func (h *Header) executableAt(offset int) Executable {
	return Executable{
		RomOffset:    h.uint32At(offset),
		EntryAddress: h.uint32At(offset + 4),
		RAMAddress:   h.uint32At(offset + 8),
		Size:         h.uint32At(offset + 12),
	}
}

func (h *Header) setExecutableAt(offset int, e Executable) {
	h.setUint32At(offset, e.RomOffset)
	h.setUint32At(offset+4, e.EntryAddress)
	h.setUint32At(offset+8, e.RAMAddress)
	h.setUint32At(offset+12, e.Size)
}

func (h *Header) Arm9() Executable        { return h.executableAt(offsetArm9) }
func (h *Header) SetArm9(e Executable)    { h.setExecutableAt(offsetArm9, e) }
func (h *Header) Arm7() Executable        { return h.executableAt(offsetArm7) }
func (h *Header) SetArm7(e Executable)    { h.setExecutableAt(offsetArm7, e) }
func (h *Header) tableAt(offset int) Table { return Table{h.uint32At(offset), h.uint32At(offset + 4)} }

func (h *Header) setTableAt(offset int, t Table) {
	h.setUint32At(offset, t.Offset)
	h.setUint32At(offset+4, t.Size)
}

// FNT is the filename table region.
func (h *Header) FNT() Table     { return h.tableAt(offsetFNT) }
func (h *Header) SetFNT(t Table) { h.setTableAt(offsetFNT, t) }

// FAT is the file allocation table region.
func (h *Header) FAT() Table     { return h.tableAt(offsetFAT) }
func (h *Header) SetFAT(t Table) { h.setTableAt(offsetFAT, t) }

func (h *Header) Arm9Overlays() Table     { return h.tableAt(offsetArm9Overlays) }
func (h *Header) SetArm9Overlays(t Table) { h.setTableAt(offsetArm9Overlays, t) }
func (h *Header) Arm7Overlays() Table     { return h.tableAt(offsetArm7Overlays) }
func (h *Header) SetArm7Overlays(t Table) { h.setTableAt(offsetArm7Overlays, t) }

// IconOffset points to the banner. Its length is always BannerSize.
func (h *Header) IconOffset() uint32        { return h.uint32At(offsetIcon) }
func (h *Header) SetIconOffset(o uint32)    { h.setUint32At(offsetIcon, o) }
func (h *Header) TotalUsedSize() uint32     { return h.uint32At(offsetTotalUsedSize) }
func (h *Header) SetTotalUsedSize(s uint32) { h.setUint32At(offsetTotalUsedSize, s) }
