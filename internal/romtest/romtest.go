// Package romtest assembles small synthetic DS images for tests.
//
// The layout is fixed:
//
//  0x0000 header
//  0x4000 arm9.bin (optionally followed by the 12 byte footer)
//  0x4200 ARM9 overlay table, one overlay with file id 0
//  0x4400 arm7.bin
//  0x4600 ARM7 overlay table, one overlay with file id 1
//  0x4800 FNT
//  0x4A00 FAT
//  0x4C00 banner
//  0x5600 file payloads, ids 0 to 3
//
// The data tree holds readme.txt (id 2) and sound/bgm.sdat (id 3).
package romtest

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

const (
	ImageSize = 128 * 1024

	Arm9Offset    = 0x4000
	Arm9Size      = 0x100
	Arm9Entry     = 0x02000800
	Arm9RAM       = 0x02000000
	Arm9Overlays  = 0x4200
	Arm7Offset    = 0x4400
	Arm7Size      = 0x80
	Arm7Entry     = 0x02380000
	Arm7RAM       = 0x02380000
	Arm7Overlays  = 0x4600
	FNTOffset     = 0x4800
	FATOffset     = 0x4A00
	BannerOffset  = 0x4C00
	BannerSize    = 0x840
	FilesOffset   = 0x5600
	FooterMarker  = 0xDEC00621
	FooterSize    = 0xC
	OverlayRecord = 32

	Title    = "NDSFS TEST"
	GameCode = "NTST"
	Maker    = "01"
	// BannerTitle is stored for every language.
	BannerTitle = "ndsfs\nsynthetic image"
)

// Payloads of the files, indexed by file id.
var (
	Overlay9 = bytes.Repeat([]byte{0x99}, 0x24)
	Overlay7 = bytes.Repeat([]byte{0x77}, 0x10)
	Readme   = []byte("hello from the nitro filesystem\n")
	Music    = bytes.Repeat([]byte{0x5D, 0xA7}, 0x30)

	Payloads = [][]byte{Overlay9, Overlay7, Readme, Music}
)

// Options change the generated image.
type Options struct {
	// NoOverlays leaves both overlay tables empty.
	NoOverlays bool
	// Arm9Footer writes the footer behind the ARM9 binary.
	Arm9Footer bool
	// InvalidSubTable corrupts the root sub-table with the length byte 0x80.
	InvalidSubTable bool
}

// Arm9 returns the ARM9 binary, without footer.
func Arm9() []byte {
	return bytes.Repeat([]byte{0xE9}, Arm9Size)
}

// Arm7 returns the ARM7 binary.
func Arm7() []byte {
	return bytes.Repeat([]byte{0xE7}, Arm7Size)
}

// Footer returns the 12 footer bytes written with Options.Arm9Footer.
func Footer() []byte {
	footer := make([]byte, FooterSize)
	binary.LittleEndian.PutUint32(footer, FooterMarker)
	binary.LittleEndian.PutUint32(footer[4:], 0x00000A00)
	return footer
}

// FNT returns the filename table of the default tree.
func FNT() []byte {
	var sub bytes.Buffer
	rootSub := 2 * 8

	// root: readme.txt, sound/
	sub.WriteByte(byte(len("readme.txt")))
	sub.WriteString("readme.txt")
	sub.WriteByte(0x80 | byte(len("sound")))
	sub.WriteString("sound")
	_ = binary.Write(&sub, binary.LittleEndian, uint16(0xF001))
	sub.WriteByte(0)

	soundSub := rootSub + sub.Len()
	// sound: bgm.sdat
	sub.WriteByte(byte(len("bgm.sdat")))
	sub.WriteString("bgm.sdat")
	sub.WriteByte(0)

	var fnt bytes.Buffer
	// Root record, the parent field holds the directory count.
	_ = binary.Write(&fnt, binary.LittleEndian, []uint32{uint32(rootSub)})
	_ = binary.Write(&fnt, binary.LittleEndian, []uint16{2, 2})
	_ = binary.Write(&fnt, binary.LittleEndian, []uint32{uint32(soundSub)})
	_ = binary.Write(&fnt, binary.LittleEndian, []uint16{3, 0xF000})
	fnt.Write(sub.Bytes())
	return fnt.Bytes()
}

// Overlay returns an overlay table record.
func Overlay(overlayID, fileID uint32) []byte {
	record := make([]byte, OverlayRecord)
	binary.LittleEndian.PutUint32(record[0:], overlayID)
	binary.LittleEndian.PutUint32(record[4:], 0x02100000+overlayID*0x1000)
	binary.LittleEndian.PutUint32(record[8:], 0x40)
	binary.LittleEndian.PutUint32(record[12:], 0x10)
	binary.LittleEndian.PutUint32(record[24:], fileID)
	return record
}

// Banner returns the banner with version 1 and BannerTitle in every language.
func Banner() []byte {
	banner := make([]byte, BannerSize)
	binary.LittleEndian.PutUint16(banner, 1)
	for lang := 0; lang < 6; lang++ {
		offset := 0x240 + lang*0x100
		for i, c := range utf16.Encode([]rune(BannerTitle)) {
			binary.LittleEndian.PutUint16(banner[offset+2*i:], c)
		}
	}
	return banner
}

// Build assembles a complete image of ImageSize bytes.
func Build(o Options) []byte {
	image := make([]byte, ImageSize)
	put32 := func(offset int, v uint32) {
		binary.LittleEndian.PutUint32(image[offset:], v)
	}

	copy(image[0x000:], Title)
	copy(image[0x00C:], GameCode)
	copy(image[0x010:], Maker)

	put32(0x020, Arm9Offset)
	put32(0x024, Arm9Entry)
	put32(0x028, Arm9RAM)
	put32(0x02C, Arm9Size)
	copy(image[Arm9Offset:], Arm9())
	if o.Arm9Footer {
		copy(image[Arm9Offset+Arm9Size:], Footer())
	}

	put32(0x030, Arm7Offset)
	put32(0x034, Arm7Entry)
	put32(0x038, Arm7RAM)
	put32(0x03C, Arm7Size)
	copy(image[Arm7Offset:], Arm7())

	if !o.NoOverlays {
		put32(0x050, Arm9Overlays)
		put32(0x054, OverlayRecord)
		copy(image[Arm9Overlays:], Overlay(0, 0))

		put32(0x058, Arm7Overlays)
		put32(0x05C, OverlayRecord)
		copy(image[Arm7Overlays:], Overlay(0, 1))
	}

	fnt := FNT()
	if o.InvalidSubTable {
		fnt[2*8] = 0x80
	}
	put32(0x040, FNTOffset)
	put32(0x044, uint32(len(fnt)))
	copy(image[FNTOffset:], fnt)

	offset := FilesOffset
	put32(0x048, FATOffset)
	put32(0x04C, uint32(len(Payloads)*8))
	for id, data := range Payloads {
		put32(FATOffset+id*8, uint32(offset))
		put32(FATOffset+id*8+4, uint32(offset+len(data)))
		copy(image[offset:], data)
		offset += len(data)
	}

	put32(0x068, BannerOffset)
	copy(image[BannerOffset:], Banner())

	put32(0x080, uint32(offset))
	return image
}
