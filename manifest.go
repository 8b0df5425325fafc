package ndsfs

import (
	"io"

	"github.com/aligator/ndsfs/checkpoint"
	"gopkg.in/yaml.v3"
)

// Manifest summarizes the current state of an image.
type Manifest struct {
	Title          string         `yaml:"title"`
	GameCode       string         `yaml:"game_code"`
	MakerCode      string         `yaml:"maker_code"`
	UnitCode       uint8          `yaml:"unit_code"`
	Region         uint8          `yaml:"region"`
	RomVersion     uint8          `yaml:"rom_version"`
	DeviceCapacity uint8          `yaml:"device_capacity"`
	ImageSize      int64          `yaml:"image_size"`
	TotalUsedSize  uint32         `yaml:"total_used_size"`
	Arm9           Executable     `yaml:"arm9"`
	Arm9Footer     bool           `yaml:"arm9_footer"`
	Arm7           Executable     `yaml:"arm7"`
	FNT            Table          `yaml:"fnt"`
	FAT            Table          `yaml:"fat"`
	IconOffset     uint32         `yaml:"icon_offset"`
	Arm9Overlays   []OverlayEntry `yaml:"arm9_overlays"`
	Arm7Overlays   []OverlayEntry `yaml:"arm7_overlays"`
	Banner         *Banner        `yaml:"banner,omitempty"`
	Files          int            `yaml:"files"`
}

// Manifest describes the current view including staged edits of the header,
// the overlay tables and the banner. Table locations are the ones of the opened image.
func (fs *Fs) Manifest() (*Manifest, error) {
	singletons, err := fs.readSingletons()
	if err != nil {
		return nil, err
	}

	header, err := ParseHeader(singletons[nameHeader])
	if err != nil {
		return nil, err
	}
	imageSize, err := header.ImageSize()
	if err != nil {
		return nil, err
	}

	arm9Overlays, err := DecodeOverlayTable(singletons[nameArm9Overlays])
	if err != nil {
		return nil, err
	}
	arm7Overlays, err := DecodeOverlayTable(singletons[nameArm7Overlays])
	if err != nil {
		return nil, err
	}

	files, err := fs.GetFiles("/"+fs.mountName, "*", false)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Title:          header.GameTitle(),
		GameCode:       header.GameCode(),
		MakerCode:      header.MakerCode(),
		UnitCode:       header.UnitCode(),
		Region:         header.Region(),
		RomVersion:     header.RomVersion(),
		DeviceCapacity: header.DeviceCapacity(),
		ImageSize:      imageSize,
		TotalUsedSize:  header.TotalUsedSize(),
		Arm9:           header.Arm9(),
		Arm9Footer:     hasFooter(singletons[nameArm9]),
		Arm7:           header.Arm7(),
		FNT:            header.FNT(),
		FAT:            header.FAT(),
		IconOffset:     header.IconOffset(),
		Arm9Overlays:   arm9Overlays,
		Arm7Overlays:   arm7Overlays,
		Files:          len(files),
	}

	// Images without an icon have an empty banner.bin.
	if len(singletons[nameBanner]) > 0 {
		m.Banner, err = DecodeBanner(singletons[nameBanner])
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WriteYAML encodes the manifest as YAML document.
func (m *Manifest) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(m); err != nil {
		return checkpoint.From(err)
	}
	return checkpoint.From(encoder.Close())
}

// ReadManifest decodes a manifest written by WriteYAML.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, checkpoint.From(err)
	}
	return &m, nil
}
