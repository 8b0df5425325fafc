package ndsfs

import (
	"bytes"
	"encoding/binary"

	"github.com/aligator/ndsfs/checkpoint"
	"golang.org/x/text/encoding/unicode"
)

const (
	bannerTitleOffset = 0x240
	bannerTitleSize   = 0x100
)

// BannerLanguage indexes the titles of the banner.
type BannerLanguage int

const (
	Japanese BannerLanguage = iota
	English
	French
	German
	Italian
	Spanish
)

// BannerLanguages lists every language with a title in the banner.
var BannerLanguages = []BannerLanguage{Japanese, English, French, German, Italian, Spanish}

func (l BannerLanguage) String() string {
	switch l {
	case Japanese:
		return "japanese"
	case English:
		return "english"
	case French:
		return "french"
	case German:
		return "german"
	case Italian:
		return "italian"
	case Spanish:
		return "spanish"
	}
	return "unknown"
}

// BannerTitle is the title shown for one language. Lines are separated by '\n'.
type BannerTitle struct {
	Language string `yaml:"language"`
	Title    string `yaml:"title"`
}

// Banner holds the text part of the icon/banner region.
type Banner struct {
	Version uint16        `yaml:"version"`
	Titles  []BannerTitle `yaml:"titles"`
}

// DecodeBanner reads the version and all six titles.
func DecodeBanner(data []byte) (*Banner, error) {
	if len(data) < BannerSize {
		return nil, checkpoint.Wrapf(ErrFormat, "banner needs 0x%X bytes, got 0x%X", BannerSize, len(data))
	}

	banner := &Banner{Version: binary.LittleEndian.Uint16(data)}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	for _, l := range BannerLanguages {
		offset := bannerTitleOffset + int(l)*bannerTitleSize
		raw := data[offset : offset+bannerTitleSize]

		// The title ends at the first NUL character.
		for i := 0; i+1 < len(raw); i += 2 {
			if raw[i] == 0 && raw[i+1] == 0 {
				raw = raw[:i]
				break
			}
		}

		title, err := dec.Bytes(raw)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrFormat)
		}
		banner.Titles = append(banner.Titles, BannerTitle{Language: l.String(), Title: string(title)})
	}
	return banner, nil
}

// EncodeBannerTitle replaces the title of one language inside the banner data.
// The title has to fit into 0x100 bytes of UTF-16 including the terminating NUL.
func EncodeBannerTitle(data []byte, language BannerLanguage, title string) error {
	if len(data) < BannerSize {
		return checkpoint.Wrapf(ErrFormat, "banner needs 0x%X bytes, got 0x%X", BannerSize, len(data))
	}
	if language < Japanese || language > Spanish {
		return checkpoint.Wrapf(ErrUnsupported, "banner language %d", language)
	}

	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	raw, err := enc.Bytes([]byte(title))
	if err != nil {
		return checkpoint.From(err)
	}
	if len(raw) > bannerTitleSize-2 {
		return checkpoint.Wrapf(ErrUnsupported, "title needs 0x%X bytes, at most 0x%X fit", len(raw), bannerTitleSize-2)
	}

	offset := bannerTitleOffset + int(language)*bannerTitleSize
	field := data[offset : offset+bannerTitleSize]
	copy(field, bytes.Repeat([]byte{0}, bannerTitleSize))
	copy(field, raw)
	return nil
}

// Banner decodes the current banner.bin.
func (fs *Fs) Banner() (*Banner, error) {
	data, err := fs.ReadFile("/" + nameBanner)
	if err != nil {
		return nil, err
	}
	return DecodeBanner(data)
}

// SetBannerTitle stages a banner.bin with a new title for one language.
func (fs *Fs) SetBannerTitle(language BannerLanguage, title string) error {
	data, err := fs.ReadFile("/" + nameBanner)
	if err != nil {
		return err
	}
	if err := EncodeBannerTitle(data, language, title); err != nil {
		return err
	}
	return fs.WriteFile("/"+nameBanner, data)
}
