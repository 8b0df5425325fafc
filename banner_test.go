package ndsfs

import (
	"strings"
	"testing"

	"github.com/aligator/ndsfs/internal/romtest"
	"gotest.tools/v3/assert"
)

func TestDecodeBanner(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    *Banner
		wantErr error
	}{
		{
			name: "synthetic banner",
			data: romtest.Banner(),
			want: &Banner{Version: 1, Titles: []BannerTitle{
				{Language: "japanese", Title: romtest.BannerTitle},
				{Language: "english", Title: romtest.BannerTitle},
				{Language: "french", Title: romtest.BannerTitle},
				{Language: "german", Title: romtest.BannerTitle},
				{Language: "italian", Title: romtest.BannerTitle},
				{Language: "spanish", Title: romtest.BannerTitle},
			}},
		},
		{
			name:    "too short",
			data:    make([]byte, BannerSize-1),
			wantErr: ErrFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBanner(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestEncodeBannerTitle(t *testing.T) {
	tests := []struct {
		name     string
		language BannerLanguage
		title    string
		wantErr  error
	}{
		{name: "ascii", language: English, title: "Hello\nWorld"},
		{name: "non ascii", language: Japanese, title: "ポケモン"},
		{name: "shorter than before", language: German, title: "x"},
		{name: "longest possible", language: Spanish, title: strings.Repeat("a", 0x7F)},
		{name: "too long", language: French, title: strings.Repeat("a", 0x80), wantErr: ErrUnsupported},
		{name: "unknown language", language: BannerLanguage(6), title: "x", wantErr: ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := romtest.Banner()

			err := EncodeBannerTitle(data, tt.language, tt.title)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NilError(t, err)

			banner, err := DecodeBanner(data)
			assert.NilError(t, err)
			for _, l := range BannerLanguages {
				want := romtest.BannerTitle
				if l == tt.language {
					want = tt.title
				}
				assert.Equal(t, banner.Titles[l].Title, want, l.String())
			}
		})
	}
}

func TestBannerLanguage_String(t *testing.T) {
	assert.Equal(t, Italian.String(), "italian")
	assert.Equal(t, BannerLanguage(-1).String(), "unknown")
}

func TestFs_SetBannerTitle(t *testing.T) {
	fs := testingNew(t, romtest.Options{})

	assert.NilError(t, fs.SetBannerTitle(English, "Edited"))

	banner, err := fs.Banner()
	assert.NilError(t, err)
	assert.Equal(t, banner.Titles[English].Title, "Edited")
	assert.Equal(t, banner.Titles[Japanese].Title, romtest.BannerTitle)

	// The edit is staged, the image is unchanged until saved.
	assert.Check(t, fs.FileExists("/banner.bin"))
	packed, err := DecodeBanner(romtest.Build(romtest.Options{})[romtest.BannerOffset:])
	assert.NilError(t, err)
	assert.Equal(t, packed.Titles[English].Title, romtest.BannerTitle)
}
