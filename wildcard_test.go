package ndsfs

import (
	"testing"

	"gotest.tools/v3/assert"
)

func Test_wildcardPattern(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{pattern: "*", name: "anything.bin", want: true},
		{pattern: "", name: "anything.bin", want: true},
		{pattern: "*.bin", name: "arm9.bin", want: true},
		{pattern: "*.bin", name: "arm9.bin.bak", want: false},
		{pattern: "over*_00??.bin", name: "overlay_0001.bin", want: true},
		{pattern: "over*_00??.bin", name: "overlay_001.bin", want: false},
		{pattern: "?", name: "a", want: true},
		{pattern: "?", name: "ab", want: false},
		{pattern: "README.*", name: "readme.txt", want: true},
		{pattern: "a+b(c).[x]", name: "a+b(c).[x]", want: true},
		{pattern: "a+b(c).[x]", name: "aab(c).[x]", want: false},
		{pattern: "*line*", name: "first\nline", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.name, func(t *testing.T) {
			re, err := wildcardPattern(tt.pattern)
			assert.NilError(t, err)
			assert.Equal(t, re.MatchString(tt.name), tt.want)
		})
	}
}
