package ndsfs

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
)

func TestMemoryBuffer(t *testing.T) {
	buf := NewMemoryBuffer([]byte("0123456789"))
	assert.Equal(t, buf.Len(), int64(10))
	assert.Check(t, buf.ConcurrentAccess())

	p := make([]byte, 4)
	n, err := buf.ReadAt(p, 3)
	assert.NilError(t, err)
	assert.Equal(t, n, 4)
	assert.Equal(t, string(p), "3456")

	n, err = buf.ReadAt(p, 8)
	assert.Equal(t, err, io.EOF)
	assert.Equal(t, n, 2)

	_, err = buf.ReadAt(p, -1)
	assert.ErrorIs(t, err, ErrRange)

	// Writing behind the end grows the buffer.
	n, err = buf.WriteAt([]byte("ab"), 12)
	assert.NilError(t, err)
	assert.Equal(t, n, 2)
	assert.DeepEqual(t, buf.Bytes(), []byte("0123456789\x00\x00ab"))

	assert.NilError(t, buf.Truncate(4))
	assert.DeepEqual(t, buf.Bytes(), []byte("0123"))

	// Growing again must not reveal old content.
	assert.NilError(t, buf.Truncate(8))
	assert.DeepEqual(t, buf.Bytes(), []byte("0123\x00\x00\x00\x00"))

	assert.ErrorIs(t, buf.Truncate(-1), ErrRange)
}

func TestFileBuffer(t *testing.T) {
	afs := afero.NewMemMapFs()
	assert.NilError(t, afero.WriteFile(afs, "/rom.nds", []byte("0123456789"), 0o644))

	buf, err := OpenFileBuffer(afs, "/rom.nds", os.O_RDWR)
	assert.NilError(t, err)
	defer buf.Close()

	// Only files of the OS filesystem may be accessed concurrently.
	assert.Check(t, !buf.ConcurrentAccess())
	assert.Equal(t, buf.Len(), int64(10))

	data, err := readRange(buf, 2, 3)
	assert.NilError(t, err)
	assert.DeepEqual(t, data, []byte("234"))

	assert.NilError(t, writeRange(buf, 8, []byte("xyz")))
	assert.Equal(t, buf.Len(), int64(11))
	assert.NilError(t, buf.Truncate(4))
	assert.Equal(t, buf.Len(), int64(4))
	assert.NilError(t, buf.Sync())

	_, err = OpenFileBuffer(afs, "/missing.nds", os.O_RDONLY)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func Test_readRange(t *testing.T) {
	tests := []struct {
		name    string
		offset  int64
		count   int64
		want    []byte
		wantErr error
	}{
		{name: "inside", offset: 1, count: 3, want: []byte("123")},
		{name: "nothing", offset: 10, count: 0, want: []byte{}},
		{name: "until the end", offset: 6, count: 4, want: []byte("6789")},
		{name: "behind the end", offset: 8, count: 4, wantErr: io.ErrUnexpectedEOF},
		{name: "negative offset", offset: -1, count: 4, wantErr: ErrRange},
		{name: "negative count", offset: 0, count: -4, wantErr: ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readRange(NewMemoryBuffer([]byte("0123456789")), tt.offset, tt.count)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func Test_writeRange(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	failing := errors.New("disk full")

	buf := NewMockBuffer(mockCtrl)
	gomock.InOrder(
		buf.EXPECT().WriteAt([]byte("abc"), int64(4)).Return(3, nil),
		buf.EXPECT().WriteAt([]byte("abc"), int64(4)).Return(1, nil),
		buf.EXPECT().WriteAt([]byte("abc"), int64(4)).Return(0, failing),
	)

	assert.NilError(t, writeRange(buf, 4, []byte("abc")))
	assert.ErrorIs(t, writeRange(buf, 4, []byte("abc")), io.ErrShortWrite)
	assert.ErrorIs(t, writeRange(buf, 4, []byte("abc")), failing)
	assert.ErrorIs(t, writeRange(buf, -4, []byte("abc")), ErrRange)
}

func Test_readUint32(t *testing.T) {
	buf := NewMemoryBuffer([]byte{0x21, 0x06, 0xC0, 0xDE, 0xFF})

	got, err := readUint32(buf, 0)
	assert.NilError(t, err)
	assert.Equal(t, got, uint32(arm9FooterMarker))

	_, err = readUint32(buf, 2)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
