package ndsfs

import (
	"encoding/binary"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/aligator/ndsfs/checkpoint"
	"github.com/spf13/afero"
)

// Buffer is the random access storage an image is read from and written to.
// Generated mock using mockgen:
//  mockgen -source=buffer.go -destination=buffer_mock.go -package ndsfs
type Buffer interface {
	// ReadAt behaves like io.ReaderAt.
	ReadAt(p []byte, off int64) (int, error)
	// WriteAt behaves like io.WriterAt and grows the buffer if needed.
	WriteAt(p []byte, off int64) (int, error)
	// Len returns the current length in bytes.
	Len() int64
	// Truncate resizes the buffer. Growing fills with zeros.
	Truncate(size int64) error
	// ConcurrentAccess reports whether ReadAt and WriteAt may be called from several goroutines at once.
	ConcurrentAccess() bool
}

func checkRange(offset, count int64) error {
	if offset < 0 || count < 0 {
		return checkpoint.Wrapf(ErrRange, "offset %d, count %d", offset, count)
	}
	return nil
}

// readRange reads exactly count bytes at offset.
func readRange(b Buffer, offset, count int64) ([]byte, error) {
	if err := checkRange(offset, count); err != nil {
		return nil, err
	}

	data := make([]byte, count)
	if count == 0 {
		return data, nil
	}

	n, err := b.ReadAt(data, offset)
	if n == len(data) {
		return data, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, checkpoint.Wrapf(err, "read %d bytes at 0x%X, got %d", count, offset, n)
}

func writeRange(b Buffer, offset int64, data []byte) error {
	if err := checkRange(offset, int64(len(data))); err != nil {
		return err
	}

	n, err := b.WriteAt(data, offset)
	if err != nil {
		return checkpoint.Wrapf(err, "write %d bytes at 0x%X", len(data), offset)
	}
	if n != len(data) {
		return checkpoint.Wrapf(io.ErrShortWrite, "write %d bytes at 0x%X, wrote %d", len(data), offset, n)
	}
	return nil
}

func readUint32(b Buffer, offset int64) (uint32, error) {
	data, err := readRange(b, offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// MemoryBuffer keeps a whole image in memory.
// It is safe for concurrent use.
type MemoryBuffer struct {
	lock sync.RWMutex
	data []byte
}

// NewMemoryBuffer creates a buffer which takes over data.
func NewMemoryBuffer(data []byte) *MemoryBuffer {
	return &MemoryBuffer{data: data}
}

// Bytes returns a copy of the current content.
func (b *MemoryBuffer) Bytes() []byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	result := make([]byte, len(b.data))
	copy(result, b.data)
	return result
}

func (b *MemoryBuffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, checkpoint.Wrap(syscall.EINVAL, ErrRange)
	}

	b.lock.RLock()
	defer b.lock.RUnlock()

	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}

	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *MemoryBuffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, checkpoint.Wrap(syscall.EINVAL, ErrRange)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	end := off + int64(len(p))
	if end > int64(len(b.data)) {
		b.resize(end)
	}
	return copy(b.data[off:], p), nil
}

func (b *MemoryBuffer) Len() int64 {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return int64(len(b.data))
}

func (b *MemoryBuffer) Truncate(size int64) error {
	if size < 0 {
		return checkpoint.Wrap(syscall.EINVAL, ErrRange)
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	b.resize(size)
	return nil
}

func (b *MemoryBuffer) resize(size int64) {
	if size <= int64(cap(b.data)) {
		old := len(b.data)
		b.data = b.data[:size]
		// The capacity may still hold bytes from before a shrink.
		for i := old; i < len(b.data); i++ {
			b.data[i] = 0
		}
		return
	}

	grown := make([]byte, size)
	copy(grown, b.data)
	b.data = grown
}

func (b *MemoryBuffer) ConcurrentAccess() bool {
	return true
}

// FileBuffer accesses an image through an afero.File.
// Files of the OS filesystem support concurrent positional reads and writes,
// all others are serialized.
type FileBuffer struct {
	lock       sync.Mutex
	file       afero.File
	concurrent bool
}

// NewFileBuffer wraps an already opened file.
func NewFileBuffer(file afero.File) *FileBuffer {
	_, isOSFile := file.(*os.File)
	return &FileBuffer{
		file:       file,
		concurrent: isOSFile,
	}
}

// OpenFileBuffer opens name on the given filesystem.
func OpenFileBuffer(fs afero.Fs, name string, flag int) (*FileBuffer, error) {
	file, err := fs.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return NewFileBuffer(file), nil
}

func (b *FileBuffer) ReadAt(p []byte, off int64) (int, error) {
	if !b.concurrent {
		b.lock.Lock()
		defer b.lock.Unlock()
	}
	return b.file.ReadAt(p, off)
}

func (b *FileBuffer) WriteAt(p []byte, off int64) (int, error) {
	if !b.concurrent {
		b.lock.Lock()
		defer b.lock.Unlock()
	}
	return b.file.WriteAt(p, off)
}

func (b *FileBuffer) Len() int64 {
	if !b.concurrent {
		b.lock.Lock()
		defer b.lock.Unlock()
	}

	stat, err := b.file.Stat()
	if err != nil {
		return 0
	}
	return stat.Size()
}

func (b *FileBuffer) Truncate(size int64) error {
	if size < 0 {
		return checkpoint.Wrap(syscall.EINVAL, ErrRange)
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	return b.file.Truncate(size)
}

func (b *FileBuffer) ConcurrentAccess() bool {
	return b.concurrent
}

// Sync flushes the underlying file.
func (b *FileBuffer) Sync() error {
	return b.file.Sync()
}

func (b *FileBuffer) Close() error {
	return b.file.Close()
}
