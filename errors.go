package ndsfs

import (
	"errors"
	"os"

	"github.com/aligator/ndsfs/checkpoint"
)

// These errors classify every failure reported by the package.
// All of them are wrapped using checkpoint, so check them with errors.Is.
var (
	// ErrFormat reports a structurally invalid image, e.g. a too short header or a
	// filename table sub-table with the invalid length 0x80.
	ErrFormat = errors.New("invalid rom structure")
	// ErrNotFound reports an unresolvable virtual path.
	// Errors matching it also match os.ErrNotExist.
	ErrNotFound = errors.New("path not found")
	// ErrUnsupported reports a configuration the rebuild cannot handle,
	// e.g. an image without any overlay table.
	ErrUnsupported = errors.New("unsupported rom configuration")
	// ErrRange reports negative offsets or lengths.
	ErrRange = errors.New("offset or length out of range")
)

func notFound(op, path string) error {
	return checkpoint.Wrap(&os.PathError{Op: op, Path: path, Err: os.ErrNotExist}, ErrNotFound)
}

func pathError(op, path string, err error) error {
	return checkpoint.From(&os.PathError{Op: op, Path: path, Err: err})
}
