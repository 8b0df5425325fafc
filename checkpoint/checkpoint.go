// Package checkpoint decorates errors with the location they passed through,
// which results in something similar to a stacktrace.
// Both sides of a checkpoint can be checked with errors.Is and retrieved by errors.As:
// the describing error added at the checkpoint and the error it wraps.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
)

// From wraps an error into a new checkpoint which only adds caller information.
// It returns nil, if err == nil.
func From(err error) error {
	if passThrough(err) {
		return err
	}

	return newCheckpoint(err, nil)
}

// Wrap adds a checkpoint to prev which is further described by err.
// Returns nil if prev == nil. If err is nil, the checkpoint only carries caller information.
//
// This allows to predefine some errors and use them later:
//  var ErrSomethingSpecialWentWrong = errors.New("a very bad error")
//
//  func someFunction() error {
//  	err := somethingOtherThatThrowsErrors()
//  	return checkpoint.Wrap(err, ErrSomethingSpecialWentWrong)
//  }
// errors.Is(err, ErrSomethingSpecialWentWrong) then reports true as well as
// errors.Is for whatever somethingOtherThatThrowsErrors returned.
func Wrap(prev, err error) error {
	if passThrough(prev) {
		return prev
	}

	return newCheckpoint(prev, err)
}

// Wrapf is like Wrap but builds the describing error from a format string.
// The format may use %w to make further errors matchable by errors.Is.
func Wrapf(prev error, format string, args ...interface{}) error {
	if passThrough(prev) {
		return prev
	}

	return newCheckpoint(prev, fmt.Errorf(format, args...))
}

// passThrough reports errors which must never be decorated.
// io.EOF and io.ErrUnexpectedEOF must be returned directly, see
// https://github.com/golang/go/issues/39155
func passThrough(err error) bool {
	return err == nil || err == io.EOF || err == io.ErrUnexpectedEOF
}

func newCheckpoint(prev, err error) *checkpoint {
	// Skip newCheckpoint and the exported function calling it.
	_, file, line, ok := runtime.Caller(2)

	location := "unknown"
	if ok {
		location = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	return &checkpoint{
		err:      err,
		prev:     prev,
		location: location,
	}
}

type checkpoint struct {
	err  error
	prev error

	location string
}

func (e *checkpoint) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %v", e.location, e.prev)
	}
	return fmt.Sprintf("%s: %v: %v", e.location, e.err, e.prev)
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	if e.err == nil {
		return false
	}
	return errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	if e.err == nil {
		return false
	}
	return errors.As(e.err, target)
}
