package checkpoint

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

var (
	errDescribing = errors.New("describing error")
	errCause      = errors.New("cause")
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantNil   bool
		wantExact error
	}{
		{name: "nil stays nil", err: nil, wantNil: true},
		{name: "io.EOF is not decorated", err: io.EOF, wantExact: io.EOF},
		{name: "io.ErrUnexpectedEOF is not decorated", err: io.ErrUnexpectedEOF, wantExact: io.ErrUnexpectedEOF},
		{name: "any other error gets a location", err: errCause},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if tt.wantNil {
				if got != nil {
					t.Errorf("From() = %v, want nil", got)
				}
				return
			}
			if tt.wantExact != nil {
				if got != tt.wantExact {
					t.Errorf("From() = %v, want %v", got, tt.wantExact)
				}
				return
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("From() = %v, does not wrap %v", got, tt.err)
			}
			if !strings.HasPrefix(got.Error(), "checkpoint_test.go:") {
				t.Errorf("From() = %q, want the caller location as prefix", got.Error())
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		prev    error
		err     error
		wantNil bool
		wantIs  []error
		wantNot []error
	}{
		{
			name:    "nil prev returns nil",
			prev:    nil,
			err:     errDescribing,
			wantNil: true,
		},
		{
			name:   "both sides are matchable",
			prev:   errCause,
			err:    errDescribing,
			wantIs: []error{errCause, errDescribing},
		},
		{
			name:    "nil describing error only matches the cause",
			prev:    errCause,
			err:     nil,
			wantIs:  []error{errCause},
			wantNot: []error{errDescribing},
		},
		{
			name:   "path errors stay matchable through the chain",
			prev:   &os.PathError{Op: "open", Path: "/x", Err: os.ErrNotExist},
			err:    errDescribing,
			wantIs: []error{os.ErrNotExist, errDescribing},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.prev, tt.err)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			for _, want := range tt.wantIs {
				if !errors.Is(got, want) {
					t.Errorf("Wrap() = %v, errors.Is(%v) = false", got, want)
				}
			}
			for _, notWant := range tt.wantNot {
				if errors.Is(got, notWant) {
					t.Errorf("Wrap() = %v, errors.Is(%v) = true", got, notWant)
				}
			}
		})
	}
}

func TestWrap_EOF(t *testing.T) {
	if got := Wrap(io.EOF, errDescribing); got != io.EOF {
		t.Errorf("Wrap(io.EOF) = %v, want io.EOF", got)
	}
}

func TestWrapf(t *testing.T) {
	got := Wrapf(errCause, "sub-table at 0x%X: %w", 0x40, errDescribing)
	if !errors.Is(got, errCause) {
		t.Errorf("Wrapf() = %v, does not wrap the cause", got)
	}
	if !errors.Is(got, errDescribing) {
		t.Errorf("Wrapf() = %v, does not match the %%w argument", got)
	}
	if !strings.Contains(got.Error(), "sub-table at 0x40") {
		t.Errorf("Wrapf() = %q, missing formatted detail", got.Error())
	}
}

func TestCheckpoint_As(t *testing.T) {
	var pathErr *os.PathError
	err := Wrap(errCause, &os.PathError{Op: "read", Path: "/y", Err: os.ErrClosed})
	if !errors.As(err, &pathErr) {
		t.Fatalf("errors.As() = false, want true")
	}
	if pathErr.Path != "/y" {
		t.Errorf("errors.As() path = %v, want /y", pathErr.Path)
	}
}
