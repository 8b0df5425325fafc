package ndsfs

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultMountName is the top level directory the nitrofs data tree is visible at.
const DefaultMountName = "data"

type options struct {
	mountName   string
	staging     afero.Fs
	tempStaging afero.Fs
	log         *logrus.Entry
	sequential  bool
}

// Option configures an Fs.
type Option func(*options)

// WithMountName changes the name of the data directory.
func WithMountName(name string) Option {
	return func(o *options) {
		o.mountName = name
	}
}

// WithStaging keeps pending edits on the given filesystem instead of in memory.
func WithStaging(fs afero.Fs) Option {
	return func(o *options) {
		o.staging = fs
	}
}

// WithTempStaging keeps pending edits in a temporary directory of base,
// e.g. afero.NewOsFs(). The directory is removed by Fs.Close.
func WithTempStaging(base afero.Fs) Option {
	return func(o *options) {
		o.tempStaging = base
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithSequential disables all parallel work even if the buffer supports it.
func WithSequential() Option {
	return func(o *options) {
		o.sequential = true
	}
}

func newOptions(opts []Option) options {
	o := options{
		mountName: DefaultMountName,
		log:       logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
