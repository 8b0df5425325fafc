package ndsfs

import (
	"sync"
	"sync/atomic"

	"github.com/aligator/ndsfs/checkpoint"
	"github.com/spf13/afero"
)

// counter counts finished units of concurrent work.
type counter struct {
	n int64
}

// inc adds one and returns the new count.
func (c *counter) inc() int {
	return int(atomic.AddInt64(&c.n, 1))
}

// dirGuard creates destination directories once, shared by all extraction units.
type dirGuard struct {
	lock    sync.RWMutex
	target  afero.Fs
	created map[string]bool
}

func (g *dirGuard) ensure(dir string) error {
	g.lock.RLock()
	done := g.created[dir]
	g.lock.RUnlock()
	if done {
		return nil
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	// Another unit may have created it in the meantime.
	if g.created[dir] {
		return nil
	}
	if err := g.target.MkdirAll(dir, 0o755); err != nil {
		return checkpoint.From(err)
	}
	g.created[dir] = true
	return nil
}

// Extract copies every visible file, including staged edits, below dir on target,
// keeping the virtual layout. Empty directories are created as well.
// Files are copied in parallel if the buffer supports concurrent access.
func (fs *Fs) Extract(target afero.Fs, dir string, reporter ProgressReporter) error {
	if reporter == nil {
		reporter = NopReporter{}
	}

	files, err := fs.GetFiles("/", "*", false)
	if err != nil {
		return err
	}
	dirs, err := fs.GetDirectories("/", "*", false)
	if err != nil {
		return err
	}

	guard := &dirGuard{target: target, created: make(map[string]bool)}
	if err := guard.ensure(dir); err != nil {
		return err
	}
	for _, d := range dirs {
		if err := guard.ensure(joinPath(dir, d)); err != nil {
			return err
		}
	}

	var extracted counter
	err = fs.runner().run(len(files), func(i int) error {
		destination := joinPath(dir, files[i])
		if err := guard.ensure(parentPath(destination)); err != nil {
			return err
		}

		data, err := fs.ReadFile(files[i])
		if err != nil {
			return err
		}
		if err := afero.WriteFile(target, destination, data, 0o644); err != nil {
			return checkpoint.From(err)
		}

		fs.log.WithField("path", files[i]).Debug("extracted")
		reporter.Report(Progress{
			Processed: extracted.inc(),
			Total:     len(files),
			Message:   "extracting files",
		})
		return nil
	})
	if err != nil {
		return err
	}

	reporter.Report(Progress{
		Processed: len(files),
		Total:     len(files),
		Message:   "extracted",
		Done:      true,
	})
	return nil
}
