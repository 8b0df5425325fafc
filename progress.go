package ndsfs

import (
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Progress is one change notification of a long running operation.
type Progress struct {
	Processed int
	Total     int
	Message   string
	Done      bool
}

// Percent returns Processed/Total in percent. Empty operations are at 100 once done.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		if p.Done {
			return 100
		}
		return 0
	}
	return float64(p.Processed) * 100 / float64(p.Total)
}

// ProgressReporter receives the progress of Save and Extract.
// Report may be called from several goroutines at once.
// Generated mock using mockgen:
//  mockgen -source=progress.go -destination=progress_mock.go -package ndsfs
type ProgressReporter interface {
	Report(p Progress)
}

// NopReporter drops every notification.
type NopReporter struct{}

func (NopReporter) Report(Progress) {}

// LogReporter writes every notification as debug log, the final one as info.
type LogReporter struct {
	Log *logrus.Entry
}

func (r LogReporter) Report(p Progress) {
	entry := r.Log.WithFields(logrus.Fields{
		"processed": p.Processed,
		"total":     p.Total,
		"percent":   p.Percent(),
	})
	if p.Done {
		entry.Info(p.Message)
		return
	}
	entry.Debug(p.Message)
}

// ProgressBar renders notifications as terminal progress bar on stderr.
type ProgressBar struct {
	lock sync.Mutex
	bar  *pb.ProgressBar
}

// NewProgressBar creates a bar which only animates if stderr is a terminal.
func NewProgressBar() *ProgressBar {
	bar := pb.New(0)
	if showProgress() {
		bar.SetTemplateString(`{{string . "message"}} {{counters . }} {{bar . | green }} {{percent .}}`)
		bar.SetRefreshRate(200 * time.Millisecond)
	} else {
		bar.Set(pb.Static, true)
	}
	bar.SetWidth(80)

	return &ProgressBar{bar: bar}
}

func (b *ProgressBar) Report(p Progress) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if !b.bar.IsStarted() && !p.Done {
		b.bar.Start()
	}

	b.bar.SetTotal(int64(p.Total))
	b.bar.SetCurrent(int64(p.Processed))
	b.bar.Set("message", p.Message)

	if p.Done && b.bar.IsStarted() {
		b.bar.Finish()
	}
}

func showProgress() bool {
	// Progress supports only text format for now.
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.TextFormatter); !ok {
		return false
	}

	// Both logrus and pb use stderr by default.
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
