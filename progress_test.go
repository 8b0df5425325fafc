package ndsfs

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"
)

func TestProgress_Percent(t *testing.T) {
	tests := []struct {
		name     string
		progress Progress
		want     float64
	}{
		{name: "start", progress: Progress{Processed: 0, Total: 4}, want: 0},
		{name: "half", progress: Progress{Processed: 2, Total: 4}, want: 50},
		{name: "done", progress: Progress{Processed: 4, Total: 4, Done: true}, want: 100},
		{name: "empty running", progress: Progress{}, want: 0},
		{name: "empty done", progress: Progress{Done: true}, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.progress.Percent(), tt.want)
		})
	}
}

func TestLogReporter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	r := LogReporter{Log: logrus.NewEntry(logger)}
	r.Report(Progress{Processed: 1, Total: 2, Message: "writing files"})
	r.Report(Progress{Processed: 2, Total: 2, Message: "saved", Done: true})

	entries := hook.AllEntries()
	assert.Equal(t, len(entries), 2)

	assert.Equal(t, entries[0].Level, logrus.DebugLevel)
	assert.Equal(t, entries[0].Message, "writing files")
	assert.Equal(t, entries[0].Data["processed"], 1)
	assert.Equal(t, entries[0].Data["total"], 2)

	assert.Equal(t, entries[1].Level, logrus.InfoLevel)
	assert.Equal(t, entries[1].Message, "saved")
	assert.Equal(t, entries[1].Data["percent"], float64(100))
}

func TestProgressBar(t *testing.T) {
	bar := NewProgressBar()
	bar.Report(Progress{Processed: 1, Total: 2, Message: "extracting files"})
	bar.Report(Progress{Processed: 2, Total: 2, Message: "extracting files"})
	bar.Report(Progress{Processed: 2, Total: 2, Message: "extracted", Done: true})

	assert.Equal(t, bar.bar.Current(), int64(2))
	assert.Equal(t, bar.bar.Total(), int64(2))
	assert.Check(t, bar.bar.IsFinished())
}

func TestNopReporter(t *testing.T) {
	var r ProgressReporter = NopReporter{}
	r.Report(Progress{Done: true})
}
