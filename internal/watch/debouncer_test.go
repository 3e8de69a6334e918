package watch

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_TriggerAfterStopIgnored(t *testing.T) {
	var callCount atomic.Int32

	d := NewDebouncer(20*time.Millisecond, nil, func(_ string) {
		callCount.Add(1)
	})

	d.Stop()
	d.Trigger("jobs.csv")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), callCount.Load())
}

func TestDebouncer_RecoversFromPanic(t *testing.T) {
	var callCount atomic.Int32

	logs := new(syncBuffer)
	logger := slog.New(slog.NewTextHandler(logs, nil))

	d := NewDebouncer(20*time.Millisecond, logger, func(_ string) {
		callCount.Add(1)
		panic("boom")
	})
	defer d.Stop()

	d.Trigger("jobs.csv")
	time.Sleep(80 * time.Millisecond)

	d.Trigger("jobs.csv")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(2), callCount.Load())
	assert.Contains(t, logs.String(), "debouncer callback panicked")
	assert.Contains(t, logs.String(), "path=jobs.csv")
}
