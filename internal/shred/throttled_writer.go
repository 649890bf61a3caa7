package shred

import (
	"io"
	"time"
)

// ThrottledWriter caps the write rate on a File. Seek, Sync and Name pass through.
type ThrottledWriter struct {
	file         File
	maxSpeedMBps float64
	lastWrite    time.Time
	sleep        func(time.Duration)
}

// NewThrottledWriter wraps file. A maxSpeedMBps of zero or less disables throttling.
func NewThrottledWriter(file File, maxSpeedMBps float64) *ThrottledWriter {
	return &ThrottledWriter{
		file:         file,
		maxSpeedMBps: maxSpeedMBps,
		lastWrite:    time.Now(),
		sleep:        time.Sleep,
	}
}

// Write writes data, sleeping first if the previous write was too recent.
func (tw *ThrottledWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	if tw.maxSpeedMBps > 0 {
		bytesPerSec := tw.maxSpeedMBps * 1024 * 1024
		expected := time.Duration(float64(len(data)) / bytesPerSec * float64(time.Second))
		actual := time.Since(tw.lastWrite)
		if actual < expected {
			tw.sleep(expected - actual)
		}
	}

	n, err := tw.file.Write(data)
	tw.lastWrite = time.Now()
	return n, err
}

func (tw *ThrottledWriter) Seek(offset int64, whence int) (int64, error) {
	return tw.file.Seek(offset, whence)
}

func (tw *ThrottledWriter) Sync() error {
	return tw.file.Sync()
}

func (tw *ThrottledWriter) Name() string {
	return tw.file.Name()
}

var _ io.WriteSeeker = (*ThrottledWriter)(nil)
