package shred

import (
	"io"

	"go.uber.org/zap"
)

// File is the handle an Engine overwrites. *os.File satisfies it.
type File interface {
	io.Writer
	io.Seeker
	Sync() error
	Name() string
}

// Engine performs overwrite passes against an open file.
type Engine struct {
	bufferSize   int
	maxSpeedMBps float64
	progress     ProgressSink
	logger       *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBufferSize overrides DefaultBufferSize. Non-positive sizes are ignored.
func WithBufferSize(size int) EngineOption {
	return func(e *Engine) {
		if size > 0 {
			e.bufferSize = size
		}
	}
}

// WithMaxSpeed throttles writes to maxSpeedMBps; zero means unlimited.
func WithMaxSpeed(maxSpeedMBps float64) EngineOption {
	return func(e *Engine) { e.maxSpeedMBps = maxSpeedMBps }
}

// WithProgress attaches a progress sink.
func WithProgress(sink ProgressSink) EngineOption {
	return func(e *Engine) {
		if sink != nil {
			e.progress = sink
		}
	}
}

// WithEngineLogger sets the logger; nil keeps the no-op logger.
func WithEngineLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.Named("engine")
		}
	}
}

// NewEngine creates an engine with a 4 KiB buffer and no progress reporting.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		bufferSize: DefaultBufferSize,
		progress:   nopSink{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BufferSize returns the chunk size used for every write.
func (e *Engine) BufferSize() int { return e.bufferSize }

// Overwrite writes exactly size bytes of mode-filled content over f starting
// at offset 0 and then syncs f. Either the whole pass including the sync
// succeeds or an *Error of kind KindIO is returned.
func (e *Engine) Overwrite(f File, size int64, mode FillMode) error {
	if size < 0 {
		size = 0
	}

	var w File = f
	if e.maxSpeedMBps > 0 {
		w = NewThrottledWriter(f, e.maxSpeedMBps)
	}

	buf := newPassBuffer(e.bufferSize, mode)
	bufLen := int64(len(buf))

	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return ioError(OpSeek, f.Name(), err)
	}

	var written int64
	chunks := 0
	for written+bufLen <= size {
		if err := writeFull(w, buf); err != nil {
			return ioError(OpWrite, f.Name(), err)
		}
		written += bufLen
		chunks++
		e.progress.Progress(written, size)
	}

	if remaining := size - written; remaining > 0 {
		if err := writeFull(w, buf[:remaining]); err != nil {
			return ioError(OpWrite, f.Name(), err)
		}
		written += remaining
		e.progress.Progress(written, size)
	}

	if err := w.Sync(); err != nil {
		return ioError(OpSync, f.Name(), err)
	}
	e.progress.PassDone()

	e.logger.Debug("Pass complete",
		zap.String("path", f.Name()),
		zap.String("mode", string(mode)),
		zap.Int64("bytes", written),
		zap.Int("full_chunks", chunks))

	return nil
}

func writeFull(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return io.ErrShortWrite
	}
	return nil
}
