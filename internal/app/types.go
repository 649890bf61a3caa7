package app

import (
	"time"
)

// Status values for a FileOperation.
const (
	StatusCompleted = "COMPLETED"
	StatusRejected  = "REJECTED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
	StatusSkipped   = "SKIPPED"
	StatusPending   = "PENDING"
)

// FileOperation records what happened to one target during a run.
type FileOperation struct {
	ID           string
	Path         string
	Size         int64
	Passes       int
	ZeroPass     bool
	Remove       string
	Removed      bool
	Status       string
	StartTime    time.Time
	EndTime      *time.Time
	BytesWritten uint64
	Error        string
	ErrorKind    string
	// Residual is set when the file survived removal under a random name.
	Residual string
}

func (op *FileOperation) finish(status string) {
	op.Status = status
	now := time.Now()
	op.EndTime = &now
}
