package shred

// ProgressSink observes a pass. Implementations must not affect the pass;
// a nil sink is valid and means no reporting.
type ProgressSink interface {
	// Progress is called after every chunk write with a monotonically
	// increasing written count bounded by total.
	Progress(written, total int64)
	// PassDone is called once the pass and its durability barrier succeeded.
	PassDone()
}

type nopSink struct{}

func (nopSink) Progress(int64, int64) {}
func (nopSink) PassDone()             {}
