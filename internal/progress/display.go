// Package progress renders per-pass progress bars on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

// Bar is a shred.ProgressSink that redraws a single terminal line.
type Bar struct {
	out   io.Writer
	model bprogress.Model
	last  int
}

// NewBar returns a bar writing to out.
func NewBar(out io.Writer) *Bar {
	return &Bar{
		out:   out,
		model: bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(40)),
		last:  -1,
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Progress redraws the bar when the whole-percent value changes.
func (b *Bar) Progress(written, total int64) {
	pct := 1.0
	if total > 0 {
		pct = float64(written) / float64(total)
	}
	whole := int(pct * 100)
	if whole == b.last {
		return
	}
	b.last = whole
	fmt.Fprintf(b.out, "\r%s (%d/%d)", b.model.ViewAs(pct), written, total)
}

// PassDone clears the line.
func (b *Bar) PassDone() {
	if b.last >= 0 {
		fmt.Fprint(b.out, "\r\033[2K")
	}
	b.last = -1
}
