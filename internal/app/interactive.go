package app

import (
	"fmt"
	"io"
	"os"

	"fileshred/internal/shred"
)

// StdinConfirmer prompts on stderr and reads answers from stdin. A single
// reader is shared by every prompt so piped answers are consumed in order.
func StdinConfirmer() shred.Confirmer {
	return shred.LineConfirmer(os.Stdin, os.Stderr)
}

// WriterWarner prints validator advisories to w.
func WriterWarner(w io.Writer) func(path, msg string) {
	return func(_, msg string) {
		fmt.Fprintln(w, msg)
	}
}
