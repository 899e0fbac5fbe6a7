package cli

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Progress prints a one-line counter while a batch of documents is being
// processed. Output goes to stderr so stdout stays machine-readable.
type Progress struct {
	w     io.Writer
	total int64
	done  atomic.Int64
	label string
}

// NewProgress creates a counter over total items. A nil writer defaults to
// os.Stderr.
func NewProgress(w io.Writer, label string, total int) *Progress {
	if w == nil {
		w = os.Stderr
	}
	return &Progress{w: w, label: label, total: int64(total)}
}

// Step records one completed item and redraws the line.
func (p *Progress) Step() {
	n := p.done.Add(1)
	fmt.Fprintf(p.w, "\r%s %d/%d", p.label, n, p.total)
}

// Done terminates the progress line.
func (p *Progress) Done() {
	fmt.Fprint(p.w, "\n")
}
