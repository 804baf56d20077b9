// Package progress reports batch page rendering to the terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter follows a batch of page renders. Done is called once per page,
// in order; Finish once at the end whether or not the batch completed.
type Reporter interface {
	Start(pages int)
	Done(urlPath string)
	Finish()
}

// NewReporter writes to w: a progress bar, or one line per page when
// running under CI (CI or GITHUB_ACTIONS set).
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{Out: w}
	}
	return &BarReporter{Out: w}
}

// BarReporter draws a progress bar labelled with the last rendered page.
type BarReporter struct {
	Out io.Writer
	bar *progressbar.ProgressBar
}

func (r *BarReporter) Start(pages int) {
	r.bar = progressbar.NewOptions(pages,
		progressbar.OptionSetDescription("Rendering pages"),
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Done(urlPath string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(urlPath)
	_ = r.bar.Add(1)
}

func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints a numbered line per rendered page and a summary with
// the elapsed time.
type LineReporter struct {
	Out   io.Writer
	total int
	done  int
	start time.Time
	now   func() time.Time
}

func (r *LineReporter) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *LineReporter) Start(pages int) {
	r.total, r.done = pages, 0
	r.start = r.clock()
	fmt.Fprintf(r.Out, "rendering %d pages\n", pages)
}

func (r *LineReporter) Done(urlPath string) {
	r.done++
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", r.done, r.total, urlPath)
}

func (r *LineReporter) Finish() {
	elapsed := r.clock().Sub(r.start).Round(time.Millisecond)
	fmt.Fprintf(r.Out, "rendered %d of %d pages in %s\n", r.done, r.total, elapsed)
}
