package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nchapman/prefetch/internal/hf"
)

// BarWidth is the number of cells in a download bar.
const BarWidth = 30

// FilledWidth returns how many of the BarWidth cells are filled at percent.
func FilledWidth(percent int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent * BarWidth / 100
}

// Bar renders a fixed-width bar of filled and empty block cells.
func Bar(percent int) string {
	filled := FilledWidth(percent)
	return strings.Repeat("█", filled) + strings.Repeat("░", BarWidth-filled)
}

// ProgressPrinter draws hf.ProgressEvents as a single line redrawn in place.
// It implements hf.ProgressSink.
type ProgressPrinter struct {
	w           io.Writer
	lastPercent int
	lastFile    string
}

func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{
		w:           w,
		lastPercent: -1,
	}
}

func (p *ProgressPrinter) OnProgress(e hf.ProgressEvent) {
	if e.Percent == p.lastPercent && e.File == p.lastFile {
		return
	}
	p.lastPercent = e.Percent
	p.lastFile = e.File

	fmt.Fprintf(p.w, "\r\033[K   [%s] %3d%% %s", Bar(e.Percent), e.Percent, e.File)
}

func (p *ProgressPrinter) OnComplete(e hf.ProgressEvent) {
	fmt.Fprintln(p.w)
	if e.Size > 0 {
		fmt.Fprintf(p.w, "   %s Downloaded %s (%s)\n", IconCheck, e.File, humanize.Bytes(uint64(e.Size)))
	} else {
		fmt.Fprintf(p.w, "   %s Downloaded %s\n", IconCheck, e.File)
	}
	p.lastPercent = -1
	p.lastFile = ""
}
