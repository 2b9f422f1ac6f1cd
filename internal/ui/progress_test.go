package ui

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nchapman/prefetch/internal/hf"
)

func TestFilledWidth(t *testing.T) {
	tests := []struct {
		percent int
		want    int
	}{
		{-5, 0},
		{0, 0},
		{3, 0},
		{4, 1},
		{30, 9},
		{50, 15},
		{99, 29},
		{100, 30},
		{150, 30},
	}

	for _, tt := range tests {
		if got := FilledWidth(tt.percent); got != tt.want {
			t.Errorf("FilledWidth(%d) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}

func TestFilledWidthMonotonic(t *testing.T) {
	prev := FilledWidth(0)
	for p := 1; p <= 100; p++ {
		got := FilledWidth(p)
		if got < prev {
			t.Fatalf("FilledWidth(%d) = %d < FilledWidth(%d) = %d", p, got, p-1, prev)
		}
		prev = got
	}
}

func TestBar(t *testing.T) {
	for _, p := range []int{0, 30, 100} {
		bar := Bar(p)
		if n := utf8.RuneCountInString(bar); n != BarWidth {
			t.Errorf("Bar(%d) has %d cells, want %d", p, n, BarWidth)
		}
		if n := strings.Count(bar, "█"); n != FilledWidth(p) {
			t.Errorf("Bar(%d) has %d filled cells, want %d", p, n, FilledWidth(p))
		}
	}
}

func TestProgressPrinterSkipsUnchanged(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressPrinter(&buf)

	p.OnProgress(hf.ProgressEvent{Status: hf.StatusInProgress, Percent: 30, File: "onnx/model.onnx"})
	first := buf.Len()
	p.OnProgress(hf.ProgressEvent{Status: hf.StatusInProgress, Percent: 30, File: "onnx/model.onnx"})

	if buf.Len() != first {
		t.Error("identical event should not redraw")
	}

	p.OnProgress(hf.ProgressEvent{Status: hf.StatusInProgress, Percent: 30, File: "tokenizer.json"})
	if buf.Len() == first {
		t.Error("file change should redraw")
	}

	out := buf.String()
	if strings.Contains(out, "\n") {
		t.Errorf("progress redraws must not emit newlines: %q", out)
	}
	if strings.Count(out, "\r") != 2 {
		t.Errorf("expected 2 redraws, got %q", out)
	}
	if !strings.Contains(out, strings.Repeat("█", 9)+strings.Repeat("░", 21)) {
		t.Errorf("expected 9 filled cells at 30%%: %q", out)
	}
}

func TestProgressPrinterComplete(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressPrinter(&buf)

	p.OnProgress(hf.ProgressEvent{Status: hf.StatusInProgress, Percent: 100, File: "onnx/model.onnx"})
	p.OnComplete(hf.ProgressEvent{Status: hf.StatusComplete, Percent: 100, File: "onnx/model.onnx", Size: 90_000_000})

	out := buf.String()
	if !strings.Contains(out, "\n   ✅ Downloaded onnx/model.onnx (90 MB)\n") {
		t.Errorf("unexpected completion output: %q", out)
	}

	// After completion the same percent for a new file draws again.
	buf.Reset()
	p.OnProgress(hf.ProgressEvent{Status: hf.StatusInProgress, Percent: 100, File: "onnx/model.onnx"})
	if buf.Len() == 0 {
		t.Error("first event after completion should draw")
	}
}

func TestProgressPrinterCompleteWithoutSize(t *testing.T) {
	var buf bytes.Buffer
	NewProgressPrinter(&buf).OnComplete(hf.ProgressEvent{Status: hf.StatusComplete, File: "config.json"})

	if buf.String() != "\n   ✅ Downloaded config.json\n" {
		t.Errorf("output = %q", buf.String())
	}
}
