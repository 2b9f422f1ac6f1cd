package provision

import (
	"context"
	"fmt"
	"io"

	"github.com/nchapman/prefetch/internal/hf"
	"github.com/nchapman/prefetch/internal/logs"
	"github.com/nchapman/prefetch/internal/ui"
)

// Fetch loads spec on the CPU device, reporting progress to sink. Any error
// or panic from the loader is printed to out and reported as false.
func Fetch(ctx context.Context, loader Loader, spec ModelSpec, sink hf.ProgressSink, out io.Writer) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(out, "\n   %s %s\n", ui.IconCross, ui.ErrorMsg(fmt.Sprintf("Failed to download: %v", r)))
			logs.Warn("loader panicked", "model", spec.Model, "panic", r)
			ok = false
		}
	}()

	err := loader.Load(ctx, hf.LoadOptions{
		Task:   spec.Task,
		Model:  spec.Model,
		DType:  spec.DType,
		Device: hf.DeviceCPU,
	}, sink)
	if err != nil {
		fmt.Fprintf(out, "\n   %s %s\n", ui.IconCross, ui.ErrorMsg("Failed to download: "+err.Error()))
		logs.Debug("fetch failed", "model", spec.Model, "error", err)
		return false
	}

	return true
}
