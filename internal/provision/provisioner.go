package provision

import (
	"context"
	"fmt"
	"io"

	"github.com/nchapman/prefetch/internal/hf"
	"github.com/nchapman/prefetch/internal/logs"
	"github.com/nchapman/prefetch/internal/ui"
)

const bannerTitle = "Pre-downloading AI models"

// Provisioner runs the cache-check and fetch pass over Models.
type Provisioner struct {
	Models  []ModelSpec
	Cache   CacheResolver
	Loader  Loader
	Out     io.Writer
	NewSink SinkFactory
}

func New(models []ModelSpec, cache CacheResolver, loader Loader, out io.Writer) *Provisioner {
	return &Provisioner{
		Models: models,
		Cache:  cache,
		Loader: loader,
		Out:    out,
		NewSink: func() hf.ProgressSink {
			return ui.NewProgressPrinter(out)
		},
	}
}

// Run processes every spec in order and prints a summary. Fetch failures are
// counted, never returned.
func (p *Provisioner) Run(ctx context.Context) RunSummary {
	var summary RunSummary

	fmt.Fprintln(p.Out, ui.Banner(bannerTitle))
	fmt.Fprintln(p.Out)

	for _, spec := range p.Models {
		if p.provisionOne(ctx, spec) {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	fmt.Fprintln(p.Out)
	fmt.Fprintf(p.Out, "%s Summary: Downloaded: %d | Failed: %d\n", ui.IconSummary, summary.Succeeded, summary.Failed)
	if summary.Failed > 0 {
		fmt.Fprintf(p.Out, "%s  %s\n", ui.IconWarning, ui.Warning("Some models failed to download. They will be downloaded on first use."))
	}

	logs.Debug("provisioning finished", "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary
}

func (p *Provisioner) provisionOne(ctx context.Context, spec ModelSpec) bool {
	fmt.Fprintf(p.Out, "%s %s\n", ui.IconPackage, ui.Header(spec.Description))
	fmt.Fprintf(p.Out, "   Model:     %s\n", spec.Model)
	fmt.Fprintf(p.Out, "   Task:      %s\n", spec.Task)
	fmt.Fprintf(p.Out, "   Precision: %s\n", spec.DType)

	if IsCached(p.Cache, spec.Model) {
		fmt.Fprintf(p.Out, "   %s %s\n\n", ui.IconCheck, ui.Success("Model already cached, skipping download"))
		return true
	}

	fmt.Fprintln(p.Out, "   "+ui.Muted("Downloading..."))

	var sink hf.ProgressSink
	if p.NewSink != nil {
		sink = p.NewSink()
	}

	ok := Fetch(ctx, p.Loader, spec, sink, p.Out)
	if ok {
		fmt.Fprintf(p.Out, "   %s %s\n", ui.IconCheck, ui.Success(spec.Model+" ready"))
	}
	fmt.Fprintln(p.Out)
	return ok
}
