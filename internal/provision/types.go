package provision

import (
	"context"

	"github.com/nchapman/prefetch/internal/hf"
)

// ModelSpec describes one model to provision.
type ModelSpec struct {
	Task        string
	Model       string
	DType       string
	Description string
}

// RunSummary tallies one run. Succeeded includes cache hits.
type RunSummary struct {
	Succeeded int
	Failed    int
}

// Total returns the number of specs processed.
func (s RunSummary) Total() int {
	return s.Succeeded + s.Failed
}

// Loader fetches the files behind a model. *hf.Loader implements it.
type Loader interface {
	Load(ctx context.Context, opts hf.LoadOptions, sink hf.ProgressSink) error
}

// SinkFactory creates a fresh progress sink for each fetch.
type SinkFactory func() hf.ProgressSink
