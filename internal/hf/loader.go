package hf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nchapman/prefetch/internal/fileutil"
	"github.com/nchapman/prefetch/internal/logs"
)

// ProgressStatus distinguishes streaming updates from per-file completion.
type ProgressStatus string

const (
	StatusInProgress ProgressStatus = "in-progress"
	StatusComplete   ProgressStatus = "complete"
)

// ProgressEvent describes download progress for one repository file.
// Percent is clamped to [0,100] and only meaningful while in progress.
type ProgressEvent struct {
	Status  ProgressStatus
	Percent int
	File    string
	Size    int64
}

// ProgressSink receives events synchronously from inside Load.
type ProgressSink interface {
	OnProgress(ProgressEvent)
	OnComplete(ProgressEvent)
}

// LoadOptions mirrors the parameters a pipeline is constructed with.
type LoadOptions struct {
	Task   string
	Model  string
	DType  string
	Device string
}

const DeviceCPU = "cpu"

var supportedTasks = map[string]bool{
	"feature-extraction":       true,
	"sentence-similarity":      true,
	"text-classification":      true,
	"zero-shot-classification": true,
	"token-classification":     true,
	"question-answering":       true,
	"fill-mask":                true,
	"summarization":            true,
	"translation":              true,
	"text-generation":          true,
	"text2text-generation":     true,
}

var dtypeSuffixes = map[string]string{
	"fp32":  "",
	"fp16":  "_fp16",
	"q8":    "_quantized",
	"int8":  "_int8",
	"uint8": "_uint8",
	"q4":    "_q4",
	"q4f16": "_q4f16",
	"bnb4":  "_bnb4",
}

type repoFile struct {
	name     string
	optional bool
}

// RepoFolderName returns the hub cache directory name for a model id,
// e.g. "Xenova/all-MiniLM-L6-v2" -> "models--Xenova--all-MiniLM-L6-v2".
func RepoFolderName(modelID string) string {
	return "models--" + strings.ReplaceAll(modelID, "/", "--")
}

// WeightsFile returns the ONNX weights path for a precision tag.
func WeightsFile(dtype string) (string, error) {
	suffix, ok := dtypeSuffixes[dtype]
	if !ok {
		return "", fmt.Errorf("unsupported dtype: %s", dtype)
	}
	return "onnx/model" + suffix + ".onnx", nil
}

// resolveFiles lists the repository files a pipeline needs for opts.
func resolveFiles(opts LoadOptions) ([]repoFile, error) {
	if !supportedTasks[opts.Task] {
		return nil, fmt.Errorf("unsupported pipeline: %s", opts.Task)
	}
	if opts.Device != "" && opts.Device != DeviceCPU {
		return nil, fmt.Errorf("unsupported device: %s", opts.Device)
	}
	if strings.Count(opts.Model, "/") != 1 || strings.HasPrefix(opts.Model, "/") || strings.HasSuffix(opts.Model, "/") {
		return nil, fmt.Errorf("model id must be in format namespace/name: %s", opts.Model)
	}
	weights, err := WeightsFile(opts.DType)
	if err != nil {
		return nil, err
	}
	return []repoFile{
		{name: "config.json"},
		{name: "tokenizer.json"},
		{name: "tokenizer_config.json", optional: true},
		{name: weights},
	}, nil
}

// Loader fetches pipeline files from the hub into the hub cache layout:
// <hubDir>/models--ns--name/{refs/main,snapshots/<sha>/...}.
type Loader struct {
	client *Client
	hubDir string
}

func NewLoader(client *Client, hubDir string) *Loader {
	return &Loader{
		client: client,
		hubDir: hubDir,
	}
}

// Load downloads every file required by opts, reporting to sink (which may be nil).
// On failure the repository folder is removed if this call created it.
func (l *Loader) Load(ctx context.Context, opts LoadOptions, sink ProgressSink) (err error) {
	if sink == nil {
		sink = nopSink{}
	}

	files, err := resolveFiles(opts)
	if err != nil {
		return err
	}

	info, err := l.client.GetModel(ctx, opts.Model)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusNotFound:
				return fmt.Errorf("model %s not found on the hub", opts.Model)
			case http.StatusUnauthorized, http.StatusForbidden:
				if !l.client.HasToken() {
					return fmt.Errorf("model %s is private or gated; set HF_TOKEN to download it", opts.Model)
				}
				return fmt.Errorf("access to model %s denied (HTTP %d); check that HF_TOKEN can read it", opts.Model, httpErr.StatusCode)
			}
		}
		return fmt.Errorf("failed to get model info: %w", err)
	}

	if err := checkAccess(info, opts, files, l.client.HasToken()); err != nil {
		return err
	}

	revision := info.SHA
	if revision == "" {
		revision = "main"
	}

	repoDir := filepath.Join(l.hubDir, RepoFolderName(opts.Model))
	if _, statErr := os.Stat(repoDir); os.IsNotExist(statErr) {
		defer func() {
			if err != nil {
				os.RemoveAll(repoDir)
			}
		}()
	}

	snapshotDir := filepath.Join(repoDir, "snapshots", revision)
	for _, f := range files {
		if f.optional && !info.HasFile(f.name) {
			logs.Debug("optional file not in repository", "model", opts.Model, "file", f.name)
			continue
		}
		dest := filepath.Join(snapshotDir, filepath.FromSlash(f.name))
		size, err := l.download(ctx, opts.Model, revision, f.name, dest, sink)
		if err != nil {
			var httpErr *HTTPError
			if f.optional && errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
				logs.Debug("optional file not in repository", "model", opts.Model, "file", f.name)
				continue
			}
			return fmt.Errorf("failed to download %s: %w", f.name, err)
		}
		sink.OnComplete(ProgressEvent{Status: StatusComplete, Percent: 100, File: f.name, Size: size})
	}

	refPath := filepath.Join(repoDir, "refs", "main")
	if err := fileutil.AtomicWriteFile(refPath, []byte(revision), 0644); err != nil {
		return fmt.Errorf("failed to write ref: %w", err)
	}

	logs.Info("model cached", "model", opts.Model, "revision", revision, "path", snapshotDir)
	return nil
}

// checkAccess fails fast on repositories the loader cannot complete: gated
// or private without a token, or missing a required file.
func checkAccess(info *ModelInfo, opts LoadOptions, files []repoFile, hasToken bool) error {
	if !hasToken {
		switch {
		case bool(info.Gated):
			return fmt.Errorf("model %s is gated; set HF_TOKEN to download it", opts.Model)
		case info.Private:
			return fmt.Errorf("model %s is private; set HF_TOKEN to download it", opts.Model)
		}
	}

	if info.PipelineTag != "" && info.PipelineTag != opts.Task {
		logs.Warn("task differs from the repository's pipeline tag", "model", opts.Model, "task", opts.Task, "pipeline_tag", info.PipelineTag)
	}

	for _, f := range files {
		if f.optional || info.HasFile(f.name) {
			continue
		}
		if strings.HasPrefix(f.name, "onnx/") {
			return fmt.Errorf("model %s does not publish %s weights (%s)", opts.Model, opts.DType, f.name)
		}
		return fmt.Errorf("model %s is missing %s", opts.Model, f.name)
	}
	return nil
}

type nopSink struct{}

func (nopSink) OnProgress(ProgressEvent) {}
func (nopSink) OnComplete(ProgressEvent) {}
