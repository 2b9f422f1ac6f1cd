package hf

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// percent converts a byte count into an integer percentage in [0,100].
// An unknown total reports 0.
func percent(downloaded, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int((downloaded*100 + total/2) / total)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// download streams one file into dest via a .partial sibling, emitting
// in-progress events as bytes arrive. It returns the bytes written.
func (l *Loader) download(ctx context.Context, modelID, revision, filename, dest string, sink ProgressSink) (int64, error) {
	resp, err := l.client.OpenFile(ctx, modelID, revision, filename)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}

	partialPath := dest + ".partial"
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	defer os.Remove(partialPath)
	defer file.Close()

	total := resp.ContentLength
	written := int64(0)
	buf := make([]byte, 32*1024)

	sink.OnProgress(ProgressEvent{Status: StatusInProgress, Percent: 0, File: filename, Size: total})

	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return 0, werr
			}
			written += int64(n)
			sink.OnProgress(ProgressEvent{
				Status:  StatusInProgress,
				Percent: percent(written, total),
				File:    filename,
				Size:    total,
			})
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	if err := file.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(partialPath, dest); err != nil {
		return 0, err
	}

	return written, nil
}
