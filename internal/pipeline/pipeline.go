// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the per-file conversion state machine: upload the
// document for provider-side conversion, export the stored copy as PDF,
// write it locally, delete the remote copy. One file's failure never halts
// the batch; an authentication failure aborts it.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/driveconv/internal/drive"
	"github.com/pdiddy/driveconv/pkg/types"
)

// Converter is the remote conversion client the driver runs against.
// drive.Client implements it.
type Converter interface {
	// UploadAndConvert stores the document remotely in its provider-native
	// format and returns the created object.
	UploadAndConvert(ctx context.Context, src types.SourceFile) (types.RemoteObject, error)

	// ExportPDF renders the stored document as PDF.
	ExportPDF(ctx context.Context, obj types.RemoteObject) (io.ReadCloser, error)

	// Delete removes the stored document. Best-effort for callers.
	Delete(ctx context.Context, obj types.RemoteObject) error
}

// Recorder persists one finished run per file. history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, rec types.Record) error
}

// Driver coordinates the pipeline for a sequence of source files. It holds
// read-only capabilities handed in at construction time.
type Driver struct {
	client   Converter
	cfg      types.PipelineConfig
	recorder Recorder // nil disables history recording
	w        io.Writer
}

// NewDriver builds a driver reporting per-file progress to w. recorder may
// be nil.
func NewDriver(client Converter, cfg types.PipelineConfig, recorder Recorder, w io.Writer) *Driver {
	return &Driver{client: client, cfg: cfg, recorder: recorder, w: w}
}

// BatchResult summarizes a pipeline run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// result is the outcome of one file's run.
type result struct {
	state  types.JobState
	output string
	remote types.RemoteObject
	err    error
}

// Run consumes sources until the channel closes or ctx is cancelled,
// processing one file at a time in arrival order. It returns early with an
// error on an authentication failure, since no further file could proceed.
// The batch summary is printed when the source sequence ends.
func (d *Driver) Run(ctx context.Context, sources <-chan types.SourceFile) (BatchResult, error) {
	var batch BatchResult
	for {
		select {
		case <-ctx.Done():
			return batch, ctx.Err()
		case src, ok := <-sources:
			if !ok {
				fmt.Fprintf(d.w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
					batch.Converted, batch.Failed, batch.Total())
				return batch, nil
			}

			res := d.processFile(ctx, src)
			if res.err == nil {
				batch.Converted++
			} else {
				batch.Failed++
			}

			if drive.IsAuth(res.err) {
				return batch, fmt.Errorf("authentication failed, aborting run: %w", res.err)
			}
		}
	}
}

// processFile walks one file through the state machine and reports its
// outcome to the progress writer and the recorder.
func (d *Driver) processFile(ctx context.Context, src types.SourceFile) result {
	res := d.convert(ctx, src)

	name := filepath.Base(src.Path)
	if res.err != nil {
		fmt.Fprintf(d.w, "failed:  %s (%v)\n", name, res.err)
	} else {
		fmt.Fprintf(d.w, "converted: %s -> %s\n", name, res.output)
	}

	d.record(ctx, src, res)
	return res
}

// convert runs the state machine for one file:
// Pending → Uploaded → Converted → Cleaned, with Errored absorbing any
// failure. A remote object created along the way is always deleted before
// returning, success or failure.
func (d *Driver) convert(ctx context.Context, src types.SourceFile) (res result) {
	res.state = types.StatePending
	res.output = d.outputPath(src)

	obj, err := d.client.UploadAndConvert(ctx, src)
	if err != nil {
		return d.errored(ctx, res, err)
	}
	res.state = types.StateUploaded
	res.remote = obj

	if err := d.export(ctx, obj, res.output); err != nil {
		return d.errored(ctx, res, err)
	}
	res.state = types.StateConverted

	// Best-effort cleanup: a failure here is reported but does not undo an
	// otherwise successful conversion.
	if err := d.client.Delete(ctx, obj); err != nil {
		fmt.Fprintf(d.w, "  warning: could not delete remote copy of %s: %v\n",
			filepath.Base(src.Path), err)
	}
	res.state = types.StateCleaned

	if err := d.disposeSource(src); err != nil {
		fmt.Fprintf(d.w, "  warning: %v\n", err)
	}
	return res
}

// errored transitions into the absorbing failure state, deleting the remote
// object when one was created.
func (d *Driver) errored(ctx context.Context, res result, err error) result {
	if res.remote.ID != "" {
		if derr := d.client.Delete(ctx, res.remote); derr != nil {
			fmt.Fprintf(d.w, "  warning: could not delete remote copy %s: %v\n", res.remote.ID, derr)
		}
	}
	res.state = types.StateErrored
	res.err = err
	res.output = ""
	return res
}

// export downloads the PDF rendition of obj into outPath, writing through a
// temp file and renaming on success so a partial download never becomes
// output.
func (d *Driver) export(ctx context.Context, obj types.RemoteObject, outPath string) error {
	body, err := d.client.ExportPDF(ctx, obj)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing PDF: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// outputPath maps a source document to its PDF destination: same base name,
// .pdf extension, under the output directory.
func (d *Driver) outputPath(src types.SourceFile) string {
	base := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	return filepath.Join(d.cfg.OutputDir, base+".pdf")
}

// disposeSource applies the configured post-success disposal to the source
// document.
func (d *Driver) disposeSource(src types.SourceFile) error {
	switch d.cfg.SourceDisposal {
	case types.DisposalDelete:
		if err := os.Remove(src.Path); err != nil {
			return fmt.Errorf("could not delete source %s: %w", src.Path, err)
		}
	case types.DisposalMove:
		dir := filepath.Join(filepath.Dir(src.Path), "processed")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create %s: %w", dir, err)
		}
		dest := filepath.Join(dir, filepath.Base(src.Path))
		if err := os.Rename(src.Path, dest); err != nil {
			return fmt.Errorf("could not move source to %s: %w", dest, err)
		}
	}
	return nil
}

// record persists the finished run; recorder failures are reported, never
// fatal.
func (d *Driver) record(ctx context.Context, src types.SourceFile, res result) {
	if d.recorder == nil || !res.state.Terminal() {
		return
	}
	rec := types.Record{
		Source:     src.Path,
		Output:     res.output,
		RemoteID:   res.remote.ID,
		State:      res.state,
		FinishedAt: time.Now().UTC(),
	}
	if res.err != nil {
		rec.Error = res.err.Error()
	}
	if err := d.recorder.Record(ctx, rec); err != nil {
		fmt.Fprintf(d.w, "  warning: could not record history: %v\n", err)
	}
}
