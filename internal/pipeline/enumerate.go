// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/driveconv/internal/drive"
	"github.com/pdiddy/driveconv/pkg/types"
)

// Enumerate scans dir, non-recursively, for documents with a supported
// extension. Entries come back in filename order.
func Enumerate(dir string) ([]types.SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var files []types.SourceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if src, ok := drive.NewSourceFile(filepath.Join(dir, entry.Name())); ok {
			files = append(files, src)
		}
	}
	return files, nil
}

// FromPaths builds source files from explicitly named paths. Paths with an
// unsupported extension are reported to w and dropped, not treated as
// errors.
func FromPaths(paths []string, w io.Writer) []types.SourceFile {
	var files []types.SourceFile
	for _, p := range paths {
		src, ok := drive.NewSourceFile(p)
		if !ok {
			fmt.Fprintf(w, "skipped: %s (unsupported extension)\n", p)
			continue
		}
		files = append(files, src)
	}
	return files
}

// Feed exposes a finite file list as the same channel shape the watcher
// produces, so batch and watch mode share one driver entry point.
func Feed(files []types.SourceFile) <-chan types.SourceFile {
	ch := make(chan types.SourceFile, len(files))
	for _, f := range files {
		ch <- f
	}
	close(ch)
	return ch
}
