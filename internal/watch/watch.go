// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch turns filesystem creation events into the same source-file
// sequence the one-shot enumerator produces, so both feed one pipeline
// driver. Events are debounced per path: a document is queued only after
// writes to it have settled.
package watch

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/driveconv/internal/drive"
	"github.com/pdiddy/driveconv/pkg/types"
)

// SettleDelay is how long a path must stay quiet after its last
// Create/Write event before it is queued. Tests override this.
var SettleDelay = 500 * time.Millisecond

// Watcher observes one directory, non-recursively, and emits a SourceFile
// for every supported document that appears in it.
type Watcher struct {
	fsw *fsnotify.Watcher
	out chan types.SourceFile
	w   io.Writer

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New starts watching dir. Watch errors are reported to w.
func New(dir string, w io.Writer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		fsw:    fsw,
		out:    make(chan types.SourceFile),
		w:      w,
		timers: map[string]*time.Timer{},
	}, nil
}

// Files is the event sequence consumed by the pipeline driver. It closes
// when Run returns.
func (w *Watcher) Files() <-chan types.SourceFile {
	return w.out
}

// Run pumps filesystem events until ctx is cancelled. It owns the emit
// channel and the underlying watcher; both are released on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.out)
	defer w.fsw.Close()

	ready := make(chan string)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			if !drive.Supported(ev.Name) {
				continue
			}
			w.bump(ctx, ev.Name, ready)

		case path := <-ready:
			w.mu.Lock()
			delete(w.timers, path)
			w.mu.Unlock()

			if src, ok := drive.NewSourceFile(path); ok {
				select {
				case w.out <- src:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.w, "watch error: %v\n", err)
		}
	}
}

// bump restarts the settle timer for path. When the timer fires with no
// further events the path is handed to the ready channel.
func (w *Watcher) bump(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(SettleDelay, func() {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}
