// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/driveconv/internal/auth"
	"github.com/pdiddy/driveconv/internal/drive"
	"github.com/pdiddy/driveconv/internal/history"
	"github.com/pdiddy/driveconv/internal/httputil"
	"github.com/pdiddy/driveconv/internal/pipeline"
	"github.com/pdiddy/driveconv/internal/watch"
	"github.com/pdiddy/driveconv/pkg/types"
)

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, cleanup, err := buildDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var sources <-chan types.SourceFile
	switch {
	case len(args) > 0:
		sources = pipeline.Feed(pipeline.FromPaths(args, os.Stdout))

	case cfg.Pipeline.WatchMode:
		watcher, err := watch.New(cfg.Pipeline.InputDir, os.Stderr)
		if err != nil {
			return err
		}
		go watcher.Run(ctx)
		fmt.Fprintf(os.Stderr, "Watching %s for new documents (interrupt to stop)\n", cfg.Pipeline.InputDir)
		sources = watcher.Files()

	default:
		files, err := pipeline.Enumerate(cfg.Pipeline.InputDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "No convertible documents in %s\n", cfg.Pipeline.InputDir)
			return nil
		}
		sources = pipeline.Feed(files)
	}

	batch, err := driver.Run(ctx, sources)
	if errors.Is(err, context.Canceled) {
		// Interrupt during watch mode is a clean shutdown.
		return nil
	}
	if err != nil {
		return err
	}
	if batch.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", batch.Failed)
	}
	return nil
}

// buildDriver assembles the credential provider, the retrying remote client,
// and the optional history ledger into a pipeline driver.
func buildDriver(ctx context.Context, cfg types.Config) (*pipeline.Driver, func(), error) {
	provider, err := auth.NewProvider(cfg.Drive.CredentialsPath, cfg.Drive.TokenPath)
	if err != nil {
		return nil, nil, err
	}

	hc, err := provider.Client(ctx, &httputil.RetryTransport{MaxRetries: cfg.Drive.MaxRetries})
	if err != nil {
		return nil, nil, err
	}
	hc.Timeout = cfg.Drive.Timeout

	client, err := drive.New(ctx, hc, cfg.Drive)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var recorder pipeline.Recorder
	if cfg.History.DBPath != "" {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			return nil, nil, err
		}
		recorder = store
		cleanup = func() { store.Close() }
	}

	return pipeline.NewDriver(client, cfg.Pipeline, recorder, os.Stdout), cleanup, nil
}
