package app

import (
	"context"
	"errors"

	"go.trai.ch/recipe/internal/adapters/detector"
	"go.trai.ch/recipe/internal/adapters/watcher"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Watch runs the aggregate registered as name once, then again whenever the
// content of its watched files changes. Run failures are logged and watching
// continues. Watch returns when ctx is cancelled.
func (a *App) Watch(ctx context.Context, name string, opts RunOptions) error {
	mode, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return err
	}
	// One interactive program per rerun would fight over the terminal.
	if mode == detector.ModeAuto {
		mode = detector.ModeLinear
	}
	if opts.Debug {
		a.logger.SetDebug(true)
	}

	setup, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	agg, err := setup.Registry.Lookup(name)
	if err != nil {
		return err
	}

	sets := watcher.WatchSets(agg)
	if len(sets) == 0 {
		a.logger.Warn("no watch or source globs in graph, watching every file", "aggregate", name)
		sets = []watcher.FileSet{{Dir: ".", Patterns: []string{"**"}}}
	}

	last, err := a.fingerprinter.Fingerprint(setup.Root, sets)
	if err != nil {
		return err
	}

	a.runAndReport(ctx, agg, mode, opts.Concurrency)

	if err := a.watcher.Start(ctx, setup.Root); err != nil {
		return zerr.With(errors.Join(domain.ErrWatchFailed, err), "root", setup.Root)
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func([]string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info("watching for changes", "aggregate", name, "root", setup.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
		}

		current, err := a.fingerprinter.Fingerprint(setup.Root, sets)
		if err != nil {
			a.logger.Error(err)
			continue
		}
		if current == last {
			a.logger.Debug("watched files unchanged", "aggregate", name)
			continue
		}
		last = current
		a.runAndReport(ctx, agg, mode, opts.Concurrency)
	}
}

func (a *App) runAndReport(ctx context.Context, agg *domain.Aggregate, mode detector.OutputMode, concurrency int) {
	if err := a.runAggregate(ctx, agg, mode, concurrency); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}
