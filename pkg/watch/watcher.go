/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package watch re-runs a job whenever one of a set of files changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultDebounce = 500 * time.Millisecond

// RunFunc is the job run on every change.
type RunFunc func(ctx context.Context) error

type Options struct {
	// Files are the files to watch. Their directories are watched so that
	// files replaced by editors are still followed.
	Files []string

	Debounce time.Duration
	Log      zerolog.Logger
}

// Run runs fn once, then again after every burst of changes to the
// watched files, until ctx is cancelled. Runs never overlap.
func Run(ctx context.Context, opts Options, fn RunFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	files := make(map[string]struct{}, len(opts.Files))
	dirs := make(map[string]struct{})
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", f)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return errors.Wrapf(err, "watching %s", d)
		}
	}

	var running sync.Mutex
	run := func(trigger string) {
		running.Lock()
		defer running.Unlock()

		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := fn(ctx); err != nil {
			opts.Log.Error().Err(err).Str("trigger", trigger).Msg("run failed")
			return
		}
		opts.Log.Info().Str("trigger", trigger).Dur("elapsed", time.Since(start)).Msg("run complete")
	}

	run("(initial)")

	debouncer := NewDebouncer(opts.Debounce, run)
	defer debouncer.Stop()

	opts.Log.Info().Strs("files", opts.Files).Dur("debounce", opts.Debounce).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, files) {
				continue
			}
			opts.Log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change")
			debouncer.Trigger(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Log.Error().Err(err).Msg("watcher error")
		}
	}
}

func relevant(event fsnotify.Event, files map[string]struct{}) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := files[abs]
	return ok
}
