// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watch reports when Elm modules are added to or removed from a
// project's source directories.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/petar-djukic/elmsym/internal/catalog"
)

// DefaultDebounce is the quiet period after the last change before
// onChange runs.
const DefaultDebounce = 200 * time.Millisecond

// Watch watches dirs and their subdirectories until ctx is done. Creating,
// removing, or renaming an .elm file or a directory calls onChange once the
// tree has been quiet for debounce. Directories created while watching are
// watched too. A non-positive debounce uses DefaultDebounce.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating file watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range dirs {
		if err := addTree(ctx, w, dir); err != nil {
			return err
		}
	}
	slogctx.Debug(ctx, "watching source directories", "dirs", dirs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := addTree(ctx, w, ev.Name); err != nil {
					slogctx.Warn(ctx, "cannot watch new directory", "dir", ev.Name, "error", err)
				}
			}
			if !Relevant(ev) {
				continue
			}
			slogctx.Debug(ctx, "source tree changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slogctx.Warn(ctx, "file watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}

// Relevant reports whether ev can change the set of modules in a project.
// Writes are ignored; only files and directories appearing or disappearing
// count.
func Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if catalog.SkipDir(base) {
		return false
	}
	return filepath.Ext(base) == ".elm" || filepath.Ext(base) == ""
}

// addTree watches root and every directory below it that module discovery
// would descend into.
func addTree(ctx context.Context, w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slogctx.Debug(ctx, "skipping unwatchable path", "path", path, "error", err)
			if path == root {
				return errors.Errorf("watching %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && catalog.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
