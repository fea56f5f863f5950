// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{name: "new module", ev: fsnotify.Event{Name: "src/Page.elm", Op: fsnotify.Create}, want: true},
		{name: "removed module", ev: fsnotify.Event{Name: "src/Page.elm", Op: fsnotify.Remove}, want: true},
		{name: "renamed module", ev: fsnotify.Event{Name: "src/Page.elm", Op: fsnotify.Rename}, want: true},
		{name: "new directory", ev: fsnotify.Event{Name: "src/Page", Op: fsnotify.Create}, want: true},
		{name: "edited module", ev: fsnotify.Event{Name: "src/Page.elm", Op: fsnotify.Write}, want: false},
		{name: "other file", ev: fsnotify.Event{Name: "src/notes.md", Op: fsnotify.Create}, want: false},
		{name: "build output", ev: fsnotify.Event{Name: "elm-stuff", Op: fsnotify.Create}, want: false},
		{name: "hidden file", ev: fsnotify.Event{Name: "src/.Page.elm.swp", Op: fsnotify.Create}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relevant(tt.ev))
		})
	}
}

func TestWatch_NewModuleTriggersChange(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Page")
	require.NoError(t, os.Mkdir(sub, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, 20*time.Millisecond, func() { calls.Add(1) })
	}()

	// Give the watcher time to register before touching the tree.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "Home.elm"), []byte("module Page.Home exposing (..)\n"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, 0, func() {})
	assert.Error(t, err)
}
