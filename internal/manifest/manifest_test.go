// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package manifest

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		tree     map[string]string
		file     string
		wantRoot string
		wantDirs []string
	}{
		{
			name: "elm 0.19 application",
			tree: map[string]string{
				"/app/elm.json":          `{"type": "application", "source-directories": ["src", "vendor/ui"]}`,
				"/app/src/Page/Home.elm": "module Page.Home exposing (..)",
			},
			file:     "/app/src/Page/Home.elm",
			wantRoot: "/app",
			wantDirs: []string{"src", "vendor/ui"},
		},
		{
			name: "elm 0.19 package defaults to src",
			tree: map[string]string{
				"/pkg/elm.json":    `{"type": "package", "name": "author/pkg"}`,
				"/pkg/src/Lib.elm": "module Lib exposing (..)",
			},
			file:     "/pkg/src/Lib.elm",
			wantRoot: "/pkg",
			wantDirs: []string{"src"},
		},
		{
			name: "elm 0.18 project",
			tree: map[string]string{
				"/old/elm-package.json": `{"version": "1.0.0", "source-directories": ["."]}`,
				"/old/Main.elm":         "module Main exposing (..)",
			},
			file:     "/old/Main.elm",
			wantRoot: "/old",
			wantDirs: []string{"."},
		},
		{
			name: "nearest manifest wins",
			tree: map[string]string{
				"/mono/elm.json":              `{"source-directories": ["shared"]}`,
				"/mono/apps/web/elm.json":     `{"source-directories": ["src", "../../shared"]}`,
				"/mono/apps/web/src/Main.elm": "module Main exposing (..)",
			},
			file:     "/mono/apps/web/src/Main.elm",
			wantRoot: "/mono/apps/web",
			wantDirs: []string{"src", "../../shared"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := writeFiles(t, tt.tree)

			m, err := Load(fs, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, m.Root)
			assert.Equal(t, tt.wantDirs, m.SourceDirectories)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	fs := writeFiles(t, map[string]string{"/loose/Main.elm": "module Main exposing (..)"})

	_, err := Load(fs, "/loose/Main.elm")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrManifestNotFound))
}

func TestRead_Invalid(t *testing.T) {
	fs := writeFiles(t, map[string]string{"/bad/elm.json": `{"source-directories": [`})

	_, err := Read(fs, "/bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrManifestInvalid))
}

func TestRead_NoManifest(t *testing.T) {
	_, err := Read(afero.NewMemMapFs(), "/empty")
	assert.True(t, errors.Is(err, ErrManifestNotFound))
}
