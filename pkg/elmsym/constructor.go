// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package elmsym

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/afero"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/petar-djukic/elmsym/internal/catalog"
	"github.com/petar-djukic/elmsym/internal/definition"
	"github.com/petar-djukic/elmsym/internal/manifest"
	"github.com/petar-djukic/elmsym/internal/outline"
	"github.com/petar-djukic/elmsym/internal/resolve"
	"github.com/petar-djukic/elmsym/internal/watch"
	"github.com/petar-djukic/elmsym/internal/workspace"
	"github.com/petar-djukic/elmsym/pkg/types"
)

const (
	defaultImportStrategy = "dynamicLookup"
	defaultMaxScanWindow  = 10
)

// New validates the config and returns a ready-to-use Engine. No files are
// read until the first query.
func New(cfg Config) (Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)

	strategy, _ := types.ParseImportStrategy(cfg.ImportStrategy)
	cache := catalog.NewCache(cfg.Fs, cfg.Concurrency)

	return &engineAdapter{
		cfg:   cfg,
		fs:    cfg.Fs,
		cache: cache,
		resolver: resolve.New(cfg.Fs, resolve.Options{
			Concurrency: cfg.Concurrency,
			Cache:       cache,
		}),
		project: types.ProjectConfig{
			SourceDirectories:           cfg.SourceDirectories,
			ImportStrategy:              strategy,
			IncludeParamsInAutocomplete: cfg.IncludeParamsInAutocomplete,
			MaxScanWindow:               cfg.MaxScanWindow,
		},
		indexes: make(map[string]*workspace.Index),
	}, nil
}

// engineAdapter adapts the internal resolver, definition provider, and
// workspace index to the public Engine interface.
type engineAdapter struct {
	cfg      Config
	fs       afero.Fs
	cache    *catalog.Cache
	resolver *resolve.Engine
	project  types.ProjectConfig

	mu      sync.Mutex
	indexes map[string]*workspace.Index // By project root
}

func (a *engineAdapter) Query(ctx context.Context, q types.QueryContext) ([]types.SymbolCandidate, error) {
	if !a.cfg.UserProjectIntellisense {
		return nil, nil
	}
	return a.resolver.Query(ctx, q, a.project)
}

func (a *engineAdapter) Definition(ctx context.Context, fileName string, lines []string, word string) (*types.Location, error) {
	m, err := a.manifest(fileName)
	if err != nil {
		slogctx.Warn(ctx, "no project manifest, cannot resolve definition", "file", fileName, "error", err)
		return nil, nil
	}
	table, _, err := a.index(m).Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return definition.New(table).Definition(ctx, lines, word)
}

func (a *engineAdapter) Symbols(ctx context.Context, fileName string, query string) ([]types.Location, error) {
	m, err := a.manifest(fileName)
	if err != nil {
		return nil, err
	}
	return a.index(m).Search(ctx, query)
}

func (a *engineAdapter) Outline(ctx context.Context, fileName string) ([]Symbol, error) {
	content, err := afero.ReadFile(a.fs, fileName)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", fileName, err)
	}
	return outline.Extract(ctx, content)
}

func (a *engineAdapter) Modules(ctx context.Context, fileName string) ([]types.ModuleRecord, error) {
	m, err := a.manifest(fileName)
	if err != nil {
		return nil, err
	}
	return catalog.Discover(ctx, a.fs, m.Root, a.sourceDirs(m), a.cfg.Concurrency).Modules(), nil
}

func (a *engineAdapter) Watch(ctx context.Context, fileName string) error {
	m, err := a.manifest(fileName)
	if err != nil {
		return err
	}
	dirs := make([]string, 0, len(a.sourceDirs(m)))
	for _, dir := range a.sourceDirs(m) {
		dirs = append(dirs, filepath.Join(m.Root, dir))
	}
	return watch.Watch(ctx, dirs, watch.DefaultDebounce, func() {
		slogctx.Info(ctx, "source tree changed, module list reset", "root", m.Root)
		a.cache.ResetRoot(m.Root)
	})
}

func (a *engineAdapter) Reset() {
	a.cache.Reset()
}

// manifest loads the manifest of the project containing fileName, which
// may also be a directory. The path is made absolute so cache keys and
// reported paths are stable.
func (a *engineAdapter) manifest(fileName string) (*manifest.Manifest, error) {
	if abs, err := filepath.Abs(fileName); err == nil {
		fileName = abs
	}
	if ok, _ := afero.IsDir(a.fs, fileName); ok {
		fileName = filepath.Join(fileName, manifest.ElmJSON)
	}
	m, err := manifest.Load(a.fs, fileName)
	if err != nil {
		return nil, errors.Errorf("%w: %v", ErrNoProject, err)
	}
	return m, nil
}

func (a *engineAdapter) sourceDirs(m *manifest.Manifest) []string {
	if len(a.cfg.SourceDirectories) > 0 {
		return a.cfg.SourceDirectories
	}
	return m.SourceDirectories
}

// index returns the workspace index of a project, creating it on first use.
func (a *engineAdapter) index(m *manifest.Manifest) *workspace.Index {
	a.mu.Lock()
	defer a.mu.Unlock()
	ix, ok := a.indexes[m.Root]
	if !ok {
		ix = workspace.NewIndex(a.fs, a.cache, m.Root, a.sourceDirs(m), a.cfg.Concurrency)
		a.indexes[m.Root] = ix
	}
	return ix
}

// validateConfig checks field values that have no sensible correction.
func validateConfig(cfg Config) error {
	if cfg.ImportStrategy != "" {
		if _, err := types.ParseImportStrategy(cfg.ImportStrategy); err != nil {
			return err
		}
	}
	if cfg.MaxScanWindow < 0 {
		return errors.Errorf("MaxScanWindow must not be negative, got %d", cfg.MaxScanWindow)
	}
	if cfg.Concurrency < 0 {
		return errors.Errorf("Concurrency must not be negative, got %d", cfg.Concurrency)
	}
	for _, dir := range cfg.SourceDirectories {
		if dir == "" {
			return errors.New("SourceDirectories must not contain empty entries")
		}
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.ImportStrategy == "" {
		cfg.ImportStrategy = defaultImportStrategy
	}
	if cfg.MaxScanWindow == 0 {
		cfg.MaxScanWindow = defaultMaxScanWindow
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
}
