// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace indexes every declaration of an Elm project and answers
// "module:symbol" lookups over it.
package workspace

import (
	"context"
	"runtime"

	"github.com/spf13/afero"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/elmsym/internal/catalog"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// Index is the workspace symbol index of one project. Files are reparsed
// only when they change; the module list comes from the shared catalog
// cache, so files added after the first build appear once the cache is
// reset.
type Index struct {
	root        string
	sourceDirs  []string
	cache       *catalog.Cache
	extractor   *Extractor
	concurrency int
}

// NewIndex creates an index for the project at root. If concurrency <= 0 it
// defaults to runtime.NumCPU().
func NewIndex(fs afero.Fs, cache *catalog.Cache, root string, sourceDirs []string, concurrency int) *Index {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if cache == nil {
		cache = catalog.NewCache(fs, concurrency)
	}
	return &Index{
		root:        root,
		sourceDirs:  sourceDirs,
		cache:       cache,
		extractor:   NewExtractor(fs),
		concurrency: concurrency,
	}
}

// Refresh rebuilds the symbol table from the current catalog.
func (ix *Index) Refresh(ctx context.Context) (*SymbolTable, ExtractStats, error) {
	cat := ix.cache.Get(ctx, ix.root, ix.sourceDirs)
	modules := cat.Modules()

	ix.extractor.ResetStats()
	perFile := make([][]types.Location, len(modules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)
	for i, mod := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			symbols, err := ix.extractor.Extract(gctx, mod.FilePath)
			if err != nil {
				slogctx.Debug(ctx, "skipping file in workspace index", "path", mod.FilePath, "error", err)
				return nil
			}
			locs := make([]types.Location, 0, len(symbols))
			for _, s := range symbols {
				locs = append(locs, types.Location{
					Name:     s.Name,
					Module:   mod.Name,
					FilePath: mod.FilePath,
					Line:     s.Line,
					Column:   s.Column,
					Kind:     s.Kind.SymbolKind(),
				})
			}
			perFile[i] = locs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, ExtractStats{}, errors.Errorf("building workspace index: %w", err)
	}

	var all []types.Location
	for _, locs := range perFile {
		all = append(all, locs...)
	}
	table := NewSymbolTable(all)
	stats := ix.extractor.Stats()

	slogctx.Debug(ctx, "workspace index refreshed",
		"modules", len(modules),
		"symbols", table.Len(),
		"parsed", stats.ParseCount,
		"cacheHits", stats.CacheHits)
	return table, stats, nil
}

// Search refreshes the index and returns the symbols matching query. See
// SymbolTable.Search.
func (ix *Index) Search(ctx context.Context, query string) ([]types.Location, error) {
	table, _, err := ix.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return table.Search(query), nil
}
