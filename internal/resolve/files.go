// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// fileCache reads each path at most once per query.
type fileCache struct {
	fs afero.Fs

	mu    sync.Mutex
	lines map[string][]string
	errs  map[string]error
}

func newFileCache(fs afero.Fs) *fileCache {
	return &fileCache{
		fs:    fs,
		lines: make(map[string][]string),
		errs:  make(map[string]error),
	}
}

func (c *fileCache) read(path string) ([]string, error) {
	c.mu.Lock()
	if lines, ok := c.lines[path]; ok {
		c.mu.Unlock()
		return lines, nil
	}
	if err, ok := c.errs[path]; ok {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	data, err := afero.ReadFile(c.fs, path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errs[path] = err
		return nil, err
	}
	lines := scan.SplitLines(string(data))
	c.lines[path] = lines
	return lines, nil
}

// importPath returns the file an import maps to under one source directory,
// or "" when the strategy cannot name one.
func (st *state) importPath(imp types.ImportRecord, dir string) string {
	switch st.config.ImportStrategy {
	case types.StrategyDynamicLookup, types.StrategySemiDynamicLookup:
		return imp.FilePath
	case types.StrategyDotIsFolder:
		return filepath.Join(st.root, dir, filepath.FromSlash(strings.ReplaceAll(imp.Module, ".", "/"))+".elm")
	default:
		return filepath.Join(st.root, dir, imp.Module+".elm")
	}
}

// importPaths lists the distinct files to scan for imps, in source
// directory order then import order.
func (st *state) importPaths(imps []types.ImportRecord) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, dir := range st.config.SourceDirectories {
		for _, imp := range imps {
			path := st.importPath(imp, dir)
			if path == "" || seen[path] {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}

// scanImports scans every file reachable from imps for target. Files are
// read in parallel and the results joined in path order. Files that cannot
// be read belong to libraries and are skipped.
func (st *state) scanImports(ctx context.Context, imps []types.ImportRecord, target scan.Target) ([]types.SymbolCandidate, error) {
	paths := st.importPaths(imps)
	if len(paths) == 0 {
		return nil, nil
	}

	found := make([][]types.SymbolCandidate, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(st.engine.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, err := st.files.read(path)
			if err != nil {
				slogctx.Debug(ctx, "imported file not readable, assuming library module", "path", path, "error", err)
				return nil
			}
			found[i] = scan.Scan(st.request(path, st.query.FileName, lines, target))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("scanning imported files: %w", err)
	}

	var results []types.SymbolCandidate
	for _, cands := range found {
		results = append(results, cands...)
	}
	return results, nil
}
