// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/petar-djukic/elmsym/internal/outline"
)

// cacheEntry stores an outline keyed by file path and modification time.
type cacheEntry struct {
	modTime time.Time
	symbols []outline.Symbol
}

// ExtractStats tracks extraction statistics.
type ExtractStats struct {
	FilesProcessed int
	FilesSkipped   int
	CacheHits      int
	ParseCount     int
}

// Extractor outlines Elm files, reparsing a file only when its
// modification time changes. It is safe for concurrent use.
type Extractor struct {
	fs afero.Fs

	mu    sync.Mutex
	cache map[string]cacheEntry
	stats ExtractStats
}

// NewExtractor creates an extractor with an empty cache.
func NewExtractor(fs afero.Fs) *Extractor {
	return &Extractor{
		fs:    fs,
		cache: make(map[string]cacheEntry),
	}
}

// Extract returns the outline of path.
func (e *Extractor) Extract(ctx context.Context, path string) ([]outline.Symbol, error) {
	info, err := e.fs.Stat(path)
	if err != nil {
		e.count(func(s *ExtractStats) { s.FilesSkipped++ })
		return nil, err
	}

	e.mu.Lock()
	if cached, ok := e.cache[path]; ok && cached.modTime.Equal(info.ModTime()) {
		e.stats.CacheHits++
		e.stats.FilesProcessed++
		result := cached.symbols
		e.mu.Unlock()
		return result, nil
	}
	e.mu.Unlock()

	content, err := afero.ReadFile(e.fs, path)
	if err != nil {
		e.count(func(s *ExtractStats) { s.FilesSkipped++ })
		return nil, err
	}
	symbols, err := outline.Extract(ctx, content)
	if err != nil {
		e.count(func(s *ExtractStats) { s.FilesSkipped++ })
		return nil, err
	}

	e.mu.Lock()
	e.stats.ParseCount++
	e.stats.FilesProcessed++
	e.cache[path] = cacheEntry{modTime: info.ModTime(), symbols: symbols}
	e.mu.Unlock()

	return symbols, nil
}

// Stats returns the counters accumulated since the last ResetStats.
func (e *Extractor) Stats() ExtractStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ResetStats zeroes the counters but keeps the cache.
func (e *Extractor) ResetStats() {
	e.mu.Lock()
	e.stats = ExtractStats{}
	e.mu.Unlock()
}

func (e *Extractor) count(update func(*ExtractStats)) {
	e.mu.Lock()
	update(&e.stats)
	e.mu.Unlock()
}
