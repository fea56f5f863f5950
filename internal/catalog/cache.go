// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/afero"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/singleflight"

	"github.com/petar-djukic/elmsym/pkg/types"
)

// Cache keeps one catalog per project root and source directory list for
// the lifetime of a session. New files are only picked up after Reset or
// ResetRoot.
type Cache struct {
	fs          afero.Fs
	concurrency int

	mu      sync.RWMutex
	entries map[string]map[string]*Catalog // By root, then by dirsKey
	group   singleflight.Group
}

// NewCache creates an empty cache reading through fs.
func NewCache(fs afero.Fs, concurrency int) *Cache {
	return &Cache{
		fs:          fs,
		concurrency: concurrency,
		entries:     make(map[string]map[string]*Catalog),
	}
}

// Get returns the cached catalog for root and sourceDirs, discovering it on
// first use. Concurrent first calls share a single discovery, which is not
// cancelled with ctx: a cancelled caller must not leave a partial catalog
// behind for the rest of the session.
func (c *Cache) Get(ctx context.Context, root string, sourceDirs []string) *Catalog {
	dirs := dirsKey(sourceDirs)
	if cat, ok := c.lookup(root, dirs); ok {
		return cat
	}

	v, _, _ := c.group.Do(root+"\x00"+dirs, func() (any, error) {
		if cat, ok := c.lookup(root, dirs); ok {
			return cat, nil
		}
		cat := Discover(context.WithoutCancel(ctx), c.fs, root, sourceDirs, c.concurrency)
		c.mu.Lock()
		if c.entries[root] == nil {
			c.entries[root] = make(map[string]*Catalog)
		}
		c.entries[root][dirs] = cat
		c.mu.Unlock()
		return cat, nil
	})
	return v.(*Catalog)
}

// Reset drops every cached catalog.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]map[string]*Catalog)
	c.mu.Unlock()
}

// ResetRoot drops the catalogs of a single project, whatever source
// directories they were built from.
func (c *Cache) ResetRoot(root string) {
	c.mu.Lock()
	delete(c.entries, root)
	c.mu.Unlock()
}

func (c *Cache) lookup(root, dirs string) (*Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cat, ok := c.entries[root][dirs]
	return cat, ok
}

func dirsKey(sourceDirs []string) string {
	return strings.Join(sourceDirs, "\x00")
}

// Provider picks the catalog policy for an import strategy.
type Provider struct {
	fs          afero.Fs
	cache       *Cache
	concurrency int
}

// NewProvider creates a provider. The cache backs the semi-dynamic strategy
// and may be shared between providers.
func NewProvider(fs afero.Fs, cache *Cache, concurrency int) *Provider {
	if cache == nil {
		cache = NewCache(fs, concurrency)
	}
	return &Provider{fs: fs, cache: cache, concurrency: concurrency}
}

// Cache returns the session cache used for the semi-dynamic strategy.
func (p *Provider) Cache() *Cache {
	return p.cache
}

// Catalog returns the modules visible to a query, or nil when the strategy
// builds import paths directly from module names.
func (p *Provider) Catalog(ctx context.Context, strategy types.ImportStrategy, root string, sourceDirs []string) *Catalog {
	switch strategy {
	case types.StrategyDynamicLookup:
		return Discover(ctx, p.fs, root, sourceDirs, p.concurrency)
	case types.StrategySemiDynamicLookup:
		return p.cache.Get(ctx, root, sourceDirs)
	default:
		slogctx.Debug(ctx, "module catalog not used", "strategy", strategy.String())
		return nil
	}
}
