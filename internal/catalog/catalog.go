// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package catalog discovers the modules declared under an Elm project's
// source directories and maps module names to files.
package catalog

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/spf13/afero"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// skipDirs contains directory names that Discover never descends into.
var skipDirs = map[string]bool{
	"elm-stuff":    true,
	"node_modules": true,
	".git":         true,
}

// SkipDir reports whether a directory named name is never searched for
// modules: build output, dependencies, and hidden directories.
func SkipDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".")
}

// Catalog is the result of one discovery pass. Module names are unique;
// when two files declare the same module the first one found wins.
type Catalog struct {
	modules []types.ModuleRecord
	byName  map[string]int
}

// New builds a catalog from already known records, dropping duplicate names.
func New(records []types.ModuleRecord) *Catalog {
	c := &Catalog{byName: make(map[string]int, len(records))}
	for _, r := range records {
		if _, dup := c.byName[r.Name]; dup {
			continue
		}
		c.byName[r.Name] = len(c.modules)
		c.modules = append(c.modules, r)
	}
	return c
}

// Modules returns every record in discovery order.
func (c *Catalog) Modules() []types.ModuleRecord {
	if c == nil {
		return nil
	}
	result := make([]types.ModuleRecord, len(c.modules))
	copy(result, c.modules)
	return result
}

// Path returns the file declaring the module with exactly this name.
func (c *Catalog) Path(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	idx, ok := c.byName[name]
	if !ok {
		return "", false
	}
	return c.modules[idx].FilePath, true
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.modules)
}

// Discover walks every source directory below root depth-first in lexical
// order and reads each .elm file up to its module declaration. Header reads
// run on a bounded worker group; results keep walk order.
//
// Errors never abort discovery: unreadable directories and files are logged
// and skipped, so the catalog may be partial or empty. If concurrency <= 0 it
// defaults to runtime.NumCPU().
func Discover(ctx context.Context, fs afero.Fs, root string, sourceDirs []string, concurrency int) *Catalog {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	ignorer := loadGitignore(fs, root)

	var paths []string
	for _, dir := range sourceDirs {
		base := filepath.Join(root, dir)
		err := afero.Walk(fs, base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				slogctx.Debug(ctx, "skipping unreadable path", "path", path, "error", err)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			rel := relPath(root, path)
			if info.IsDir() {
				if path == base {
					return nil
				}
				if SkipDir(info.Name()) || ignorer.isIgnored(rel, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".elm" || ignorer.isIgnored(rel, false) {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			slogctx.Debug(ctx, "source directory walk stopped", "dir", base, "error", err)
		}
	}

	names := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			name, err := readModuleName(fs, path)
			if err != nil {
				slogctx.Debug(ctx, "skipping unreadable module", "path", path, "error", err)
				return nil
			}
			names[i] = name
			return nil
		})
	}
	_ = g.Wait()

	records := make([]types.ModuleRecord, 0, len(paths))
	for i, path := range paths {
		if names[i] == "" {
			continue
		}
		records = append(records, types.ModuleRecord{Name: names[i], FilePath: path})
	}

	cat := New(records)
	slogctx.Debug(ctx, "module discovery finished", "root", root, "files", len(paths), "modules", cat.Len())
	return cat
}

// readModuleName reads only as far as the first module declaration.
func readModuleName(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if name, ok := scan.ModuleDeclaration(sc.Text()); ok {
			return name, nil
		}
	}
	return "", sc.Err()
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// gitignorer matches paths against the project's root .gitignore.
type gitignorer struct {
	matcher gitignore.Matcher
}

// loadGitignore reads .gitignore from the project root. A missing or
// unreadable file yields an ignorer that matches nothing.
func loadGitignore(fs afero.Fs, root string) gitignorer {
	data, err := afero.ReadFile(fs, filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignorer{}
	}
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return gitignorer{}
	}
	return gitignorer{matcher: gitignore.NewMatcher(patterns)}
}

func (g gitignorer) isIgnored(relPath string, isDir bool) bool {
	if g.matcher == nil || relPath == "." {
		return false
	}
	return g.matcher.Match(strings.Split(filepath.ToSlash(relPath), "/"), isDir)
}
