// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resolve answers completion and hover queries against an Elm
// project. A query runs through fixed stages (primitive types, imported
// modules, the edited buffer, then imported files) and returns candidates in
// stage order. Everything a query learns lives in a per-query state value;
// the only state shared between queries is the module catalog cache.
package resolve

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/petar-djukic/elmsym/internal/catalog"
	"github.com/petar-djukic/elmsym/internal/imports"
	"github.com/petar-djukic/elmsym/internal/manifest"
	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// primitiveTypes are suggested whenever the cursor sits in a type position.
var primitiveTypes = []string{"Int", "String", "Bool", "Float"}

const (
	coreTypeDoc    = "--Core type"
	importedModDoc = "Module imported at the top of this file"
)

// Options configures an Engine.
type Options struct {
	// Concurrency bounds parallel file reads. Defaults to runtime.NumCPU().
	Concurrency int
	// Cache holds catalogs for the semi-dynamic strategy. A new cache is
	// created when nil.
	Cache *catalog.Cache
}

// Engine resolves queries. It is safe for concurrent use.
type Engine struct {
	fs          afero.Fs
	catalogs    *catalog.Provider
	concurrency int
}

// New creates an engine reading project files through fs.
func New(fs afero.Fs, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return &Engine{
		fs:          fs,
		catalogs:    catalog.NewProvider(fs, opts.Cache, opts.Concurrency),
		concurrency: opts.Concurrency,
	}
}

// Catalogs returns the catalog provider, whose cache a watcher may reset.
func (e *Engine) Catalogs() *catalog.Provider {
	return e.catalogs
}

// Query resolves one completion or hover request. The project manifest is
// located from q.FileName; cfg.SourceDirectories, when set, overrides the
// directories it declares.
//
// A missing or unreadable manifest is not an error: the query returns no
// candidates and logs a warning. The only error returned is a cancelled ctx.
func (e *Engine) Query(ctx context.Context, q types.QueryContext, cfg types.ProjectConfig) ([]types.SymbolCandidate, error) {
	// Cache entries and watcher resets are keyed by absolute project roots.
	if q.FileName != "" {
		if abs, err := filepath.Abs(q.FileName); err == nil {
			q.FileName = abs
		}
	}
	m, err := manifest.Load(e.fs, q.FileName)
	if err != nil {
		slogctx.Warn(ctx, "no project manifest, skipping project symbols", "file", q.FileName, "error", err)
		return nil, nil
	}

	st := e.newState(ctx, q, cfg, m)
	results, err := st.run(ctx)
	if err != nil {
		return nil, err
	}
	slogctx.Debug(ctx, "query resolved",
		"mode", q.Mode.String(),
		"token", q.CurrentToken,
		"imports", len(st.imports),
		"candidates", len(results))
	return results, nil
}

// state is everything one query needs while it recurses through files.
type state struct {
	engine  *Engine
	query   types.QueryContext
	config  types.ProjectConfig
	root    string
	catalog *catalog.Catalog
	imports []types.ImportRecord
	files   *fileCache
}

func (e *Engine) newState(ctx context.Context, q types.QueryContext, cfg types.ProjectConfig, m *manifest.Manifest) *state {
	if len(cfg.SourceDirectories) == 0 {
		cfg.SourceDirectories = m.SourceDirectories
	}

	st := &state{
		engine: e,
		query:  q,
		config: cfg,
		root:   m.Root,
		files:  newFileCache(e.fs),
	}
	st.catalog = e.catalogs.Catalog(ctx, cfg.ImportStrategy, m.Root, cfg.SourceDirectories)
	st.imports = imports.Parse(q.SourceLines)
	if cfg.ImportStrategy.UsesLookup() {
		st.imports = imports.Resolve(st.imports, st.catalog)
	}
	return st
}

func (st *state) run(ctx context.Context) ([]types.SymbolCandidate, error) {
	var results []types.SymbolCandidate
	results = append(results, st.primitives()...)
	results = append(results, st.importedModules()...)
	results = append(results, st.scanBuffer(ctx)...)

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("query cancelled: %w", err)
	}

	n := st.narrow()
	if n.ambiguous != nil {
		return append(results, n.ambiguous...), nil
	}

	imported, err := st.scanImports(ctx, n.imports, n.target)
	if err != nil {
		return nil, err
	}
	return append(results, imported...), nil
}

// primitives suggests core types when completing in a type position.
func (st *state) primitives() []types.SymbolCandidate {
	q := st.query
	if q.Mode != types.Autocomplete || strings.Contains(q.CurrentToken, ".") {
		return nil
	}
	if q.CursorLine < 0 || q.CursorLine >= len(q.SourceLines) {
		return nil
	}
	line := q.SourceLines[q.CursorLine]
	if !strings.Contains(line, ":") && !strings.Contains(line, " | ") {
		return nil
	}

	results := make([]types.SymbolCandidate, 0, len(primitiveTypes))
	for _, name := range primitiveTypes {
		results = append(results, types.SymbolCandidate{
			Name:          name,
			FullName:      name,
			Signature:     name,
			Documentation: coreTypeDoc,
			Kind:          types.BuiltinType,
		})
	}
	return results
}

// importedModules lists the buffer's imports unless the user is already
// typing a qualified name.
func (st *state) importedModules() []types.SymbolCandidate {
	if st.query.Mode != types.Autocomplete || strings.HasSuffix(st.query.CurrentToken, ".") {
		return nil
	}
	results := make([]types.SymbolCandidate, 0, len(st.imports))
	for _, imp := range st.imports {
		results = append(results, st.moduleCandidate(imp, imp.Module))
	}
	return results
}

func (st *state) moduleCandidate(imp types.ImportRecord, name string) types.SymbolCandidate {
	return types.SymbolCandidate{
		Name:          name,
		FullName:      imp.Module,
		Signature:     imp.Signature(),
		Documentation: importedModDoc,
		OriginFile:    st.query.FileName,
		Kind:          types.Module,
	}
}

// scanBuffer scans the edited document, resolving a parameter's record type
// first when the token looks like field access.
func (st *state) scanBuffer(ctx context.Context) []types.SymbolCandidate {
	results := st.resolveAlias(ctx)
	return append(results, scan.Scan(st.request(st.query.FileName, "", st.query.SourceLines, scan.Word(st.query.CurrentToken)))...)
}

func (st *state) request(fileName, callerFile string, lines []string, target scan.Target) scan.Request {
	return scan.Request{
		FileName:      fileName,
		CallerFile:    callerFile,
		Mode:          st.query.Mode,
		Lines:         lines,
		Target:        target,
		IncludeParams: st.config.IncludeParamsInAutocomplete,
		MaxScanWindow: st.config.MaxScanWindow,
	}
}
