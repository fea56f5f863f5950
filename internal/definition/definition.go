// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package definition finds where the identifier under the cursor is
// declared, using the file's imports to pick modules and a workspace symbol
// lookup to locate the declaration.
package definition

import (
	"context"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/petar-djukic/elmsym/internal/imports"
	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// defaultModule is the module name of a file without a module declaration.
const defaultModule = "Main"

// SymbolLookup answers "module:symbol" queries. An empty module part
// searches every module. A Definition call may issue several queries, so
// the lookup should be a snapshot such as a workspace.SymbolTable.
type SymbolLookup interface {
	LookupSymbols(ctx context.Context, query string) ([]types.Location, error)
}

// Provider resolves definitions through a SymbolLookup.
type Provider struct {
	lookup SymbolLookup
}

// New creates a provider.
func New(lookup SymbolLookup) *Provider {
	return &Provider{lookup: lookup}
}

// Definition returns the declaration of word as used in the file whose
// text is lines, or nil when it cannot be found. A qualified word
// ("Html.div", "H.div") is looked up in the module its qualifier names; an
// unqualified word in the modules exposing it, or the file's own module.
// Unqualified words that are still unresolved are finally looked up in
// modules imported with (..) or with exposed constructors.
func (p *Provider) Definition(ctx context.Context, lines []string, word string) (*types.Location, error) {
	if word == "" {
		return nil, nil
	}

	dot := strings.LastIndex(word, ".")
	symbol := word[dot+1:]
	qualifier := ""
	if dot >= 0 {
		qualifier = word[:dot]
	}
	if symbol == "" {
		return nil, nil
	}

	imps := imports.Parse(lines)

	var modules []string
	for _, imp := range imps {
		if qualifier == "" && exposes(imp, symbol) ||
			qualifier != "" && (imp.Alias == qualifier || imp.Module == qualifier) {
			modules = append(modules, imp.Module)
		}
	}
	if len(modules) == 0 {
		modules = []string{moduleName(lines)}
	}

	if loc := p.first(ctx, modules, symbol); loc != nil {
		return loc, nil
	}
	if qualifier != "" {
		return nil, nil
	}

	var fallback []string
	for _, imp := range imps {
		if imp.ExposesAll() || exposesConstructors(imp) {
			fallback = append(fallback, imp.Module)
		}
	}
	return p.first(ctx, fallback, symbol), ctx.Err()
}

// first returns the first location found for symbol in modules, in order.
// Lookup failures are logged and treated as misses.
func (p *Provider) first(ctx context.Context, modules []string, symbol string) *types.Location {
	for _, module := range modules {
		if ctx.Err() != nil {
			return nil
		}
		locs, err := p.lookup.LookupSymbols(ctx, module+":"+symbol)
		if err != nil {
			slogctx.Debug(ctx, "symbol lookup failed", "module", module, "symbol", symbol, "error", err)
			continue
		}
		if len(locs) > 0 {
			loc := locs[0]
			return &loc
		}
	}
	return nil
}

// exposes reports whether imp names symbol in its exposing list, either
// directly or as a type exposed with its constructors.
func exposes(imp types.ImportRecord, symbol string) bool {
	for _, e := range imp.Exposing {
		if exposedName(e) == symbol {
			return true
		}
	}
	return false
}

func exposesConstructors(imp types.ImportRecord) bool {
	for _, e := range imp.Exposing {
		if strings.Contains(e, "(") {
			return true
		}
	}
	return false
}

// exposedName strips a constructor list: "Msg(..)" is "Msg".
func exposedName(entry string) string {
	if idx := strings.Index(entry, "("); idx > 0 {
		return strings.TrimSpace(entry[:idx])
	}
	return entry
}

func moduleName(lines []string) string {
	for _, line := range lines {
		if name, ok := scan.ModuleDeclaration(line); ok {
			return name
		}
	}
	return defaultModule
}
