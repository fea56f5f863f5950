// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"strings"

	"github.com/petar-djukic/elmsym/pkg/types"
)

// SymbolTable holds every declaration of a project and provides lookup by
// name and module.
type SymbolTable struct {
	symbols  []types.Location
	byName   map[string][]int
	byModule map[string][]int
}

// NewSymbolTable indexes locations in the given order.
func NewSymbolTable(locations []types.Location) *SymbolTable {
	st := &SymbolTable{
		byName:   make(map[string][]int),
		byModule: make(map[string][]int),
	}
	for _, loc := range locations {
		idx := len(st.symbols)
		st.symbols = append(st.symbols, loc)
		st.byName[loc.Name] = append(st.byName[loc.Name], idx)
		st.byModule[loc.Module] = append(st.byModule[loc.Module], idx)
	}
	return st
}

// All returns every symbol in the table.
func (st *SymbolTable) All() []types.Location {
	result := make([]types.Location, len(st.symbols))
	copy(result, st.symbols)
	return result
}

// ByName returns all symbols with the given name.
func (st *SymbolTable) ByName(name string) []types.Location {
	return st.lookup(st.byName[name])
}

// ByModule returns all symbols declared by a module.
func (st *SymbolTable) ByModule(module string) []types.Location {
	return st.lookup(st.byModule[module])
}

// Find returns the symbols named name, restricted to module unless module
// is empty.
func (st *SymbolTable) Find(module, name string) []types.Location {
	if module == "" {
		return st.ByName(name)
	}
	var result []types.Location
	for _, idx := range st.byName[name] {
		if st.symbols[idx].Module == module {
			result = append(result, st.symbols[idx])
		}
	}
	return result
}

// Search returns the symbols whose names contain query, ignoring case.
// "Module:" lists every declaration of a module and "Module:name" restricts
// the match to that module.
func (st *SymbolTable) Search(query string) []types.Location {
	module, name, ok := strings.Cut(query, ":")
	if !ok {
		module, name = "", query
	}
	candidates := st.symbols
	if module != "" {
		candidates = st.ByModule(module)
	}
	if name == "" {
		if module == "" {
			return st.All()
		}
		return candidates
	}

	needle := strings.ToLower(name)
	var result []types.Location
	for _, loc := range candidates {
		if strings.Contains(strings.ToLower(loc.Name), needle) {
			result = append(result, loc)
		}
	}
	return result
}

// LookupSymbols resolves a "module:symbol" query. An empty module part, or
// a query without a colon, searches every module. The table is immutable,
// so the lookup never fails.
func (st *SymbolTable) LookupSymbols(_ context.Context, query string) ([]types.Location, error) {
	module, symbol, ok := strings.Cut(query, ":")
	if !ok {
		module, symbol = "", query
	}
	if symbol == "" {
		return nil, nil
	}
	return st.Find(module, symbol), nil
}

// Len returns the total number of symbols.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

func (st *SymbolTable) lookup(indices []int) []types.Location {
	if len(indices) == 0 {
		return nil
	}
	result := make([]types.Location, len(indices))
	for i, idx := range indices {
		result[i] = st.symbols[idx]
	}
	return result
}
