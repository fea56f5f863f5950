// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package elmsym defines the public interface for elmsym, a symbol index
// and resolver for Elm projects. It answers completion, hover, and
// go-to-definition queries by scanning source text, without a compiler.
package elmsym

import (
	"context"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/petar-djukic/elmsym/internal/outline"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// Error types for the Engine API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoProject     = errors.New("no elm project")
)

// Config configures an Engine.
type Config struct {
	ImportStrategy              string   // ignore, dotIsFolder, dynamicLookup, or semiDynamicLookup (default dynamicLookup)
	IncludeParamsInAutocomplete bool     // Keep parameters in completion names
	MaxScanWindow               int      // Declaration lines kept as documentation (default 10)
	UserProjectIntellisense     bool     // False disables project results entirely
	SourceDirectories           []string // Overrides the manifest's source directories
	Concurrency                 int      // Parallel file reads (default runtime.NumCPU())
	Fs                          afero.Fs // Filesystem to read (default the OS filesystem)
}

// Symbol is one declaration in a file outline.
type Symbol = outline.Symbol

// Engine answers queries against the Elm projects found on its filesystem.
// Methods taking a fileName locate the project from it; a project directory
// works as well. Implementations are safe for concurrent use.
type Engine interface {
	// Query returns completion or hover candidates for q in stage order.
	// A file outside any Elm project yields no candidates and no error.
	Query(ctx context.Context, q types.QueryContext) ([]types.SymbolCandidate, error)

	// Definition locates the declaration of word as used in fileName,
	// whose current text is lines. It returns nil when nothing is found.
	Definition(ctx context.Context, fileName string, lines []string, word string) (*types.Location, error)

	// Symbols searches the declarations of every module in the project
	// containing fileName. A query "Module:name" restricts the search to one
	// module; names match by case-insensitive substring.
	Symbols(ctx context.Context, fileName string, query string) ([]types.Location, error)

	// Outline lists the top-level declarations of fileName.
	Outline(ctx context.Context, fileName string) ([]Symbol, error)

	// Modules lists every module of the project containing fileName.
	Modules(ctx context.Context, fileName string) ([]types.ModuleRecord, error)

	// Watch resets the cached module list of the project containing
	// fileName whenever modules are added or removed, until ctx is done.
	Watch(ctx context.Context, fileName string) error

	// Reset drops every cached module list.
	Reset()
}
