// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across elmsym packages.
package types

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// SymbolKind identifies the category of a resolved symbol.
type SymbolKind int

const (
	Function       SymbolKind = iota // Top-level function or value
	UnionType                        // Constructor of a union type
	TypeAliasField                   // Field of a record type alias
	Module                           // Imported or discovered module
	TypeAlias                        // Type alias header
	BuiltinType                      // Primitive type (Int, String, ...)
)

// String returns the human-readable name of the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case Function:
		return "Function"
	case UnionType:
		return "UnionType"
	case TypeAliasField:
		return "TypeAliasField"
	case Module:
		return "Module"
	case TypeAlias:
		return "TypeAlias"
	case BuiltinType:
		return "BuiltinType"
	default:
		return "Unknown"
	}
}

// MarshalText renders the kind by name so JSON and YAML output stay readable.
func (k SymbolKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (k *SymbolKind) UnmarshalText(text []byte) error {
	for kind := Function; kind <= BuiltinType; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown symbol kind %q", text)
}

// SymbolCandidate is one completion or hover result. Duplicates across files
// are expected and left to the consumer.
type SymbolCandidate struct {
	Name          string     `json:"name" yaml:"name"`                   // Text inserted on completion
	FullName      string     `json:"fullName" yaml:"fullName"`           // Label, may include parameters
	Signature     string     `json:"signature" yaml:"signature"`         // Type signature or declaration text
	Documentation string     `json:"documentation" yaml:"documentation"` // Surrounding declaration text and origin
	OriginFile    string     `json:"originFile" yaml:"originFile"`       // File the candidate was scanned from
	Kind          SymbolKind `json:"kind" yaml:"kind"`
}

// InsertText returns the text a completion should insert for the word the
// user has typed so far: the short name when it extends the word, otherwise
// the full name.
func (c SymbolCandidate) InsertText(currentWord string) string {
	if strings.HasPrefix(c.Name, currentWord) {
		return c.Name
	}
	return c.FullName
}

// ModuleRecord maps a declared module name to the file declaring it.
type ModuleRecord struct {
	Name     string `json:"name" yaml:"name"`
	FilePath string `json:"filePath" yaml:"filePath"`
}

// ImportRecord is one import declaration of a source file.
type ImportRecord struct {
	Module   string   // Imported module name, never empty
	Alias    string   // Name given with "as", empty if none
	Exposing []string // Exposed names in source order; [".."] exposes all
	FilePath string   // Resolved source file; empty for library modules
}

// ExposesAll reports whether the import uses exposing (..).
func (r ImportRecord) ExposesAll() bool {
	for _, e := range r.Exposing {
		if e == ".." {
			return true
		}
	}
	return false
}

// Signature renders the import as it would appear at the top of a file.
func (r ImportRecord) Signature() string {
	sig := "import " + r.Module
	if len(r.Exposing) > 0 {
		sig += " exposing(" + strings.Join(r.Exposing, ", ") + ")"
	}
	return sig
}

// Location points at a symbol declaration.
type Location struct {
	Name     string     `json:"name" yaml:"name"`
	Module   string     `json:"module" yaml:"module"`
	FilePath string     `json:"filePath" yaml:"filePath"`
	Line     int        `json:"line" yaml:"line"`     // 1-based
	Column   int        `json:"column" yaml:"column"` // 1-based
	Kind     SymbolKind `json:"kind" yaml:"kind"`
}
