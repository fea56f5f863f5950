// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Mode is the intent of a query. Both modes share the resolution machinery
// but differ in case sensitivity and result shaping.
type Mode int

const (
	Hover Mode = iota
	Autocomplete
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Autocomplete {
		return "autocomplete"
	}
	return "hover"
}

// ParseMode converts "hover" or "autocomplete" (any case) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hover":
		return Hover, nil
	case "autocomplete", "complete", "completion":
		return Autocomplete, nil
	default:
		return Hover, errors.Errorf("unknown query mode %q", s)
	}
}

// ImportStrategy controls how imported module names are mapped to files.
type ImportStrategy int

const (
	StrategyIgnore            ImportStrategy = iota // Module.Name.elm built literally
	StrategyDotIsFolder                             // Module/Name.elm built from dots
	StrategyDynamicLookup                           // catalog rebuilt on every query
	StrategySemiDynamicLookup                       // catalog built once per session
)

var strategyNames = map[ImportStrategy]string{
	StrategyIgnore:            "ignore",
	StrategyDotIsFolder:       "dotIsFolder",
	StrategyDynamicLookup:     "dynamicLookup",
	StrategySemiDynamicLookup: "semiDynamicLookup",
}

// String returns the configuration name of the strategy.
func (s ImportStrategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// UsesLookup reports whether import paths come from a module catalog.
func (s ImportStrategy) UsesLookup() bool {
	return s == StrategyDynamicLookup || s == StrategySemiDynamicLookup
}

// ParseImportStrategy accepts the configuration names case-insensitively.
func ParseImportStrategy(s string) (ImportStrategy, error) {
	for strategy, name := range strategyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return strategy, nil
		}
	}
	return StrategyIgnore, errors.Errorf("unknown import strategy %q", s)
}

// QueryContext is the immutable input of one resolution pass.
type QueryContext struct {
	Mode         Mode
	FileName     string   // Path of the document being edited
	CursorLine   int      // 0-based
	CursorColumn int      // 0-based
	CurrentToken string   // Word under or before the cursor, may contain dots
	SourceLines  []string // Full buffer text split into lines
}

// ProjectConfig holds the per-project resolution settings.
type ProjectConfig struct {
	SourceDirectories           []string
	ImportStrategy              ImportStrategy
	IncludeParamsInAutocomplete bool
	MaxScanWindow               int // Lines of declaration body kept as documentation
}
