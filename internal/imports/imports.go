// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package imports reads the import block at the top of an Elm file.
package imports

import (
	"strings"

	"github.com/petar-djukic/elmsym/internal/catalog"
	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// Parse returns the imports declared before the first top-level
// declaration. Comments, blank lines, and the module header (including its
// continuation lines) are skipped. Indented lines following an import are
// joined to it, so multi-line exposing lists are supported.
func Parse(lines []string) []types.ImportRecord {
	kinds := scan.ClassifyLines(lines)

	var records []types.ImportRecord
	for i := 0; i < len(lines); i++ {
		switch kinds[i] {
		case scan.Blank, scan.Comment, scan.ModuleHeader:
			continue
		case scan.Other:
			if indented(lines[i]) {
				continue
			}
			return records
		case scan.Import:
			text := lines[i]
			for i+1 < len(lines) && kinds[i+1] == scan.Other && indented(lines[i+1]) {
				i++
				text += " " + strings.TrimSpace(lines[i])
			}
			if rec, ok := parseImport(text); ok {
				records = append(records, rec)
			}
		default:
			return records
		}
	}
	return records
}

func parseImport(text string) (types.ImportRecord, bool) {
	if idx := strings.Index(text, "--"); idx >= 0 {
		text = text[:idx]
	}
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return types.ImportRecord{}, false
	}

	rec := types.ImportRecord{Module: fields[1]}
	for k := 2; k < len(fields); k++ {
		if fields[k] == "exposing" {
			break
		}
		if fields[k] == "as" && k+1 < len(fields) {
			rec.Alias = fields[k+1]
		}
	}

	idx := strings.Index(text, " exposing")
	if idx < 0 {
		return rec, true
	}
	rest := text[idx+len(" exposing"):]
	open := strings.Index(rest, "(")
	closing := strings.LastIndex(rest, ")")
	if open < 0 || closing <= open {
		return rec, true
	}
	for _, entry := range scan.SplitTopLevel(rest[open+1:closing], ',') {
		if entry = strings.TrimSpace(entry); entry != "" {
			rec.Exposing = append(rec.Exposing, entry)
		}
	}
	return rec, true
}

func indented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// Resolve returns a copy of records with FilePath set from the catalog by
// exact module name. Modules the catalog does not know keep an empty path.
func Resolve(records []types.ImportRecord, cat *catalog.Catalog) []types.ImportRecord {
	resolved := make([]types.ImportRecord, len(records))
	for i, rec := range records {
		if path, ok := cat.Path(rec.Module); ok {
			rec.FilePath = path
		}
		resolved[i] = rec
	}
	return resolved
}

