// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package resolve

import (
	"strings"

	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// narrowing is the outcome of qualified-name resolution: either the imports
// and target to scan, or module candidates when the prefix is ambiguous.
type narrowing struct {
	imports   []types.ImportRecord
	target    scan.Target
	ambiguous []types.SymbolCandidate
}

// narrow restricts the imports to scan when the token is qualified with a
// module name ("Html." while completing, "Html.div" on hover). Unqualified
// tokens search every import for the token itself.
func (st *state) narrow() narrowing {
	token := st.query.CurrentToken
	qualified := strings.HasSuffix(token, ".") ||
		(st.query.Mode == types.Hover && strings.Contains(token, "."))
	if !qualified {
		return narrowing{imports: st.imports, target: scan.Word(token)}
	}

	dot := strings.LastIndex(token, ".")
	prefix, suffix := token[:dot], token[dot+1:]
	first, _, _ := strings.Cut(token, ".")

	var matched []types.ImportRecord
	subPaths := 0
	for _, imp := range st.imports {
		switch {
		case imp.Module == first, imp.Alias != "" && imp.Alias == first, imp.Module == prefix:
			matched = append(matched, imp)
		case containsSegments(imp.Module, prefix):
			matched = append(matched, imp)
			subPaths++
		}
	}

	if strings.Count(token, ".") == 1 && subPaths > 1 {
		ambiguous := make([]types.SymbolCandidate, 0, len(matched))
		for _, imp := range matched {
			ambiguous = append(ambiguous, st.moduleCandidate(imp, strings.Replace(imp.Module, token, "", 1)))
		}
		return narrowing{ambiguous: ambiguous}
	}

	target := scan.Any()
	if st.query.Mode == types.Hover && suffix != "" {
		target = scan.Word(suffix)
	}
	return narrowing{imports: matched, target: target}
}

// containsSegments reports whether the dotted module name contains prefix
// as whole segments, e.g. "Page.Home.View" contains "Home" and "Home.View"
// but not "Hom".
func containsSegments(module, prefix string) bool {
	if prefix == "" || !strings.Contains(module, ".") {
		return false
	}
	return strings.Contains("."+module+".", "."+prefix+".")
}
