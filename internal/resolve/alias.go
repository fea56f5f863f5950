// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"

	slogctx "github.com/veqryn/slog-context"

	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// resolveAlias handles field access on a function parameter ("model." or
// "model.user."). The parameter's type is read from the enclosing function
// signature and its record fields are returned. Each further segment follows
// the type of the named field.
func (st *state) resolveAlias(ctx context.Context) []types.SymbolCandidate {
	token := st.query.CurrentToken
	if !strings.HasSuffix(token, ".") || !startsLower(token) {
		return nil
	}

	path := strings.Split(strings.TrimSuffix(token, "."), ".")
	alias, ok := st.parameterType(path[0])
	if !ok {
		return nil
	}

	visited := make(map[string]bool)
	for _, field := range path[1:] {
		if visited[alias] {
			slogctx.Debug(ctx, "type alias cycle", "alias", alias)
			return nil
		}
		visited[alias] = true

		fields := st.findAlias(ctx, alias, types.Autocomplete)
		next := ""
		for _, f := range fields {
			if f.Kind == types.TypeAliasField && f.Name == field {
				next = fieldType(f.Signature)
				break
			}
		}
		if next == "" {
			return nil
		}
		alias = next
	}
	if visited[alias] {
		slogctx.Debug(ctx, "type alias cycle", "alias", alias)
		return nil
	}

	return st.findAlias(ctx, alias, st.query.Mode)
}

// parameterType finds the type of param in the function enclosing the
// cursor. It walks up to the nearest definition line listing param as an
// argument, then to the nearest signature above it, and returns the type at
// the same position.
func (st *state) parameterType(param string) (string, bool) {
	lines := st.query.SourceLines
	start := min(st.query.CursorLine-1, len(lines)-1)

	for j := start; j >= 0; j-- {
		if !strings.Contains(lines[j], "=") {
			continue
		}
		idx := tokenIndex(strings.Fields(lines[j]), param)
		if idx < 0 {
			continue
		}
		for k := j - 1; k >= 0; k-- {
			if strings.Contains(lines[k], ":") {
				return signatureType(lines[k], idx)
			}
		}
		return "", false
	}
	return "", false
}

// findAlias looks for a type alias in the buffer, then in every imported
// file under every source directory. The first file declaring it wins.
func (st *state) findAlias(ctx context.Context, name string, mode types.Mode) []types.SymbolCandidate {
	req := st.request(st.query.FileName, st.query.FileName, st.query.SourceLines, scan.Word(name))
	req.Mode = mode
	req.AliasMode = true
	if found := scan.Scan(req); len(found) > 0 {
		return found
	}

	for _, path := range st.aliasPaths() {
		if ctx.Err() != nil {
			return nil
		}
		lines, err := st.files.read(path)
		if err != nil {
			continue
		}
		req.FileName = path
		req.Lines = lines
		if found := scan.Scan(req); len(found) > 0 {
			slogctx.Debug(ctx, "type alias resolved", "alias", name, "file", path)
			return found
		}
	}
	return nil
}

// aliasPaths lists candidate files for every import: the catalog path, the
// dotted name as folders, then the dotted name as a single file.
func (st *state) aliasPaths() []string {
	seen := make(map[string]bool)
	var paths []string
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	for _, dir := range st.config.SourceDirectories {
		for _, imp := range st.imports {
			add(imp.FilePath)
			add(filepath.Join(st.root, dir, filepath.FromSlash(strings.ReplaceAll(imp.Module, ".", "/"))+".elm"))
			add(filepath.Join(st.root, dir, imp.Module+".elm"))
		}
	}
	return paths
}

func tokenIndex(tokens []string, want string) int {
	for i, tok := range tokens {
		if tok == want {
			return i
		}
	}
	return -1
}

// signatureType returns the type at position idx of a signature, counting
// the declared name as position 0.
func signatureType(line string, idx int) (string, bool) {
	pieces := strings.Split(strings.ReplaceAll(line, "->", ":"), ":")
	if idx >= len(pieces) {
		return "", false
	}
	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ").Replace(pieces[idx]))
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// fieldType returns the type name of a field declaration such as
// "user : User".
func fieldType(decl string) string {
	_, typ, ok := strings.Cut(decl, ":")
	if !ok {
		return ""
	}
	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ").Replace(typ))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
