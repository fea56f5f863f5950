// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scan

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// LineKind is the declaration shape of a single source line.
type LineKind int

const (
	Blank           LineKind = iota // Empty or whitespace only
	ModuleHeader                    // module X exposing (..)
	Import                          // import X
	TypeAliasHeader                 // type alias X =
	UnionTypeHeader                 // type X = A | B
	Signature                       // name : Type
	Definition                      // name args =
	Comment                         // -- line or inside {- -}
	Other                           // indented continuation or anything else
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case Blank:
		return "Blank"
	case ModuleHeader:
		return "ModuleHeader"
	case Import:
		return "Import"
	case TypeAliasHeader:
		return "TypeAliasHeader"
	case UnionTypeHeader:
		return "UnionTypeHeader"
	case Signature:
		return "Signature"
	case Definition:
		return "Definition"
	case Comment:
		return "Comment"
	default:
		return "Other"
	}
}

var (
	moduleRe     = regexp.MustCompile(`^(?:port\s+|effect\s+)?module\s+(\S+)`)
	typeAliasRe  = regexp.MustCompile(`^type\s+alias\s+([A-Za-z_][A-Za-z0-9_']*)`)
	unionRe      = regexp.MustCompile(`^type\s+([A-Za-z_][A-Za-z0-9_']*)`)
	signatureRe  = regexp.MustCompile(`^(?:port\s+)?([a-z_][A-Za-z0-9_']*|\([^)\s]+\))\s*:`)
	definitionRe = regexp.MustCompile(`^([a-z_][A-Za-z0-9_']*|\([^)\s]+\))[^=]*=(?:[^=]|$)`)
)

// ModuleDeclaration returns the module name declared on line, if any.
// Port and effect modules are recognised.
func ModuleDeclaration(line string) (string, bool) {
	m := moduleRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Classify returns the kind of a single line without comment context.
func Classify(line string) LineKind {
	if strings.TrimSpace(line) == "" {
		return Blank
	}
	if line[0] == ' ' || line[0] == '\t' {
		return Other
	}
	if strings.HasPrefix(line, "--") || strings.HasPrefix(line, "{-") {
		return Comment
	}
	if moduleRe.MatchString(line) {
		return ModuleHeader
	}
	if line == "import" || strings.HasPrefix(line, "import ") {
		return Import
	}
	if typeAliasRe.MatchString(line) {
		return TypeAliasHeader
	}
	if unionRe.MatchString(line) {
		return UnionTypeHeader
	}
	if signatureRe.MatchString(line) && !colonAfterEquals(line) {
		return Signature
	}
	if definitionRe.MatchString(line) {
		return Definition
	}
	return Other
}

// ClassifyLines classifies every line, tracking {- -} block comments so
// commented-out declarations are never matched.
func ClassifyLines(lines []string) []LineKind {
	kinds := make([]LineKind, len(lines))
	depth := 0
	for i, line := range lines {
		if depth > 0 {
			kinds[i] = Comment
			depth = commentDepth(line, depth)
			continue
		}
		kinds[i] = Classify(line)
		if strings.HasPrefix(strings.TrimSpace(line), "{-") {
			kinds[i] = Comment
			depth = commentDepth(line, 0)
		}
	}
	return kinds
}

func commentDepth(line string, depth int) int {
	depth += strings.Count(line, "{-")
	depth -= strings.Count(line, "-}")
	if depth < 0 {
		return 0
	}
	return depth
}

func colonAfterEquals(line string) bool {
	eq := strings.Index(line, "=")
	return eq >= 0 && eq < strings.Index(line, ":")
}

// leadingName returns the declared name of a Signature or Definition line.
func leadingName(line string, kind LineKind) string {
	var m []string
	switch kind {
	case Signature:
		m = signatureRe.FindStringSubmatch(line)
	case Definition:
		m = definitionRe.FindStringSubmatch(line)
	}
	if m == nil {
		return ""
	}
	return m[1]
}

// aliasName returns the name declared by a type alias header.
func aliasName(line string) string {
	if m := typeAliasRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// FileMatchesModule reports whether fileName is where module would be
// declared: Mod.elm, Mod/Sub.elm, or a dotted Mod.Sub.elm file name.
func FileMatchesModule(fileName, module string) bool {
	if module == "" {
		return false
	}
	slashed := filepath.ToSlash(fileName)
	asPath := strings.ReplaceAll(module, ".", "/") + ".elm"
	if slashed == asPath || strings.HasSuffix(slashed, "/"+asPath) {
		return true
	}
	return path.Base(slashed) == module+".elm"
}
