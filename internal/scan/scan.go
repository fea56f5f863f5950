// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scan finds declarations in Elm source text without parsing it.
// Lines are classified once into declaration shapes; each shape is handled
// by a block routine that returns the candidates it produced and the index
// of the first line it did not consume.
package scan

import (
	"strings"

	"github.com/petar-djukic/elmsym/pkg/types"
)

// Target is the identifier a scan looks for.
type Target struct {
	Word     string
	Wildcard bool // Match any identifier
}

// Word returns a target matching w.
func Word(w string) Target {
	return Target{Word: w}
}

// Any returns a target matching every identifier.
func Any() Target {
	return Target{Wildcard: true}
}

// Request describes one scan of one file.
type Request struct {
	FileName      string
	CallerFile    string // Empty when FileName is the document being edited
	Mode          types.Mode
	Lines         []string
	Target        Target
	AliasMode     bool // Only look for a type alias named Target
	IncludeParams bool // Keep parameters in candidate names
	MaxScanWindow int  // Declaration lines kept as documentation; <= 0 keeps all
}

// Scan returns the candidates declared in req.Lines that match req.Target,
// in source order.
//
// A target qualified with a module ("List.map") only matches when FileName is
// that module's file; the qualifier is then dropped and an empty remainder
// matches everything.
func Scan(req Request) []types.SymbolCandidate {
	target, ok := narrow(req)
	if !ok {
		return nil
	}
	s := &scanner{req: req, target: target, kinds: ClassifyLines(req.Lines)}
	return s.run()
}

func narrow(req Request) (Target, bool) {
	t := req.Target
	if t.Wildcard {
		return t, true
	}
	if req.AliasMode {
		t.Word = strings.TrimSuffix(t.Word, ".")
		return t, true
	}
	idx := strings.LastIndex(t.Word, ".")
	if idx < 0 {
		return t, true
	}
	module, symbol := t.Word[:idx], t.Word[idx+1:]
	if !FileMatchesModule(req.FileName, module) {
		return t, false
	}
	if symbol == "" {
		return Any(), true
	}
	return Word(symbol), true
}

type scanner struct {
	req    Request
	target Target
	kinds  []LineKind
}

func (s *scanner) run() []types.SymbolCandidate {
	var results []types.SymbolCandidate
	lines := s.req.Lines
	for i := 0; i < len(lines); {
		var found []types.SymbolCandidate
		next := i + 1
		switch kind := s.kinds[i]; kind {
		case Signature, Definition:
			if !s.req.AliasMode && s.matchesName(leadingName(lines[i], kind)) {
				found, next = s.function(i)
			}
		case UnionTypeHeader:
			if !s.req.AliasMode {
				found, next = s.unionType(i)
			}
		case TypeAliasHeader:
			if s.matchesAlias(aliasName(lines[i])) {
				found, next = s.typeAlias(i)
			}
		}
		results = append(results, found...)
		i = next
	}
	return results
}

// function consumes a signature (with its continuation lines) and the
// definition line that follows it, or a lone definition line.
func (s *scanner) function(i int) ([]types.SymbolCandidate, int) {
	lines := s.req.Lines
	var signature, definition, sigName string
	next := i + 1

	if s.kinds[i] == Signature {
		sigName = leadingName(lines[i], Signature)
		signature = strings.TrimRight(lines[i], " \t")
		for next < len(lines) && s.isContinuation(next) {
			signature += " " + strings.TrimSpace(lines[next])
			next++
		}
		if next < len(lines) && s.kinds[next] == Definition {
			definition = beforeEquals(lines[next])
			next++
		}
	} else {
		definition = beforeEquals(lines[i])
	}

	if signature == "" && definition == "" {
		return nil, next
	}

	name := strings.TrimSpace(definition)
	fullName := name
	if name == "" {
		name = sigName
		fullName = sigName
	}
	sigText := signature
	if sigText == "" {
		sigText = strings.TrimSpace(definition)
	}

	doc := "--Function in this file"
	if s.req.CallerFile != "" {
		doc = "--" + s.req.FileName
	}
	if signature == "" {
		doc += " (no type signature)"
	}

	return []types.SymbolCandidate{{
		Name:          s.shorten(name),
		FullName:      fullName,
		Signature:     sigText,
		Documentation: doc,
		OriginFile:    s.req.FileName,
		Kind:          types.Function,
	}}, next
}

// unionType consumes a union type block and emits the constructors whose
// text contains the target.
func (s *scanner) unionType(i int) ([]types.SymbolCandidate, int) {
	lines := s.req.Lines
	end := s.blockEnd(i)
	doc := s.blockDoc(i, end)

	segments := []string{afterEquals(stripLineComment(lines[i]))}
	for k := i + 1; k < end; k++ {
		segments = append(segments, stripLineComment(lines[k]))
	}

	var results []types.SymbolCandidate
	for _, seg := range segments {
		seg = strings.TrimPrefix(strings.TrimSpace(seg), "=")
		for _, alt := range SplitTopLevel(seg, '|') {
			alt = strings.TrimSpace(alt)
			if alt == "" || !s.contains(alt) {
				continue
			}
			name := s.shorten(alt)
			results = append(results, types.SymbolCandidate{
				Name:          name,
				FullName:      name,
				Signature:     alt,
				Documentation: doc,
				OriginFile:    s.req.FileName,
				Kind:          types.UnionType,
			})
		}
	}
	return results, end
}

// typeAlias consumes a matching type alias block. Hover and wildcard scans
// describe the alias itself; completion lists its record fields.
func (s *scanner) typeAlias(i int) ([]types.SymbolCandidate, int) {
	lines := s.req.Lines
	end := s.blockEnd(i)
	doc := s.blockDoc(i, end)

	if s.req.Mode == types.Hover || s.target.Wildcard {
		name := aliasName(lines[i])
		return []types.SymbolCandidate{{
			Name:          name,
			FullName:      name,
			Signature:     strings.TrimSpace(beforeEquals(lines[i])),
			Documentation: doc,
			OriginFile:    s.req.FileName,
			Kind:          types.TypeAlias,
		}}, end
	}

	body := afterEquals(stripLineComment(lines[i]))
	for k := i + 1; k < end; k++ {
		body += " " + stripLineComment(lines[k])
	}

	var results []types.SymbolCandidate
	for _, f := range RecordFields(body) {
		results = append(results, types.SymbolCandidate{
			Name:          f.Name,
			FullName:      f.Name,
			Signature:     f.Text,
			Documentation: doc,
			OriginFile:    s.req.FileName,
			Kind:          types.TypeAliasField,
		})
	}
	return results, end
}

// blockEnd returns the index of the first line after the declaration
// starting at i: a blank line, a module header, or a new declaration.
func (s *scanner) blockEnd(i int) int {
	k := i + 1
	for k < len(s.kinds) && (s.kinds[k] == Other || s.kinds[k] == Comment) {
		k++
	}
	return k
}

// blockDoc renders the declaration as documentation, keeping at most
// MaxScanWindow lines after the header.
func (s *scanner) blockDoc(start, end int) string {
	lines := s.req.Lines
	shown := end - start - 1
	if s.req.MaxScanWindow > 0 && shown > s.req.MaxScanWindow {
		shown = s.req.MaxScanWindow
	}

	var b strings.Builder
	b.WriteString(lines[start])
	for k := start + 1; k <= start+shown; k++ {
		b.WriteString("\n")
		b.WriteString(lines[k])
	}
	if start+shown < end-1 {
		b.WriteString("\n...")
	}
	b.WriteString("\n--")
	b.WriteString(s.req.FileName)
	return b.String()
}

func (s *scanner) isContinuation(k int) bool {
	line := s.req.Lines[k]
	return s.kinds[k] == Other && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"))
}

func (s *scanner) matchesName(name string) bool {
	switch {
	case s.target.Wildcard:
		return true
	case s.req.Mode == types.Autocomplete:
		return strings.HasPrefix(strings.ToLower(name), strings.ToLower(s.target.Word))
	default:
		return name == s.target.Word
	}
}

func (s *scanner) matchesAlias(name string) bool {
	switch {
	case s.target.Wildcard:
		return true
	case s.req.Mode == types.Autocomplete:
		return strings.EqualFold(name, s.target.Word)
	default:
		return name == s.target.Word
	}
}

func (s *scanner) contains(text string) bool {
	switch {
	case s.target.Wildcard:
		return true
	case s.req.Mode == types.Autocomplete:
		return strings.Contains(strings.ToLower(text), strings.ToLower(s.target.Word))
	default:
		return strings.Contains(text, s.target.Word)
	}
}

// shorten hides parameters unless they were asked for.
func (s *scanner) shorten(name string) string {
	if s.req.IncludeParams {
		return name
	}
	return firstToken(name)
}

func beforeEquals(line string) string {
	if idx := strings.Index(line, "="); idx >= 0 {
		return line[:idx]
	}
	return line
}

// Field is one field of a record type.
type Field struct {
	Name string // Field name
	Type string // Text after the colon
	Text string // Whole field declaration, e.g. "x : Int"
}

// RecordFields extracts the top-level fields of the first record type in
// text. Extensible records ({ r | x : Int }) yield their listed fields.
func RecordFields(text string) []Field {
	open := strings.Index(text, "{")
	if open < 0 {
		return nil
	}
	closing := strings.LastIndex(text, "}")
	if closing < open {
		closing = len(text)
	}
	inner := text[open+1 : closing]
	if parts := SplitTopLevel(inner, '|'); len(parts) > 1 {
		inner = parts[1]
	}

	var fields []Field
	for _, part := range SplitTopLevel(inner, ',') {
		part = strings.TrimSpace(part)
		idx := strings.Index(part, ":")
		if idx <= 0 {
			continue
		}
		fields = append(fields, Field{
			Name: strings.TrimSpace(part[:idx]),
			Type: strings.TrimSpace(part[idx+1:]),
			Text: part,
		})
	}
	return fields
}
