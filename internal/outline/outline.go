// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package outline lists the top-level declarations of an Elm file using the
// tree-sitter Elm grammar. It serves document outlines and the workspace
// symbol index; completion and hover never depend on it.
package outline

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/elm"
	"gitlab.com/tozd/go/errors"

	"github.com/petar-djukic/elmsym/pkg/types"
)

// ErrParse is returned when tree-sitter cannot produce a syntax tree.
var ErrParse = errors.New("elm parse failed")

// Kind identifies the category of an outline symbol.
type Kind int

const (
	KindModule      Kind = iota // module declaration
	KindTypeAlias               // type alias
	KindType                    // union type
	KindConstructor             // union type constructor
	KindFunction                // top-level value or function
	KindPort                    // port annotation
	KindOperator                // infix operator declaration
)

var kindNames = [...]string{
	KindModule:      "module",
	KindTypeAlias:   "typeAlias",
	KindType:        "type",
	KindConstructor: "constructor",
	KindFunction:    "function",
	KindPort:        "port",
	KindOperator:    "operator",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SymbolKind maps an outline kind onto the resolver's symbol kinds.
func (k Kind) SymbolKind() types.SymbolKind {
	switch k {
	case KindModule:
		return types.Module
	case KindTypeAlias:
		return types.TypeAlias
	case KindType, KindConstructor:
		return types.UnionType
	default:
		return types.Function
	}
}

// Symbol is one declaration in a file.
type Symbol struct {
	Name      string `json:"name" yaml:"name"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	Container string `json:"container,omitempty" yaml:"container,omitempty"` // Enclosing type for constructors
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"` // Type annotation, if any
	Line      int    `json:"line" yaml:"line"`                               // 1-based
	Column    int    `json:"column" yaml:"column"`                           // 1-based
	EndLine   int    `json:"endLine" yaml:"endLine"`                         // 1-based
}

// Extract parses source and returns its declarations in source order. A new
// parser is created for every call.
func Extract(ctx context.Context, source []byte) ([]Symbol, error) {
	root, err := sitter.ParseCtx(ctx, source, elm.GetLanguage())
	if err != nil {
		return nil, errors.Errorf("%w: %v", ErrParse, err)
	}
	if root == nil {
		return nil, errors.WithStack(ErrParse)
	}

	w := &walker{source: source, annotations: make(map[string]string)}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		w.visit(root.NamedChild(i))
	}
	return w.symbols, nil
}

type walker struct {
	source      []byte
	symbols     []Symbol
	annotations map[string]string // Pending type annotations by name
}

func (w *walker) visit(n *sitter.Node) {
	switch n.Type() {
	case "module_declaration":
		w.add(n, childName(n, w.source, "upper_case_qid"), KindModule, "")
	case "type_alias_declaration":
		w.add(n, childName(n, w.source, "upper_case_identifier"), KindTypeAlias, "")
	case "type_declaration":
		typeName := childName(n, w.source, "upper_case_identifier")
		w.add(n, typeName, KindType, "")
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "union_variant" {
				w.add(c, childName(c, w.source, "upper_case_identifier"), KindConstructor, typeName)
			}
		}
	case "type_annotation":
		if name := childName(n, w.source, "lower_case_identifier"); name != "" {
			w.annotations[name] = collapse(n.Content(w.source))
		}
	case "value_declaration":
		name := ""
		if left := firstChildOfType(n, "function_declaration_left"); left != nil {
			name = childName(left, w.source, "lower_case_identifier")
		}
		w.add(n, name, KindFunction, "")
		if sym := w.last(); sym != nil && sym.Name == name {
			sym.Signature = w.annotations[name]
			delete(w.annotations, name)
		}
	case "port_annotation":
		w.add(n, childName(n, w.source, "lower_case_identifier"), KindPort, "")
		if sym := w.last(); sym != nil {
			sym.Signature = collapse(n.Content(w.source))
		}
	case "infix_declaration":
		name := ""
		if op := n.ChildByFieldName("operator"); op != nil {
			name = op.Content(w.source)
		} else if op := firstChildOfType(n, "operator_identifier"); op != nil {
			name = op.Content(w.source)
		}
		w.add(n, name, KindOperator, "")
	}
}

func (w *walker) add(n *sitter.Node, name string, kind Kind, container string) {
	if name == "" {
		return
	}
	start, end := n.StartPoint(), n.EndPoint()
	w.symbols = append(w.symbols, Symbol{
		Name:      name,
		Kind:      kind,
		Container: container,
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
	})
}

func (w *walker) last() *Symbol {
	if len(w.symbols) == 0 {
		return nil
	}
	return &w.symbols[len(w.symbols)-1]
}

// childName returns the text of the node's "name" field, or of its first
// named child of the fallback type.
func childName(n *sitter.Node, source []byte, fallback string) string {
	if c := n.ChildByFieldName("name"); c != nil {
		return c.Content(source)
	}
	if c := firstChildOfType(n, fallback); c != nil {
		return c.Content(source)
	}
	return ""
}

func firstChildOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// collapse joins a multi-line annotation into one line.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
