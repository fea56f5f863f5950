// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package outline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/elmsym/pkg/types"
)

const shapesSource = `module Shapes exposing (..)


type alias Point =
    { x : Float
    , y : Float
    }


type Shape
    = Circle Point Float
    | Square Point Float


area : Shape -> Float
area shape =
    case shape of
        Circle _ r ->
            pi * r * r

        Square _ side ->
            side * side


origin =
    { x = 0, y = 0 }
`

func TestExtract(t *testing.T) {
	symbols, err := Extract(context.Background(), []byte(shapesSource))
	require.NoError(t, err)

	type entry struct {
		name      string
		kind      Kind
		container string
		line      int
	}
	var got []entry
	for _, s := range symbols {
		got = append(got, entry{s.Name, s.Kind, s.Container, s.Line})
	}

	want := []entry{
		{"Shapes", KindModule, "", 1},
		{"Point", KindTypeAlias, "", 4},
		{"Shape", KindType, "", 10},
		{"Circle", KindConstructor, "Shape", 11},
		{"Square", KindConstructor, "Shape", 12},
		{"area", KindFunction, "", 16},
		{"origin", KindFunction, "", 25},
	}
	assert.Equal(t, want, got)
}

func TestExtract_FunctionSignature(t *testing.T) {
	symbols, err := Extract(context.Background(), []byte(shapesSource))
	require.NoError(t, err)

	byName := make(map[string]Symbol)
	for _, s := range symbols {
		byName[s.Name] = s
	}
	assert.Equal(t, "area : Shape -> Float", byName["area"].Signature)
	assert.Empty(t, byName["origin"].Signature)
	assert.Equal(t, 1, byName["area"].Column)
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		sym  types.SymbolKind
	}{
		{KindModule, "module", types.Module},
		{KindTypeAlias, "typeAlias", types.TypeAlias},
		{KindConstructor, "constructor", types.UnionType},
		{KindFunction, "function", types.Function},
		{KindOperator, "operator", types.Function},
		{Kind(99), "unknown", types.Function},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.sym, tt.kind.SymbolKind())
		})
	}
}
