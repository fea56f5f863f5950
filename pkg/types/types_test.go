// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"hover", "HOVER", " hover "} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Hover, m)
	}
	for _, s := range []string{"autocomplete", "complete", "Completion"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Autocomplete, m)
	}
	_, err := ParseMode("rename")
	assert.Error(t, err)
}

func TestParseImportStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want ImportStrategy
	}{
		{in: "ignore", want: StrategyIgnore},
		{in: "dotIsFolder", want: StrategyDotIsFolder},
		{in: "dynamiclookup", want: StrategyDynamicLookup},
		{in: "semiDynamicLookup", want: StrategySemiDynamicLookup},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseImportStrategy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseImportStrategy("fastest")
	assert.Error(t, err)

	assert.True(t, StrategyDynamicLookup.UsesLookup())
	assert.True(t, StrategySemiDynamicLookup.UsesLookup())
	assert.False(t, StrategyDotIsFolder.UsesLookup())
	assert.Equal(t, "semiDynamicLookup", StrategySemiDynamicLookup.String())
}

func TestInsertText(t *testing.T) {
	c := SymbolCandidate{Name: "update", FullName: "update msg model"}
	assert.Equal(t, "update", c.InsertText("up"))
	assert.Equal(t, "update msg model", c.InsertText("Main.up"))
}

func TestImportRecord(t *testing.T) {
	all := ImportRecord{Module: "Html", Exposing: []string{".."}}
	assert.True(t, all.ExposesAll())
	assert.Equal(t, "import Html exposing(..)", all.Signature())

	some := ImportRecord{Module: "Html.Attributes", Alias: "Attr", Exposing: []string{"class", "id"}}
	assert.False(t, some.ExposesAll())
	assert.Equal(t, "import Html.Attributes exposing(class, id)", some.Signature())

	assert.Equal(t, "import Json.Decode", ImportRecord{Module: "Json.Decode"}.Signature())
}

func TestSymbolKind_Text(t *testing.T) {
	data, err := json.Marshal(Location{Name: "Circle", Kind: UnionType})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"UnionType"`)

	var loc Location
	require.NoError(t, json.Unmarshal(data, &loc))
	assert.Equal(t, UnionType, loc.Kind)

	var k SymbolKind
	assert.Error(t, k.UnmarshalText([]byte("Class")))
}
