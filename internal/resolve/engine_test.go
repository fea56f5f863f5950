// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/types"
)

const projectRoot = "/proj"

const project = `
-- elm.json --
{
    "type": "application",
    "source-directories": ["src"]
}
-- src/Main.elm --
module Main exposing (main)

import Html exposing (Html, text)
import Utils exposing (..)
import Page.Home as Home
import Foo.Bar
import Foo.Baz
import Models exposing (Model)

view : Model -> Html msg
view model =
    text model.name

main =
    text "hi"
-- src/Utils.elm --
module Utils exposing (..)

add : Int -> Int -> Int
add a b =
    a + b

type Color = Red | Green
-- src/Page/Home.elm --
module Page.Home exposing (view)

view : String -> String
view s =
    s
-- src/Foo/Bar.elm --
module Foo.Bar exposing (..)

bar = 1
-- src/Foo/Baz.elm --
module Foo.Baz exposing (..)

baz = 2
-- src/Models.elm --
module Models exposing (..)

type alias Model =
    { name : String
    , user : User
    }

type alias User =
    { email : String
    , age : Int
    }
`

const mainFile = projectRoot + "/src/Main.elm"

// loadProject writes a txtar archive into a fresh in-memory filesystem
// below projectRoot.
func loadProject(t *testing.T, archive string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(projectRoot, f.Name), f.Data, 0o644))
	}
	return fs
}

func mainQuery(t *testing.T, fs afero.Fs, mode types.Mode, line int, token string) types.QueryContext {
	t.Helper()
	data, err := afero.ReadFile(fs, mainFile)
	require.NoError(t, err)
	return types.QueryContext{
		Mode:         mode,
		FileName:     mainFile,
		CursorLine:   line,
		CurrentToken: token,
		SourceLines:  scan.SplitLines(string(data)),
	}
}

func config(strategy types.ImportStrategy) types.ProjectConfig {
	return types.ProjectConfig{ImportStrategy: strategy, MaxScanWindow: 10}
}

func candidateNames(cands []types.SymbolCandidate) []string {
	var out []string
	for _, c := range cands {
		out = append(out, c.Name)
	}
	return out
}

func TestQuery_AmbiguousPrefixReturnsModules(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{Concurrency: 2})

	got, err := e.Query(context.Background(), mainQuery(t, fs, types.Autocomplete, 11, "Foo."), config(types.StrategySemiDynamicLookup))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Bar", "Baz"}, candidateNames(got))
	for _, c := range got {
		assert.Equal(t, types.Module, c.Kind)
	}
	assert.Equal(t, "Foo.Bar", got[0].FullName)
}

func TestQuery_QualifiedCompletionListsModule(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{})

	got, err := e.Query(context.Background(), mainQuery(t, fs, types.Autocomplete, 11, "Utils."), config(types.StrategySemiDynamicLookup))
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "Red", "Green"}, candidateNames(got))
	for _, c := range got {
		assert.Equal(t, projectRoot+"/src/Utils.elm", c.OriginFile)
	}
}

func TestQuery_QualifiedHover(t *testing.T) {
	tests := []struct {
		name     string
		strategy types.ImportStrategy
		token    string
		want     []string
	}{
		{name: "module name", strategy: types.StrategyDotIsFolder, token: "Utils.add", want: []string{"add"}},
		{name: "alias through folders", strategy: types.StrategyDotIsFolder, token: "Home.view", want: []string{"view"}},
		{name: "alias through lookup", strategy: types.StrategyDynamicLookup, token: "Home.view", want: []string{"view"}},
		{name: "ignore keeps dotted file name", strategy: types.StrategyIgnore, token: "Home.view", want: nil},
		{name: "unknown module", strategy: types.StrategyDynamicLookup, token: "List.map", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := loadProject(t, project)
			e := New(fs, Options{})

			got, err := e.Query(context.Background(), mainQuery(t, fs, types.Hover, 11, tt.token), config(tt.strategy))
			require.NoError(t, err)
			assert.Equal(t, tt.want, candidateNames(got))
		})
	}
}

func TestQuery_HoverDocumentsOrigin(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{})

	got, err := e.Query(context.Background(), mainQuery(t, fs, types.Hover, 11, "Utils.add"), config(types.StrategyDotIsFolder))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "add : Int -> Int -> Int", got[0].Signature)
	assert.Equal(t, "--"+projectRoot+"/src/Utils.elm", got[0].Documentation)
}

func TestQuery_ParameterFields(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{name: "record parameter", token: "model.", want: []string{"name", "user"}},
		{name: "nested record", token: "model.user.", want: []string{"email", "age"}},
		{name: "unknown field", token: "model.missing.", want: nil},
		{name: "not a parameter", token: "other.", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := loadProject(t, project)
			e := New(fs, Options{})

			got, err := e.Query(context.Background(), mainQuery(t, fs, types.Autocomplete, 11, tt.token), config(types.StrategyDotIsFolder))
			require.NoError(t, err)
			assert.Equal(t, tt.want, candidateNames(got))
			for _, c := range got {
				assert.Equal(t, types.TypeAliasField, c.Kind)
			}
		})
	}
}

func TestQuery_UnqualifiedCompletion(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{})

	got, err := e.Query(context.Background(), mainQuery(t, fs, types.Autocomplete, 11, "ad"), config(types.StrategySemiDynamicLookup))
	require.NoError(t, err)

	want := []string{"Html", "Utils", "Page.Home", "Foo.Bar", "Foo.Baz", "Models", "add"}
	assert.Equal(t, want, candidateNames(got))
	for _, c := range got[:6] {
		assert.Equal(t, types.Module, c.Kind)
		assert.Equal(t, "Module imported at the top of this file", c.Documentation)
	}
	assert.Equal(t, "import Html exposing(Html, text)", got[0].Signature)
	assert.Equal(t, types.Function, got[6].Kind)
}

func TestQuery_PrimitivesInTypePosition(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{})

	got, err := e.Query(context.Background(), mainQuery(t, fs, types.Autocomplete, 9, "In"), config(types.StrategyDotIsFolder))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, []string{"Int", "String", "Bool", "Float"}, candidateNames(got[:4]))
	for _, c := range got[:4] {
		assert.Equal(t, types.BuiltinType, c.Kind)
		assert.Equal(t, "--Core type", c.Documentation)
	}
}

func TestQuery_MissingManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/loose/Main.elm", []byte("module Main exposing (..)\n\nmain = 1\n"), 0o644))
	e := New(fs, Options{})

	got, err := e.Query(context.Background(), types.QueryContext{
		Mode:         types.Autocomplete,
		FileName:     "/loose/Main.elm",
		CurrentToken: "ma",
		SourceLines:  []string{"module Main exposing (..)", "", "main = 1"},
	}, config(types.StrategyDynamicLookup))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQuery_Idempotent(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{Concurrency: 4})
	cfg := config(types.StrategySemiDynamicLookup)

	for _, token := range []string{"ad", "Utils.", "model.", "Foo."} {
		q := mainQuery(t, fs, types.Autocomplete, 11, token)
		first, err := e.Query(context.Background(), q, cfg)
		require.NoError(t, err)
		second, err := e.Query(context.Background(), q, cfg)
		require.NoError(t, err)
		assert.Equal(t, first, second, token)
	}
}

func TestQuery_SemiDynamicCacheNeedsReset(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{})
	cfg := config(types.StrategySemiDynamicLookup)

	q := mainQuery(t, fs, types.Autocomplete, 11, "Extra.")
	q.SourceLines = append([]string{"import Extra"}, q.SourceLines...)

	got, err := e.Query(context.Background(), q, cfg)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, afero.WriteFile(fs, projectRoot+"/src/Extra.elm", []byte("module Extra exposing (..)\n\nextra = 3\n"), 0o644))

	got, err = e.Query(context.Background(), q, cfg)
	require.NoError(t, err)
	assert.Empty(t, got, "cached catalog must not see new files")

	e.Catalogs().Cache().Reset()

	got, err = e.Query(context.Background(), q, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"extra"}, candidateNames(got))
}

func TestQuery_DynamicLookupSeesNewFiles(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{})
	cfg := config(types.StrategyDynamicLookup)

	q := mainQuery(t, fs, types.Autocomplete, 11, "Extra.")
	q.SourceLines = append([]string{"import Extra"}, q.SourceLines...)

	require.NoError(t, afero.WriteFile(fs, projectRoot+"/src/Extra.elm", []byte("module Extra exposing (..)\n\nextra = 3\n"), 0o644))

	got, err := e.Query(context.Background(), q, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"extra"}, candidateNames(got))
}

func TestQuery_Cancelled(t *testing.T) {
	fs := loadProject(t, project)
	e := New(fs, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Query(ctx, mainQuery(t, fs, types.Autocomplete, 11, "ad"), config(types.StrategyDotIsFolder))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContainsSegments(t *testing.T) {
	tests := []struct {
		module string
		prefix string
		want   bool
	}{
		{"Page.Home.View", "Home", true},
		{"Page.Home.View", "Home.View", true},
		{"Page.Home.View", "Hom", false},
		{"Page", "Page", false},
		{"Foo.Bar", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.module+"/"+tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, containsSegments(tt.module, tt.prefix))
		})
	}
}

func TestSignatureType(t *testing.T) {
	typ, ok := signatureType("update : Msg -> Model -> ( Model, Cmd Msg )", 2)
	require.True(t, ok)
	assert.Equal(t, "Model", typ)

	typ, ok = signatureType("view : (Maybe User) -> Html msg", 1)
	require.True(t, ok)
	assert.Equal(t, "Maybe", typ)

	_, ok = signatureType("view : Model -> Html msg", 5)
	assert.False(t, ok)
}
