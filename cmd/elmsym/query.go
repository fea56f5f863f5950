// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"github.com/petar-djukic/elmsym/internal/manifest"
	"github.com/petar-djukic/elmsym/internal/scan"
	"github.com/petar-djukic/elmsym/pkg/elmsym"
	"github.com/petar-djukic/elmsym/pkg/types"
)

// Request methods shared by the one-shot commands and serve.
const (
	queryComplete   = "complete"
	queryHover      = "hover"
	queryDefinition = "definition"
	queryModules    = "modules"
	queryOutline    = "outline"
	querySymbols    = "symbols"
	queryReset      = "reset"
)

var errUnknownMethod = errors.New("unknown method")

// request is one query. Line and Col are 1-based; a zero Col means the end
// of the line. Text, when set, replaces the file contents on disk.
type request struct {
	ID     string `json:"id,omitempty"`
	Method string `json:"method"`
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Col    int    `json:"col,omitempty"`
	Word   string `json:"word,omitempty"`
	Text   string `json:"text,omitempty"`
}

// handler answers requests against one engine.
type handler struct {
	engine elmsym.Engine
	fs     afero.Fs
}

func (h *handler) handle(ctx context.Context, req request) (any, error) {
	switch req.Method {
	case queryComplete, queryHover:
		return h.query(ctx, req)
	case queryDefinition:
		lines, err := h.lines(req)
		if err != nil {
			return nil, err
		}
		word := req.Word
		if word == "" {
			line, col := cursor(lines, req)
			word = wordAt(lineAt(lines, line), col)
		}
		if word == "" {
			return nil, nil
		}
		return h.engine.Definition(ctx, req.File, lines, word)
	case queryModules:
		modules, err := h.engine.Modules(ctx, h.projectAnchor(req.File))
		if err != nil {
			return nil, err
		}
		if modules == nil {
			modules = []types.ModuleRecord{}
		}
		return modules, nil
	case querySymbols:
		locs, err := h.engine.Symbols(ctx, h.projectAnchor(req.File), req.Word)
		if err != nil {
			return nil, err
		}
		if locs == nil {
			locs = []types.Location{}
		}
		return locs, nil
	case queryOutline:
		if req.File == "" {
			return nil, errors.New("outline needs a file")
		}
		return h.engine.Outline(ctx, req.File)
	case queryReset:
		h.engine.Reset()
		return nil, nil
	default:
		return nil, errors.Errorf("%w: %q", errUnknownMethod, req.Method)
	}
}

func (h *handler) query(ctx context.Context, req request) ([]types.SymbolCandidate, error) {
	lines, err := h.lines(req)
	if err != nil {
		return nil, err
	}
	mode, err := types.ParseMode(req.Method)
	if err != nil {
		return nil, err
	}
	line, col := cursor(lines, req)

	token := req.Word
	switch {
	case token != "":
	case mode == types.Autocomplete:
		token = tokenBefore(lineAt(lines, line), col)
	default:
		token = wordAt(lineAt(lines, line), col)
	}

	cands, err := h.engine.Query(ctx, types.QueryContext{
		Mode:         mode,
		FileName:     req.File,
		CursorLine:   line,
		CursorColumn: col,
		CurrentToken: token,
		SourceLines:  lines,
	})
	if err != nil {
		return nil, err
	}
	if cands == nil {
		cands = []types.SymbolCandidate{}
	}
	return cands, nil
}

// lines returns the buffer of req, read from disk unless supplied inline.
func (h *handler) lines(req request) ([]string, error) {
	if req.File == "" {
		return nil, errors.Errorf("%s needs a file", req.Method)
	}
	if req.Text != "" {
		return scan.SplitLines(req.Text), nil
	}
	data, err := afero.ReadFile(h.fs, req.File)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", req.File, err)
	}
	return scan.SplitLines(string(data)), nil
}

// projectAnchor turns a directory into a path the manifest lookup can start
// from. Files are returned unchanged.
func (h *handler) projectAnchor(path string) string {
	if path == "" {
		path = "."
	}
	if ok, _ := afero.IsDir(h.fs, path); ok {
		return filepath.Join(path, manifest.ElmJSON)
	}
	return path
}

// cursor converts the 1-based position of req to 0-based line and column.
func cursor(lines []string, req request) (int, int) {
	line := max(req.Line-1, 0)
	text := lineAt(lines, line)
	if req.Col <= 0 {
		return line, len(text)
	}
	return line, min(req.Col-1, len(text))
}

func lineAt(lines []string, line int) string {
	if line < 0 || line >= len(lines) {
		return ""
	}
	return lines[line]
}

func newEngine() (elmsym.Engine, error) {
	return elmsym.New(elmsym.Config{
		ImportStrategy:              viper.GetString("import-strategy"),
		IncludeParamsInAutocomplete: viper.GetBool("include-params"),
		MaxScanWindow:               viper.GetInt("max-scan-window"),
		UserProjectIntellisense:     viper.GetBool("intellisense"),
		SourceDirectories:           viper.GetStringSlice("source-dirs"),
		Concurrency:                 viper.GetInt("concurrency"),
	})
}

// runOnce answers a single request and prints the result.
func runOnce(cmd *cobra.Command, req request) error {
	engine, err := newEngine()
	if err != nil {
		return errors.Errorf("initialization failed: %w", err)
	}
	h := &handler{engine: engine, fs: afero.NewOsFs()}
	result, err := h.handle(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), viper.GetString("format"), result)
}

// newQueryCmd creates the "complete" or "hover" command.
func newQueryCmd(method string) *cobra.Command {
	short := "List completion candidates at a position"
	if method == queryHover {
		short = "Describe the symbol at a position"
	}
	cmd := &cobra.Command{
		Use:   method + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, positionRequest(cmd, method, args[0]))
		},
	}
	addPositionFlags(cmd)
	return cmd
}

// newDefinitionCmd creates the "definition" command.
func newDefinitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definition FILE",
		Short: "Locate the declaration of the symbol at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, positionRequest(cmd, queryDefinition, args[0]))
		},
	}
	addPositionFlags(cmd)
	return cmd
}

// newModulesCmd creates the "modules" command.
func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules [DIR]",
		Short: "List the modules of a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request{Method: queryModules, File: "."}
			if len(args) == 1 {
				req.File = args[0]
			}
			return runOnce(cmd, req)
		},
	}
}

// newSymbolsCmd creates the "symbols" command.
func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols QUERY [DIR]",
		Short: "Search the declarations of a project",
		Long:  `Symbols lists declarations whose names contain QUERY, ignoring case. "Module:name" searches one module and "Module:" lists all of its declarations.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request{Method: querySymbols, File: ".", Word: args[0]}
			if len(args) == 2 {
				req.File = args[1]
			}
			return runOnce(cmd, req)
		},
	}
}

// newOutlineCmd creates the "outline" command.
func newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline FILE",
		Short: "List the top-level declarations of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, request{Method: queryOutline, File: args[0]})
		},
	}
}

func addPositionFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("line", "l", 1, "Cursor line, 1-based")
	cmd.Flags().IntP("col", "c", 0, "Cursor column, 1-based (0 is the end of the line)")
	cmd.Flags().StringP("word", "w", "", "Token to resolve instead of the one at the cursor")
}

func positionRequest(cmd *cobra.Command, method, file string) request {
	line, _ := cmd.Flags().GetInt("line")
	col, _ := cmd.Flags().GetInt("col")
	word, _ := cmd.Flags().GetString("word")
	return request{Method: method, File: file, Line: line, Col: col, Word: word}
}
