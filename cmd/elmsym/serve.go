// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/petar-djukic/elmsym/internal/manifest"
	"github.com/petar-djukic/elmsym/pkg/elmsym"
)

const maxRequestSize = 16 << 20

// response answers one request. ID echoes the request id, or carries the
// generated one when the client sent none.
type response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// server reads JSON-lines requests and writes one response line each.
type server struct {
	handler
	watch bool

	mu      sync.Mutex
	watched map[string]bool // Project roots with a running watcher
	wg      sync.WaitGroup
}

func newServer(engine elmsym.Engine, fs afero.Fs, watch bool) *server {
	return &server{
		handler: handler{engine: engine, fs: fs},
		watch:   watch,
		watched: make(map[string]bool),
	}
}

// newServeCmd creates the "serve" command.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer JSON-lines requests on stdin",
		Long: `Serve reads one JSON request per line from stdin and writes one JSON response per line to stdout.
A request has a method (complete, hover, definition, modules, symbols, outline, reset), a file,
a 1-based line and col, and optionally a word or the unsaved buffer text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return errors.Errorf("initialization failed: %w", err)
			}
			watch, _ := cmd.Flags().GetBool("watch")

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			return newServer(engine, afero.NewOsFs(), watch).serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().Bool("watch", false, "Reset module lists when Elm files are added or removed")
	return cmd
}

// serve handles requests from r until r is exhausted or ctx is done.
func (s *server) serve(ctx context.Context, r io.Reader, w io.Writer) error {
	watchCtx, stopWatching := context.WithCancel(ctx)
	defer func() {
		stopWatching()
		s.wg.Wait()
	}()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	enc := json.NewEncoder(w)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := enc.Encode(s.respond(ctx, watchCtx, line)); err != nil {
			return errors.Errorf("writing response: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Errorf("reading requests: %w", err)
	}
	return nil
}

func (s *server) respond(ctx, watchCtx context.Context, data []byte) response {
	reqID := xid.New().String()
	ctx = slogctx.With(ctx, "request_id", reqID)

	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		slogctx.Warn(ctx, "malformed request", "error", err)
		return response{ID: reqID, Error: "malformed request: " + err.Error()}
	}
	resp := response{ID: req.ID}
	if resp.ID == "" {
		resp.ID = reqID
	}

	s.startWatch(watchCtx, req.File)

	start := time.Now()
	result, err := s.handle(ctx, req)
	if err != nil {
		slogctx.Warn(ctx, "request failed", "method", req.Method, "file", req.File, "error", err)
		resp.Error = err.Error()
		return resp
	}
	slogctx.Debug(ctx, "request handled", "method", req.Method, "file", req.File, "duration", time.Since(start))
	resp.Result = result
	return resp
}

// startWatch starts one watcher per project root the first time a request
// names a file in it.
func (s *server) startWatch(ctx context.Context, file string) {
	if !s.watch || file == "" {
		return
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	file = s.projectAnchor(file)
	root, err := manifest.FindRoot(s.fs, file)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watched[root] {
		return
	}
	s.watched[root] = true

	s.wg.Go(func() {
		slogctx.Info(ctx, "watching project", "root", root)
		if err := s.engine.Watch(ctx, file); err != nil {
			slogctx.Warn(ctx, "project watcher stopped", "root", root, "error", err)
		}
	})
}
