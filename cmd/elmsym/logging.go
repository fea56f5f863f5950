// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

// setupLogging installs a tint handler wrapped by slogctx as the default
// logger and returns ctx carrying it.
func setupLogging(ctx context.Context, w io.Writer, level string, color bool) (context.Context, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return ctx, errors.Errorf("invalid log level %q: %w", level, err)
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05.000",
		NoColor:    !color,
	})
	logger := slog.New(slogctx.NewHandler(handler, &slogctx.HandlerOptions{}))
	slog.SetDefault(logger)

	if ctx == nil {
		ctx = context.Background()
	}
	return slogctx.NewCtx(ctx, logger), nil
}
