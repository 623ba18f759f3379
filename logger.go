// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package sglib

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record.
// Enabled reports false, so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger used by the scene graph.
// By default nothing is logged. Passing nil restores the
// default.
//
// Levels:
//   - [slog.LevelDebug]: traversal and device lifecycle
//   - [slog.LevelWarn]: rejected graph edits and unbalanced
//     matrix stacks
//   - [slog.LevelError]: resource loading and device call
//     failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger { return loggerPtr.Load() }
