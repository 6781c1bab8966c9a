package vtxpass

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so sessions skip
// building their open/close attributes when logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// silent is the logger in effect until SetLogger is called.
var silent = slog.New(nopHandler{})

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes the diagnostics of the encoder and vertex packages to l.
// A nil l turns them off again.
//
// The logger is read once per encoder session, in encoder.New, and handed
// to natives that accept one. A session keeps that logger until
// EndEncoding, so SetLogger only affects sessions opened afterwards.
// ReflectLayout reads it on every call. Writers never log.
//
// What is logged:
//   - Debug: session opened and ended (with state change, elided,
//     pass-through and draw counts); calls the HAL adapter cannot
//     express; each reflected vertex layout.
//   - Warn: calls rejected because the session had already ended.
//
// SetLogger may be called from any goroutine.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	return current.Load()
}
