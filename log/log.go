// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's structured logger.
// Package level loggers are created with WithContext and resolve the root
// handler on every call, so they follow handler changes made after init.
package log

import (
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels accepted by Init.
const (
	LvlCrit = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	// New returns a logger with ctx appended to its context.
	New(ctx ...any) Logger
}

// WithContext returns a logger that prepends ctx to every record.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &lazyLogger{}
}

// Init installs a terminal handler writing to w at the given legacy
// verbosity level.
func Init(w io.Writer, verbosity int, useColor bool) {
	ethlog.SetDefault(ethlog.NewLogger(ethlog.NewTerminalHandlerWithLevel(w, ethlog.FromLegacyLevel(verbosity), useColor)))
}

// Discard silences all loggers.
func Discard() {
	ethlog.SetDefault(ethlog.NewLogger(ethlog.DiscardHandler()))
}

// NewLogger returns a logger backed by the given handler instead of the
// root one.
func NewLogger(h slog.Handler) Logger {
	return &boundLogger{ethlog.NewLogger(h)}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }

// Crit logs at critical level. Unlike go-ethereum it does not exit the process.
func (l *lazyLogger) Crit(msg string, ctx ...any) {
	l.resolve().Write(ethlog.LevelCrit, msg, ctx...)
}

func (l *lazyLogger) New(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	return &lazyLogger{ctx: append(append(merged, l.ctx...), ctx...)}
}

type boundLogger struct {
	l ethlog.Logger
}

func (b *boundLogger) Trace(msg string, ctx ...any) { b.l.Trace(msg, ctx...) }
func (b *boundLogger) Debug(msg string, ctx ...any) { b.l.Debug(msg, ctx...) }
func (b *boundLogger) Info(msg string, ctx ...any)  { b.l.Info(msg, ctx...) }
func (b *boundLogger) Warn(msg string, ctx ...any)  { b.l.Warn(msg, ctx...) }
func (b *boundLogger) Error(msg string, ctx ...any) { b.l.Error(msg, ctx...) }
func (b *boundLogger) Crit(msg string, ctx ...any)  { b.l.Write(ethlog.LevelCrit, msg, ctx...) }
func (b *boundLogger) New(ctx ...any) Logger        { return &boundLogger{b.l.With(ctx...)} }
