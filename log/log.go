// MIT License
//
// Copyright (c) 2025-2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package log defines the narrow logging contract the rest of the module
// depends on, so callers can plug in whatever structured logger they already
// run (slog, zap, logrus) without this module importing any of them directly.
package log

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is the minimal printf-style contract this module's components log
// through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// slogLogger adapts a *slog.Logger to Logger.
type slogLogger struct {
	inner *slog.Logger
}

// NewSlog adapts logger to the Logger interface. A nil logger falls back to
// slog.Default().
func NewSlog(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{inner: logger}
}

func (l *slogLogger) Debugf(format string, args ...any) { l.inner.Debug(sprintf(format, args...)) }
func (l *slogLogger) Infof(format string, args ...any)  { l.inner.Info(sprintf(format, args...)) }
func (l *slogLogger) Warnf(format string, args ...any)  { l.inner.Warn(sprintf(format, args...)) }
func (l *slogLogger) Errorf(format string, args ...any) { l.inner.Error(sprintf(format, args...)) }

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// discardLogger drops every message.
type discardLogger struct{}

func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}

// DiscardLogger is a Logger that drops every message; useful in tests.
var DiscardLogger Logger = discardLogger{}

// Default returns a Logger backed by slog writing to stderr.
func Default() Logger {
	return NewSlog(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}
