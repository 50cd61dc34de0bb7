// Package logx is the process-wide leveled logger.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Level is a log severity
type Level = slog.Level

const (
	LevelDebug Level = slog.LevelDebug
	LevelInfo  Level = slog.LevelInfo
	LevelWarn  Level = slog.LevelWarn
	LevelError Level = slog.LevelError
)

// Logger is a component logger carrying fixed attributes
type Logger struct {
	l *slog.Logger
}

var (
	level   = new(slog.LevelVar)
	std     atomic.Pointer[slog.Logger]
	exitFn  = os.Exit
	useJSON atomic.Bool
)

func init() {
	std.Store(newSlog(os.Stderr))
}

func newSlog(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if useJSON.Load() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetLevel changes the minimum level for every logger
func SetLevel(l Level) {
	level.Set(l)
}

// ParseLevel maps debug|info|warn|error to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetOutput redirects the default logger
func SetOutput(w io.Writer) {
	std.Store(newSlog(w))
}

// SetJSON switches between JSON and text output on w
func SetJSON(enabled bool, w io.Writer) {
	useJSON.Store(enabled)
	std.Store(newSlog(w))
}

func logger() *slog.Logger { return std.Load() }

// With returns a component logger with the given key/value pairs attached
func With(args ...any) *Logger {
	return &Logger{l: logger().With(args...)}
}

func Debug(msg string, args ...any) { logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { logger().Warn(msg, args...) }
func Error(msg string, args ...any) { logger().Error(msg, args...) }

func Debugf(format string, args ...any) { logf(LevelDebug, format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, format, args...) }

// Fatalf logs at error level and exits the process
func Fatalf(format string, args ...any) {
	logf(LevelError, format, args...)
	exitFn(1)
}

func logf(l Level, format string, args ...any) {
	lg := logger()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

func (lg *Logger) Debug(msg string, args ...any) { lg.l.Debug(msg, args...) }
func (lg *Logger) Info(msg string, args ...any)  { lg.l.Info(msg, args...) }
func (lg *Logger) Warn(msg string, args ...any)  { lg.l.Warn(msg, args...) }
func (lg *Logger) Error(msg string, args ...any) { lg.l.Error(msg, args...) }

func (lg *Logger) Infof(format string, args ...any) {
	lg.l.Info(fmt.Sprintf(format, args...))
}

func (lg *Logger) Warnf(format string, args ...any) {
	lg.l.Warn(fmt.Sprintf(format, args...))
}

func (lg *Logger) Errorf(format string, args ...any) {
	lg.l.Error(fmt.Sprintf(format, args...))
}

// With adds more attributes to a component logger
func (lg *Logger) With(args ...any) *Logger {
	return &Logger{l: lg.l.With(args...)}
}
