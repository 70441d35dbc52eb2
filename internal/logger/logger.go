// Package logger writes leveled diagnostics for the pilot CLI.
// Warnings are always printed. Info and debug lines appear with
// --verbose, so users can follow each upload step on stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level orders message severity; higher levels are more verbose.
type Level int

// Log levels.
const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
)

func (l Level) prefix() string {
	switch l {
	case LevelWarn:
		return "[WARN] "
	case LevelInfo:
		return "[INFO] "
	default:
		return "[DEBUG] "
	}
}

var (
	mu     sync.RWMutex
	level  = LevelWarn
	output io.Writer = os.Stderr
)

// SetLevel sets the most verbose level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetVerbose switches between debug output and warnings only.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelWarn)
}

// IsVerbose reports whether info messages are printed.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return level >= LevelInfo
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf holds the write lock so lines from concurrent callers do not interleave.
func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l > level {
		return
	}
	fmt.Fprintf(output, l.prefix()+format+"\n", args...)
}

// Debug prints a message at debug level.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info prints a message at info level.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn prints a warning. Warnings are never suppressed.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}
