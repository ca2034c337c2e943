// Package logger provides the leveled logger used across beacon. Failures
// that the launcher swallows by design (unreadable cache files, skipped
// scan subtrees) are still recorded here for the operator.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// Logger writes timestamped, optionally colored log lines to a writer.
// It is safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	writer  io.Writer
	level   int
	colored bool
	closeFn func() error
}

// New creates a Logger writing to w. Valid levels are debug, info, warn
// and error; anything else defaults to info. Color is enabled only when w
// is a terminal.
func New(w io.Writer, level string) *Logger {
	return &Logger{
		writer:  w,
		level:   parseLevel(level),
		colored: isTerminal(w),
	}
}

// NewFile creates a Logger appending to the file at path. The file is
// created if absent. Color is never used for file output.
func NewFile(path, level string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &Logger{
		writer:  f,
		level:   parseLevel(level),
		closeFn: f.Close,
	}, nil
}

// Discard returns a Logger that drops everything. Used in tests.
func Discard() *Logger {
	return &Logger{writer: io.Discard, level: levelError + 1}
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l.closeFn != nil {
		return l.closeFn()
	}
	return nil
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(levelDebug, "DEBUG", color.FgHiBlack, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(levelInfo, "INFO", color.FgCyan, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(levelWarn, "WARN", color.FgYellow, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(levelError, "ERROR", color.FgRed, format, args...)
}

func (l *Logger) logf(level int, tag string, attr color.Attribute, format string, args ...interface{}) {
	if l.writer == nil || level < l.level {
		return
	}

	if l.colored {
		tag = color.New(attr).Sprint(tag)
	}

	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s %s\n", time.Now().Format("15:04:05"), tag, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.writer, line)
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
