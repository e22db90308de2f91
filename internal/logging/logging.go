// Package logging provides the leveled stderr logger used across bmad-mcp.
//
// The MCP stdio transport owns stdout, so every diagnostic line goes to
// stderr. Output format is "[HH:MM:SS] [LEVEL] message". Color is applied
// to the level tag only when the writer is a terminal and NO_COLOR is not
// set.
package logging

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

// Level orders log severities from most to least verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the uppercase tag printed in log lines.
func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps a configuration string to a Level. Empty or unknown
// strings default to info.
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

// Logger is a mutex-guarded leveled logger. A nil writer discards all
// output, which makes the zero value safe to use in tests.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	min   Level
	color bool
}

// New creates a Logger writing to w at the given minimum level.
func New(w io.Writer, min Level) *Logger {
	return &Logger{w: w, min: min, color: isTerminal(w)}
}

// NewStderr creates the standard server logger.
func NewStderr(min Level) *Logger {
	return New(os.Stderr, min)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{}
}

// isTerminal reports whether w is a TTY that should receive color codes.
// color.NoColor already accounts for the NO_COLOR convention.
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

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(lv Level, format string, args ...any) {
	if l == nil || l.w == nil || lv < l.min {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tag := lv.String()
	if l.color {
		tag = levelColor(lv).Sprint(tag)
	}
	fmt.Fprintf(l.w, "[%s] [%s] %s\n", time.Now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
}

func levelColor(lv Level) *color.Color {
	switch lv {
	case LevelDebug:
		return color.New(color.FgCyan)
	case LevelInfo:
		return color.New(color.FgBlue)
	case LevelWarn:
		return color.New(color.FgYellow)
	case LevelError:
		return color.New(color.FgRed)
	default:
		return color.New()
	}
}
