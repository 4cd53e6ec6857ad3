// Package log is a small structured, leveled logger: call-site info
// from github.com/go-stack/stack, colorized level-tagged output via
// github.com/fatih/color and github.com/mattn/go-colorable for
// TTY-aware writers (spec §10.2).
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is a log severity, ordered low-to-high.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var levelColor = map[Level]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgGreen),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

// Logger writes leveled, call-site-annotated lines to an underlying
// writer, colorizing only when that writer is a real terminal.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	minimum Level
	colored bool
}

// New wraps out (stdout/stderr by default) with TTY-aware colorization,
// falling back to plain output for non-TTY sinks (e.g. redirected
// files, CI logs).
func New(out *os.File, minimum Level) *Logger {
	return &Logger{
		out:     colorable.NewColorable(out),
		minimum: minimum,
		colored: isatty.IsTerminal(out.Fd()),
	}
}

// Default is a process-wide logger writing to stderr at info level.
var Default = New(os.Stderr, LevelInfo)

// ParseLevel maps a config string (spec §10.1 Config.LogLevel) to a Level.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ctx is a variadic key/value pairs list, e.g. Info("hydrated", "terms", n).
func (l *Logger) log(lvl Level, msg string, ctx ...interface{}) {
	if lvl < l.minimum {
		return
	}
	call := stack.Caller(2)
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s [%s] %s %s", time.Now().Format("15:04:05.000"), lvl, msg, formatCtx(ctx))
	site := fmt.Sprintf(" (%n %+s:%d)", call, call, call)
	if l.colored {
		levelColor[lvl].Fprint(l.out, line)
		fmt.Fprintln(l.out, site)
		return
	}
	fmt.Fprintln(l.out, line+site)
}

func formatCtx(ctx []interface{}) string {
	s := ""
	for i := 0; i+1 < len(ctx); i += 2 {
		s += fmt.Sprintf("%v=%v ", ctx[i], ctx[i+1])
	}
	return s
}

func (l *Logger) Debug(msg string, ctx ...interface{}) { l.log(LevelDebug, msg, ctx...) }
func (l *Logger) Info(msg string, ctx ...interface{})  { l.log(LevelInfo, msg, ctx...) }
func (l *Logger) Warn(msg string, ctx ...interface{})  { l.log(LevelWarn, msg, ctx...) }
func (l *Logger) Error(msg string, ctx ...interface{}) { l.log(LevelError, msg, ctx...) }
