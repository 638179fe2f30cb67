// Package logger provides leveled console logging for analysis sessions and
// the CLI. Implementations are safe for concurrent use.
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

// Logger is the logging interface consumed by the pipeline. A nil Logger is
// never passed around; use Nop for silence.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Log level constants for filtering.
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger logs to a writer with [HH:MM:SS] [LEVEL] prefixes. Color is
// enabled automatically when the writer is a TTY.
type ConsoleLogger struct {
	writer      io.Writer
	level       int
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to w at the given level
// (debug, info, warn, error; case-insensitive). Empty or unknown levels
// default to info. A nil writer discards all messages.
func NewConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		level:       parseLevel(level),
		colorOutput: isTerminal(w),
	}
}

// parseLevel normalizes a level name to its numeric value.
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

// isTerminal reports whether w is a TTY that supports colors.
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

var levelColors = map[int]*color.Color{
	levelDebug: color.New(color.Faint),
	levelInfo:  color.New(color.FgCyan),
	levelWarn:  color.New(color.FgYellow),
	levelError: color.New(color.FgRed),
}

var levelNames = map[int]string{
	levelDebug: "DEBUG",
	levelInfo:  "INFO",
	levelWarn:  "WARN",
	levelError: "ERROR",
}

func (cl *ConsoleLogger) log(level int, message string) {
	if cl.writer == nil || level < cl.level {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	label := levelNames[level]
	if cl.colorOutput {
		label = levelColors[level].Sprint(label)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", timestamp, label, message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) { cl.log(levelDebug, message) }

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) { cl.log(levelInfo, message) }

// LogWarn logs a warn-level message.
func (cl *ConsoleLogger) LogWarn(message string) { cl.log(levelWarn, message) }

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) { cl.log(levelError, message) }

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) LogDebug(string) {}
func (nopLogger) LogInfo(string)  {}
func (nopLogger) LogWarn(string)  {}
func (nopLogger) LogError(string) {}

// Nop returns a Logger that discards all messages.
func Nop() Logger {
	return nopLogger{}
}
