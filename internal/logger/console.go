// Package logger provides logging implementations for dupescan.
//
// The logger package records scan progress: session start, per-file task
// outcomes, skipped entries, unreadable directories, and the final summary.
// Implementations are thread-safe and support various output destinations
// (console, file, etc.).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/dupescan/internal/models"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs scan progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is enabled when the writer itself is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// SetColor forces color output on or off.
func (cl *ConsoleLogger) SetColor(enabled bool) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.colorOutput = enabled
}

// isTerminal reports whether w is a terminal file and NO_COLOR is unset.
// The writer itself is checked, so stderr is colored only when stderr is a TTY.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// paint returns a color that ignores the package-wide stdout detection;
// callers decide via colorOutput.
func paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// IsValidLevel reports whether level names a supported log level.
func IsValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	if !IsValidLevel(level) {
		return "info"
	}
	return strings.ToLower(strings.TrimSpace(level))
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// logWithLevel writes "[HH:MM:SS] [LEVEL] message" if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch strings.ToUpper(level) {
	case "TRACE":
		return paint(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return paint(color.FgCyan).Sprint(level)
	case "INFO":
		return paint(color.FgBlue).Sprint(level)
	case "WARN":
		return paint(color.FgYellow).Sprint(level)
	case "ERROR":
		return paint(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogScanStart logs the start of a scan session at INFO level.
func (cl *ConsoleLogger) LogScanStart(sessionID, root string, workers int) {
	cl.LogInfo(fmt.Sprintf("Scanning %s with %d workers (session %s)", root, workers, sessionID))
}

// LogTaskResult logs the outcome of one file at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] <state> <path> (<duration>)"
func (cl *ConsoleLogger) LogTaskResult(result models.TaskResult) error {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return nil
	}

	cl.LogDebug(describeTaskResult(result))
	return nil
}

// describeTaskResult renders a task result without color.
func describeTaskResult(result models.TaskResult) string {
	switch result.State {
	case models.StateReported:
		return fmt.Sprintf("duplicate %s = %s (%s)", result.Path, result.Original, result.Duration.Round(time.Microsecond))
	case models.StateRecorded:
		return fmt.Sprintf("recorded %s %s (%s)", result.Digest, result.Path, result.Duration.Round(time.Microsecond))
	case models.StateFailed:
		msg := fmt.Sprint(result.Error)
		if strings.HasPrefix(msg, result.Path+" ") {
			return "failed " + msg
		}
		return fmt.Sprintf("failed %s: %s", result.Path, msg)
	default:
		return fmt.Sprintf("%s %s", result.State, result.Path)
	}
}

// LogSkip logs an entry left out of the scan at DEBUG level.
func (cl *ConsoleLogger) LogSkip(path, reason string) {
	cl.LogDebug(fmt.Sprintf("skipped %s: %s", path, reason))
}

// LogWalkError logs a directory that could not be read at WARN level.
func (cl *ConsoleLogger) LogWalkError(path string, err error) {
	cl.LogWarn(fmt.Sprintf("cannot read directory %s: %v", path, err))
}

// LogSummary logs the scan summary at INFO level.
func (cl *ConsoleLogger) LogSummary(summary *models.Summary) {
	if cl.writer == nil || summary == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var output string

	if cl.colorOutput {
		header := paint(color.Bold).Sprint("=== Scan Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] Files hashed: %d\n", ts, summary.Files)
		output += fmt.Sprintf("[%s] Unique: %d\n", ts, summary.Unique)
		if summary.Duplicates > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, paint(color.FgYellow).Sprintf("Duplicates: %d", summary.Duplicates))
		} else {
			output += fmt.Sprintf("[%s] Duplicates: %d\n", ts, summary.Duplicates)
		}
		if summary.Failed > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, paint(color.FgRed).Sprintf("Failed: %d", summary.Failed))
		} else {
			output += fmt.Sprintf("[%s] Failed: %d\n", ts, summary.Failed)
		}
	} else {
		output = fmt.Sprintf("[%s] === Scan Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Files hashed: %d\n", ts, summary.Files)
		output += fmt.Sprintf("[%s] Unique: %d\n", ts, summary.Unique)
		output += fmt.Sprintf("[%s] Duplicates: %d\n", ts, summary.Duplicates)
		output += fmt.Sprintf("[%s] Failed: %d\n", ts, summary.Failed)
	}
	if summary.WalkErrors > 0 {
		output += fmt.Sprintf("[%s] Unreadable directories: %d\n", ts, summary.WalkErrors)
	}
	output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(summary.Duration()))

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}
