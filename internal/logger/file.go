package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/dupescan/internal/models"
)

// FileLogger writes scan events to a per-run log file in a log directory.
// It creates run-YYYYMMDD-HHMMSS.log files and maintains a latest.log
// symlink pointing to the most recent run. It is thread-safe and
// implements the scanner.Logger interface.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLoggerWithLevel creates the log directory if needed, opens a
// timestamped run log file, and creates/updates the latest.log symlink.
func NewFileLoggerWithLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== dupescan Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the log file for this run.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// LogScanStart records the session ID, root and pool size at INFO level.
func (fl *FileLogger) LogScanStart(sessionID, root string, workers int) {
	fl.logWithLevel("INFO", fmt.Sprintf("Session %s: scanning %s with %d workers", sessionID, root, workers))
}

// LogTaskResult records one file outcome. Failures are logged at WARN,
// everything else at DEBUG.
func (fl *FileLogger) LogTaskResult(result models.TaskResult) error {
	level := "DEBUG"
	if result.State == models.StateFailed {
		level = "WARN"
	}
	fl.logWithLevel(level, describeTaskResult(result))
	return nil
}

// LogSkip records an entry left out of the scan at DEBUG level.
func (fl *FileLogger) LogSkip(path, reason string) {
	fl.logWithLevel("DEBUG", fmt.Sprintf("skipped %s: %s", path, reason))
}

// LogWalkError records an unreadable directory at WARN level.
func (fl *FileLogger) LogWalkError(path string, err error) {
	fl.logWithLevel("WARN", fmt.Sprintf("cannot read directory %s: %v", path, err))
}

// LogSummary records the final statistics at INFO level.
func (fl *FileLogger) LogSummary(summary *models.Summary) {
	if summary == nil || !fl.shouldLog("info") {
		return
	}

	ts := time.Now().Format("15:04:05")

	status := "CLEAN"
	if summary.Duplicates > 0 {
		status = "DUPLICATES FOUND"
	}
	if summary.Failed > 0 || summary.WalkErrors > 0 {
		status += " (with errors)"
	}

	message := fmt.Sprintf(
		"\n[%s] === SCAN SUMMARY ===\n"+
			"[%s] Session:          %s\n"+
			"[%s] Root:             %s\n"+
			"[%s] Files hashed:     %d\n"+
			"[%s] Unique:           %d\n"+
			"[%s] Duplicates:       %d (%d bytes)\n"+
			"[%s] Failed:           %d\n"+
			"[%s] Skipped symlinks: %d\n"+
			"[%s] Walk errors:      %d\n"+
			"[%s] Total time:       %.3fs\n"+
			"[%s] Status:           %s\n",
		ts,
		ts, summary.SessionID,
		ts, summary.Root,
		ts, summary.Files,
		ts, summary.Unique,
		ts, summary.Duplicates, summary.DuplicateBytes,
		ts, summary.Failed,
		ts, summary.SkippedSymlinks,
		ts, summary.WalkErrors,
		ts, summary.Duration().Seconds(),
		ts, status,
	)

	fl.writeRunLog(message)
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
