package logger

import (
	"github.com/harrison/dupescan/internal/models"
)

// ScanLogger is the set of scan events every logger in this package handles.
type ScanLogger interface {
	LogScanStart(sessionID, root string, workers int)
	LogTaskResult(result models.TaskResult) error
	LogSkip(path, reason string)
	LogWalkError(path string, err error)
	LogSummary(summary *models.Summary)
}

// MultiLogger forwards every event to each of its loggers in order.
type MultiLogger struct {
	loggers []ScanLogger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are dropped.
func NewMultiLogger(loggers ...ScanLogger) *MultiLogger {
	ml := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			ml.loggers = append(ml.loggers, l)
		}
	}
	return ml
}

// LogScanStart forwards to all loggers
func (ml *MultiLogger) LogScanStart(sessionID, root string, workers int) {
	for _, l := range ml.loggers {
		l.LogScanStart(sessionID, root, workers)
	}
}

// LogTaskResult forwards to all loggers and returns the last error seen
func (ml *MultiLogger) LogTaskResult(result models.TaskResult) error {
	var lastErr error
	for _, l := range ml.loggers {
		if err := l.LogTaskResult(result); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// LogSkip forwards to all loggers
func (ml *MultiLogger) LogSkip(path, reason string) {
	for _, l := range ml.loggers {
		l.LogSkip(path, reason)
	}
}

// LogWalkError forwards to all loggers
func (ml *MultiLogger) LogWalkError(path string, err error) {
	for _, l := range ml.loggers {
		l.LogWalkError(path, err)
	}
}

// LogSummary forwards to all loggers
func (ml *MultiLogger) LogSummary(summary *models.Summary) {
	for _, l := range ml.loggers {
		l.LogSummary(summary)
	}
}
