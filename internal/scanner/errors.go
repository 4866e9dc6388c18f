package scanner

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/harrison/dupescan/internal/models"
)

// WalkError reports a directory that could not be enumerated. The subtree
// below Path is not scanned; tasks already submitted are unaffected.
type WalkError struct {
	Path string
	Err  error
}

// Error implements the error interface for WalkError.
func (e *WalkError) Error() string {
	if pathErr, ok := e.Err.(*fs.PathError); ok {
		return fmt.Sprintf("cannot read %s: %v", e.Path, pathErr.Err)
	}
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *WalkError) Unwrap() error {
	return e.Err
}

// TaskError represents a hashing task that ended in models.StateFailed.
// State is the state the task was in when it failed.
type TaskError struct {
	Path      string
	State     models.TaskState
	Err       error
	Timestamp time.Time
}

// NewTaskError creates a TaskError with the current timestamp.
func NewTaskError(path string, state models.TaskState, err error) *TaskError {
	return &TaskError{
		Path:      path,
		State:     state,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface for TaskError.
func (e *TaskError) Error() string {
	if pathErr, ok := e.Err.(*fs.PathError); ok {
		return fmt.Sprintf("%s while %s: %v", e.Path, e.State, pathErr.Err)
	}
	return fmt.Sprintf("%s while %s: %v", e.Path, e.State, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *TaskError) Unwrap() error {
	return e.Err
}
