package models

import (
	"time"

	"github.com/harrison/dupescan/internal/hasher"
)

// TaskState is the lifecycle state of a single file hashing task.
type TaskState string

// Task states. Reported, Recorded and Failed are terminal.
const (
	StatePending  TaskState = "pending"  // Submitted, waiting for a worker
	StateHashing  TaskState = "hashing"  // Streaming file content into the digest
	StateChecking TaskState = "checking" // Consulting the fingerprint registry
	StateReported TaskState = "reported" // Duplicate of an earlier file, reported
	StateRecorded TaskState = "recorded" // First sighting of its digest
	StateFailed   TaskState = "failed"   // Open or read failed
)

// IsTerminal reports whether no further transition is possible from s.
func (s TaskState) IsTerminal() bool {
	switch s {
	case StateReported, StateRecorded, StateFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a task may move from s to next.
func (s TaskState) CanTransition(next TaskState) bool {
	switch s {
	case StatePending:
		return next == StateHashing || next == StateFailed
	case StateHashing:
		return next == StateChecking || next == StateFailed
	case StateChecking:
		return next == StateReported || next == StateRecorded || next == StateFailed
	default:
		return false
	}
}

// Duplicate pairs a file with the first file seen carrying the same digest.
type Duplicate struct {
	Path     string        // File processed later
	Original string        // Path stored in the registry for Digest
	Digest   hasher.Digest // Shared content digest
	Size     int64         // Size of the duplicate in bytes
}

// TaskResult is the outcome of hashing and registering one file.
type TaskResult struct {
	Path     string
	State    TaskState
	Digest   hasher.Digest
	Size     int64
	Original string // Set when State is StateReported
	Error    error  // Set when State is StateFailed
	Duration time.Duration
}

// Summary aggregates the outcome of one scan session.
type Summary struct {
	SessionID       string
	Root            string
	Files           int      // Tasks dispatched
	Unique          int      // Tasks ending in StateRecorded
	Duplicates      int      // Tasks ending in StateReported
	Failed          int      // Tasks ending in StateFailed
	SkippedSymlinks int      // Entries skipped by the symlink policy
	SkippedOther    int      // Devices, sockets, dangling links and directory cycles
	WalkErrors      int      // Sub-directories that could not be enumerated
	WalkErrorPaths  []string // Paths behind WalkErrors, in discovery order
	DuplicateBytes  int64    // Bytes held by reported duplicates
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Duration returns the wall-clock time of the scan.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Completed returns the number of tasks that reached a terminal state.
func (s *Summary) Completed() int {
	return s.Unique + s.Duplicates + s.Failed
}

// Record folds a terminal task result into the summary.
func (s *Summary) Record(result TaskResult) {
	switch result.State {
	case StateRecorded:
		s.Unique++
	case StateReported:
		s.Duplicates++
		s.DuplicateBytes += result.Size
	case StateFailed:
		s.Failed++
	}
}
