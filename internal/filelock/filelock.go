// Package filelock writes output files under an advisory lock so that two
// dupescan runs pointed at the same report path never interleave their output.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// RetryDelay is how often a contended lock is re-attempted.
const RetryDelay = 50 * time.Millisecond

// LockPath returns the sidecar lock file used for target.
func LockPath(target string) string {
	return target + ".lock"
}

// Lock is an exclusive advisory lock on a sidecar file.
type Lock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock backed by path. Nothing is acquired until Acquire.
func New(path string) *Lock {
	return &Lock{flock: flock.New(path), path: path}
}

// Acquire blocks until the lock is held or ctx is done.
func (l *Lock) Acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	locked, err := l.flock.TryLockContext(ctx, RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock on %s", l.path)
	}
	return nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// AtomicWrite replaces path with data via a temp file in the same directory
// followed by a rename. Readers see either the old or the new content.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	committed = true
	return nil
}

// LockAndWrite holds the sidecar lock for path while atomically replacing it.
// Writing "dupes.yaml" locks "dupes.yaml.lock".
func LockAndWrite(ctx context.Context, path string, data []byte) error {
	lock := New(LockPath(path))
	if err := lock.Acquire(ctx); err != nil {
		return err
	}
	defer lock.Release()

	return AtomicWrite(path, data)
}
