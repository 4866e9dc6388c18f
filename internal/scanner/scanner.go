// Package scanner walks a directory tree and finds byte-identical files.
//
// The walk runs on the caller's goroutine and only enumerates directories.
// Every regular file becomes a hashing task on a bounded Pool; each task
// hashes its file and checks the digest against the session's registry,
// reporting a duplicate when the digest was already registered by an earlier
// task. Scan returns only after every submitted task has finished.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/dupescan/internal/hasher"
	"github.com/harrison/dupescan/internal/models"
	"github.com/harrison/dupescan/internal/registry"
)

// DefaultWorkers is the pool size used when Options.Workers is not set.
const DefaultWorkers = 8

// Reporter receives findings as soon as a task produces them.
// Implementations must be safe for concurrent use.
type Reporter interface {
	ReportDuplicate(dup models.Duplicate)
	ReportFailure(path string, err error)
}

// Logger defines the scan events emitted to diagnostics.
type Logger interface {
	LogScanStart(sessionID, root string, workers int)
	LogTaskResult(result models.TaskResult) error
	LogSkip(path, reason string)
	LogWalkError(path string, err error)
	LogSummary(summary *models.Summary)
}

// HashFunc computes the digest and size of the file at path.
type HashFunc func(path string) (hasher.Digest, int64, error)

// Options configures a Scanner.
type Options struct {
	// IgnoreSymlinks skips symlinked files and directories entirely.
	IgnoreSymlinks bool
	// Workers bounds the number of files hashed concurrently (0 = DefaultWorkers).
	Workers int
}

// Scanner finds duplicate files. A Scanner holds no per-scan state, so one
// instance may run several scans, each with its own registry.
type Scanner struct {
	opts     Options
	reporter Reporter
	logger   Logger
	hash     HashFunc
}

// New creates a Scanner. reporter and logger may be nil.
func New(opts Options, reporter Reporter, logger Logger) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Scanner{
		opts:     opts,
		reporter: reporter,
		logger:   logger,
		hash:     hasher.Hash,
	}
}

// SetHashFunc replaces the function used to fingerprint files.
func (s *Scanner) SetHashFunc(fn HashFunc) {
	if fn == nil {
		fn = hasher.Hash
	}
	s.hash = fn
}

// session is the state of one Scan call.
type session struct {
	registry *registry.Registry
	pool     *Pool

	mu      sync.Mutex
	summary *models.Summary
}

// Scan walks root and hashes every regular file found, reporting duplicates
// as they are detected. root may be a directory or a single file.
//
// An error is returned when root itself cannot be read, or when ctx is
// cancelled. Sub-directories that cannot be read are skipped and counted in
// the summary. In every case all submitted tasks have finished when Scan
// returns.
func (s *Scanner) Scan(ctx context.Context, root string) (*models.Summary, error) {
	sess := &session{
		registry: registry.New(),
		pool:     NewPool(s.opts.Workers),
		summary: &models.Summary{
			SessionID: uuid.NewString(),
			Root:      root,
			StartedAt: time.Now(),
		},
	}

	if s.logger != nil {
		s.logger.LogScanStart(sess.summary.SessionID, root, sess.pool.Size())
	}

	err := s.scanRoot(ctx, sess, root)

	// Drain before returning, whatever the walk outcome.
	sess.pool.Wait()

	sess.mu.Lock()
	sess.summary.FinishedAt = time.Now()
	summary := sess.summary
	sess.mu.Unlock()

	if s.logger != nil {
		s.logger.LogSummary(summary)
	}
	return summary, err
}

func (s *Scanner) scanRoot(ctx context.Context, sess *session, root string) error {
	info, err := os.Lstat(root)
	if err != nil {
		return &WalkError{Path: root, Err: err}
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if s.opts.IgnoreSymlinks {
			s.skip(sess, root, "symlink", true)
			return nil
		}
		if info, err = os.Stat(root); err != nil {
			return &WalkError{Path: root, Err: err}
		}
	}

	switch {
	case info.IsDir():
		return s.walkDir(ctx, sess, root, []os.FileInfo{info})
	case info.Mode().IsRegular():
		return s.submit(ctx, sess, root)
	default:
		s.skip(sess, root, "not a regular file", false)
		return nil
	}
}

// walkDir enumerates dir in listing order, recursing into sub-directories on
// the calling goroutine. ancestors holds the directories on the current path
// and is used to stop symlink cycles.
func (s *Scanner) walkDir(ctx context.Context, sess *session, dir string, ancestors []os.FileInfo) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &WalkError{Path: dir, Err: err}
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		mode := entry.Type()

		if mode&os.ModeSymlink != 0 {
			if s.opts.IgnoreSymlinks {
				s.skip(sess, path, "symlink", true)
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				s.skip(sess, path, "dangling symlink", false)
				continue
			}
			mode = target.Mode().Type()
		}

		if mode.IsDir() {
			info, err := os.Stat(path)
			if err != nil {
				s.walkError(sess, &WalkError{Path: path, Err: err})
				continue
			}
			if isAncestor(ancestors, info) {
				s.skip(sess, path, "directory cycle", false)
				continue
			}
			err = s.walkDir(ctx, sess, path, append(ancestors, info))
			var walkErr *WalkError
			if errors.As(err, &walkErr) {
				s.walkError(sess, walkErr)
				continue
			}
			if err != nil {
				return err
			}
			continue
		}

		if !mode.IsRegular() {
			s.skip(sess, path, "not a regular file", false)
			continue
		}

		if err := s.submit(ctx, sess, path); err != nil {
			return err
		}
	}
	return nil
}

func isAncestor(ancestors []os.FileInfo, info os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return true
		}
	}
	return false
}

// submit dispatches one hashing task for path to the session pool.
func (s *Scanner) submit(ctx context.Context, sess *session, path string) error {
	err := sess.pool.Submit(ctx, func() {
		result := s.runTask(sess.registry, path)
		sess.mu.Lock()
		sess.summary.Record(result)
		sess.mu.Unlock()
		s.logResult(result)
	})
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.summary.Files++
	sess.mu.Unlock()
	return nil
}

// runTask hashes path and checks it against reg. Failures, including a
// panic in the hash function, end the task in StateFailed without touching
// the registry.
func (s *Scanner) runTask(reg *registry.Registry, path string) (result models.TaskResult) {
	start := time.Now()
	result = models.TaskResult{Path: path, State: models.StatePending}

	defer func() {
		if r := recover(); r != nil {
			s.fail(&result, fmt.Errorf("panic: %v", r))
		}
		result.Duration = time.Since(start)
	}()

	if err := advance(&result, models.StateHashing); err != nil {
		s.fail(&result, err)
		return result
	}
	digest, size, err := s.hash(path)
	if err != nil {
		s.fail(&result, err)
		return result
	}
	result.Digest = digest
	result.Size = size

	if err := advance(&result, models.StateChecking); err != nil {
		s.fail(&result, err)
		return result
	}
	original, found := reg.CheckOrInsert(digest, path)
	if !found {
		if err := advance(&result, models.StateRecorded); err != nil {
			s.fail(&result, err)
		}
		return result
	}

	if err := advance(&result, models.StateReported); err != nil {
		s.fail(&result, err)
		return result
	}
	result.Original = original
	if s.reporter != nil {
		s.reporter.ReportDuplicate(models.Duplicate{
			Path:     path,
			Original: original,
			Digest:   digest,
			Size:     size,
		})
	}
	return result
}

// advance moves result to next if the task state machine allows it.
// On error the state is left unchanged.
func advance(result *models.TaskResult, next models.TaskState) error {
	if !result.State.CanTransition(next) {
		return fmt.Errorf("invalid task transition %s -> %s", result.State, next)
	}
	result.State = next
	return nil
}

// fail ends a non-terminal task in StateFailed. Terminal tasks are left as is.
func (s *Scanner) fail(result *models.TaskResult, err error) {
	state := result.State
	if advance(result, models.StateFailed) != nil {
		return
	}
	result.Error = NewTaskError(result.Path, state, err)
	if s.reporter != nil {
		s.reporter.ReportFailure(result.Path, err)
	}
}

// logResult hands result to the logger. A panicking logger loses the line
// but never the worker.
func (s *Scanner) logResult(result models.TaskResult) {
	if s.logger == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	_ = s.logger.LogTaskResult(result)
}

func (s *Scanner) skip(sess *session, path, reason string, symlink bool) {
	sess.mu.Lock()
	if symlink {
		sess.summary.SkippedSymlinks++
	} else {
		sess.summary.SkippedOther++
	}
	sess.mu.Unlock()
	if s.logger != nil {
		s.logger.LogSkip(path, reason)
	}
}

func (s *Scanner) walkError(sess *session, err *WalkError) {
	sess.mu.Lock()
	sess.summary.WalkErrors++
	sess.summary.WalkErrorPaths = append(sess.summary.WalkErrorPaths, err.Path)
	sess.mu.Unlock()
	if s.logger != nil {
		cause := err.Err
		if pathErr, ok := cause.(*fs.PathError); ok {
			cause = pathErr.Err
		}
		s.logger.LogWalkError(err.Path, cause)
	}
}
