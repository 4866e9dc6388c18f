// Package report renders scan findings: duplicate lines streamed as they are
// found, the end-of-scan summary table, and the optional YAML report file.
package report

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/harrison/dupescan/internal/models"
	"github.com/mattn/go-isatty"
)

// StreamReporter prints each duplicate as "<duplicate> = <original>" the
// moment it is found, and each per-file failure as an "error:" line on the
// diagnostic writer. It is safe for concurrent use; lines never interleave.
type StreamReporter struct {
	mu         sync.Mutex
	out        io.Writer
	errOut     io.Writer
	color      bool
	duplicates []models.Duplicate
	failures   int
}

// NewStreamReporter creates a reporter writing duplicates to out and failures
// to errOut. Color is enabled only when out is a terminal and NO_COLOR is unset.
func NewStreamReporter(out, errOut io.Writer) *StreamReporter {
	return &StreamReporter{
		out:    out,
		errOut: errOut,
		color:  IsTerminal(out) && os.Getenv("NO_COLOR") == "",
	}
}

// IsTerminal reports whether w is a terminal (or a Cygwin/MSYS pty).
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetColor forces colored output on or off.
func (r *StreamReporter) SetColor(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.color = enabled
}

// ReportDuplicate implements scanner.Reporter.
func (r *StreamReporter) ReportDuplicate(dup models.Duplicate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.duplicates = append(r.duplicates, dup)
	if r.out == nil {
		return
	}

	if r.color {
		yellow := color.New(color.FgYellow)
		yellow.EnableColor()
		faint := color.New(color.Faint)
		faint.EnableColor()
		fmt.Fprintf(r.out, "%s %s %s\n", yellow.Sprint(dup.Path), faint.Sprint("="), dup.Original)
		return
	}
	fmt.Fprintf(r.out, "%s = %s\n", dup.Path, dup.Original)
}

// ReportFailure implements scanner.Reporter.
func (r *StreamReporter) ReportFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures++
	if r.errOut == nil {
		return
	}

	prefix := "error:"
	if r.color && IsTerminal(r.errOut) {
		red := color.New(color.FgRed, color.Bold)
		red.EnableColor()
		prefix = red.Sprint(prefix)
	}
	fmt.Fprintf(r.errOut, "%s %s: %s\n", prefix, path, cause(err))
}

// Duplicates returns a copy of every duplicate reported so far.
func (r *StreamReporter) Duplicates() []models.Duplicate {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Duplicate, len(r.duplicates))
	copy(out, r.duplicates)
	return out
}

// Failures returns the number of per-file failures reported so far.
func (r *StreamReporter) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// cause strips the path from filesystem errors, since the line already
// names the file.
func cause(err error) string {
	if err == nil {
		return "unknown error"
	}
	if pathErr, ok := err.(*fs.PathError); ok {
		return pathErr.Err.Error()
	}
	return err.Error()
}
