package logger

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/dupescan/internal/hasher"
	"github.com/harrison/dupescan/internal/models"
)

// TestNewConsoleLogger verifies the constructor creates a ConsoleLogger with the provided writer.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "info" {
			t.Errorf("expected log level %q, got %q", "info", logger.logLevel)
		}
		if logger.colorOutput {
			t.Error("color must be disabled for non-terminal writers")
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		logger.LogInfo("dropped")
		logger.LogSummary(&models.Summary{})
		if err := logger.LogTaskResult(models.TaskResult{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, "LOUD")
		if logger.logLevel != "info" {
			t.Errorf("expected info, got %q", logger.logLevel)
		}
	})

	t.Run("level is case-insensitive", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, " DEBUG ")
		if logger.logLevel != "debug" {
			t.Errorf("expected debug, got %q", logger.logLevel)
		}
	})
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level      string
		wantLevels []string
		skipLevels []string
	}{
		{level: "trace", wantLevels: []string{"DEBUG", "INFO", "WARN"}},
		{level: "debug", wantLevels: []string{"DEBUG", "INFO", "WARN"}},
		{level: "info", wantLevels: []string{"INFO", "WARN"}, skipLevels: []string{"DEBUG"}},
		{level: "warn", wantLevels: []string{"WARN"}, skipLevels: []string{"DEBUG", "INFO"}},
		{level: "error", skipLevels: []string{"DEBUG", "INFO", "WARN"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			logger.LogDebug("debug message")
			logger.LogInfo("info message")
			logger.LogWarn("warn message")

			output := buf.String()
			for _, lvl := range tt.wantLevels {
				if !strings.Contains(output, "["+lvl+"]") {
					t.Errorf("expected %s in output, got:\n%s", lvl, output)
				}
			}
			for _, lvl := range tt.skipLevels {
				if strings.Contains(output, "["+lvl+"]") {
					t.Errorf("did not expect %s in output, got:\n%s", lvl, output)
				}
			}
		})
	}
}

func TestConsoleLogger_LogTaskResult(t *testing.T) {
	digest, _, err := hasher.HashReader(strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	tests := []struct {
		name   string
		result models.TaskResult
		want   string
	}{
		{
			name:   "duplicate",
			result: models.TaskResult{Path: "b.txt", Original: "a.txt", State: models.StateReported, Digest: digest},
			want:   "duplicate b.txt = a.txt",
		},
		{
			name:   "first sighting",
			result: models.TaskResult{Path: "a.txt", State: models.StateRecorded, Digest: digest},
			want:   "recorded aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d a.txt",
		},
		{
			name:   "failure with path in error",
			result: models.TaskResult{Path: "d.txt", State: models.StateFailed, Error: errors.New("d.txt while hashing: permission denied")},
			want:   "failed d.txt while hashing: permission denied",
		},
		{
			name:   "failure",
			result: models.TaskResult{Path: "c.txt", State: models.StateFailed, Error: errors.New("permission denied")},
			want:   "failed c.txt: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, "debug")

			if err := logger.LogTaskResult(tt.result); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in output, got %q", tt.want, buf.String())
			}
		})
	}

	t.Run("suppressed above debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")
		logger.LogTaskResult(models.TaskResult{Path: "a", State: models.StateRecorded})
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestConsoleLogger_ScanEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")

	logger.LogScanStart("sess-1", "/data", 8)
	logger.LogSkip("/data/link", "symlink")
	logger.LogWalkError("/data/private", errors.New("permission denied"))

	output := buf.String()
	for _, want := range []string{
		"Scanning /data with 8 workers (session sess-1)",
		"[DEBUG] skipped /data/link: symlink",
		"[WARN] cannot read directory /data/private: permission denied",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestConsoleLogger_LogSummary(t *testing.T) {
	start := time.Now()
	summary := &models.Summary{
		Files:      10,
		Unique:     6,
		Duplicates: 3,
		Failed:     1,
		WalkErrors: 2,
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
	}

	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogSummary(summary)

	output := buf.String()
	for _, want := range []string{
		"=== Scan Summary ===",
		"Files hashed: 10",
		"Unique: 6",
		"Duplicates: 3",
		"Failed: 1",
		"Unreadable directories: 2",
		"Duration: 2s",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in summary, got:\n%s", want, output)
		}
	}

	buf.Reset()
	NewConsoleLogger(buf, "warn").LogSummary(summary)
	if buf.Len() != 0 {
		t.Errorf("summary must be suppressed at warn level, got %q", buf.String())
	}
}

func TestConsoleLogger_ColorOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.SetColor(true)

	logger.LogWarn("careful")

	if !strings.Contains(buf.String(), "careful") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI color when color is forced on, got %q", buf.String())
	}
}

func TestIsTerminal_ChecksTheWriter(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()

	if isTerminal(f) {
		t.Error("a regular file must not be treated as a terminal")
	}
	if isTerminal(&bytes.Buffer{}) {
		t.Error("a buffer must not be treated as a terminal")
	}
	if isTerminal(nil) {
		t.Error("nil writer must not be treated as a terminal")
	}

	logger := NewConsoleLogger(f, "warn")
	logger.LogWarn("redirected")

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("redirected log must not contain ANSI codes, got %q", data)
	}
}

func TestConsoleLogger_ConcurrentWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogInfo("concurrent line")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "[INFO] concurrent line") {
			t.Errorf("interleaved line: %q", line)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Minute, "2m"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
		{time.Hour + time.Minute + time.Second, "1h1m1s"},
		{3 * time.Hour, "3h"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, lvl := range []string{"trace", "DEBUG", "Info", "warn", "error"} {
		if !IsValidLevel(lvl) {
			t.Errorf("expected %q to be valid", lvl)
		}
	}
	for _, lvl := range []string{"", "verbose", "fatal"} {
		if IsValidLevel(lvl) {
			t.Errorf("expected %q to be invalid", lvl)
		}
	}
}
