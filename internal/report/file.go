package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/harrison/dupescan/internal/filelock"
	"github.com/harrison/dupescan/internal/hasher"
	"github.com/harrison/dupescan/internal/models"
	"gopkg.in/yaml.v3"
)

// Group is one set of byte-identical files: the path kept in the registry
// plus every later path reported against it.
type Group struct {
	Digest     hasher.Digest `yaml:"digest"`
	Size       int64         `yaml:"size"`
	Original   string        `yaml:"original"`
	Duplicates []string      `yaml:"duplicates"`
}

// Groups folds duplicate pairs into one Group per digest. Groups are ordered
// by original path and duplicates within a group are sorted.
func Groups(dups []models.Duplicate) []Group {
	byDigest := make(map[hasher.Digest]*Group)
	for _, d := range dups {
		g, ok := byDigest[d.Digest]
		if !ok {
			g = &Group{Digest: d.Digest, Size: d.Size, Original: d.Original}
			byDigest[d.Digest] = g
		}
		g.Duplicates = append(g.Duplicates, d.Path)
	}

	groups := make([]Group, 0, len(byDigest))
	for _, g := range byDigest {
		sort.Strings(g.Duplicates)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Original != groups[j].Original {
			return groups[i].Original < groups[j].Original
		}
		return groups[i].Digest.String() < groups[j].Digest.String()
	})
	return groups
}

// File is the document written by WriteReportFile.
type File struct {
	SessionID      string    `yaml:"session_id"`
	Root           string    `yaml:"root"`
	StartedAt      time.Time `yaml:"started_at"`
	FinishedAt     time.Time `yaml:"finished_at"`
	Files          int       `yaml:"files"`
	Duplicates     int       `yaml:"duplicates"`
	Failed         int       `yaml:"failed"`
	WalkErrors     []string  `yaml:"walk_errors,omitempty"`
	DuplicateBytes int64     `yaml:"duplicate_bytes"`
	Groups         []Group   `yaml:"groups"`
}

// NewFile assembles the report document for a finished scan.
func NewFile(summary *models.Summary, groups []Group) File {
	if groups == nil {
		groups = []Group{}
	}
	return File{
		SessionID:      summary.SessionID,
		Root:           summary.Root,
		StartedAt:      summary.StartedAt,
		FinishedAt:     summary.FinishedAt,
		Files:          summary.Files,
		Duplicates:     summary.Duplicates,
		Failed:         summary.Failed,
		WalkErrors:     summary.WalkErrorPaths,
		DuplicateBytes: summary.DuplicateBytes,
		Groups:         groups,
	}
}

// WriteReportFile writes the YAML duplicate report for one scan to path,
// replacing any previous report atomically under an advisory lock.
func WriteReportFile(ctx context.Context, path string, summary *models.Summary, groups []Group) error {
	if summary == nil {
		return fmt.Errorf("write report %s: no summary", path)
	}

	data, err := yaml.Marshal(NewFile(summary, groups))
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := filelock.LockAndWrite(ctx, path, data); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
