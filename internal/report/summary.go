package report

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/harrison/dupescan/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary renders the end-of-scan counters as a two-column table.
func RenderSummary(summary *models.Summary) string {
	if summary == nil {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// Header and footer carry a path and a session ID, so keep their case.
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Scan", summary.Root})

	rows := []table.Row{
		{"Files hashed", humanize.Comma(int64(summary.Files))},
		{"Unique", humanize.Comma(int64(summary.Unique))},
		{"Duplicates", humanize.Comma(int64(summary.Duplicates))},
		{"Reclaimable", humanize.Bytes(uint64(max(summary.DuplicateBytes, 0)))},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Skipped symlinks", strconv.Itoa(summary.SkippedSymlinks)},
		{"Skipped other", strconv.Itoa(summary.SkippedOther)},
		{"Unreadable directories", strconv.Itoa(summary.WalkErrors)},
		{"Duration", summary.Duration().Round(time.Millisecond).String()},
	}
	for _, row := range rows {
		tw.AppendRow(row)
	}
	if summary.SessionID != "" {
		tw.AppendFooter(table.Row{"Session", summary.SessionID})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
