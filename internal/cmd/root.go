package cmd

import (
	"github.com/harrison/dupescan/internal/config"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for dupescan
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupescan [path]",
		Short: "Find byte-identical files in a directory tree",
		Long: `dupescan walks a directory tree, fingerprints every regular file by
content, and prints each file whose content matches a file seen earlier
in the same run:

  <duplicate path> = <original path>

Lines are printed as duplicates are found. Files are hashed concurrently,
so which copy is reported as the original may differ between runs.

Configuration is loaded from .dupescan/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  dupescan                          # Scan the current directory
  dupescan ~/Pictures -w 16         # Hash up to 16 files at once
  dupescan -i /srv/data             # Do not follow symbolic links
  dupescan --summary --report dupes.yaml ./archive`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runScan,
		// Errors are printed once by main
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .dupescan/config.yaml)")
	cmd.Flags().BoolP("ignore-symlinks", "i", false, "Skip symbolic links instead of following them")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers, "Number of files hashed concurrently")
	cmd.Flags().String("log-level", "", "Console log level: trace, debug, info, warn, error (default: warn)")
	cmd.Flags().BoolP("verbose", "v", false, "Show per-file progress (same as --log-level debug)")
	cmd.Flags().String("log-dir", "", "Directory for per-run log files")
	cmd.Flags().String("report", "", "Write duplicate groups as YAML to this file")
	cmd.Flags().Bool("summary", false, "Print a summary table to stderr when the scan ends")
	cmd.Flags().Bool("strict", false, "Fail when any sub-directory cannot be read")
	cmd.Flags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(NewHashCommand())

	return cmd
}
