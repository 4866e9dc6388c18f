package cmd

import (
	"fmt"

	"github.com/harrison/dupescan/internal/hasher"
	"github.com/harrison/dupescan/internal/report"
	"github.com/spf13/cobra"
)

// NewHashCommand creates the hash command, which prints file digests in
// sha1sum format.
func NewHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print the content fingerprint of each file",
		Long: `Print the fingerprint dupescan uses to compare files, one line per file:

  <hex digest>  <path>

The output format matches sha1sum, so the two can be compared directly.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failures := report.NewStreamReporter(nil, cmd.ErrOrStderr())

			for _, path := range args {
				digest, _, err := hasher.Hash(path)
				if err != nil {
					failures.ReportFailure(path, err)
					continue
				}
				fmt.Fprintf(out, "%s  %s\n", digest, path)
			}

			if n := failures.Failures(); n > 0 {
				return fmt.Errorf("%d of %d files could not be hashed", n, len(args))
			}
			return nil
		},
	}
}
