package main

import (
	"fmt"
	"os"

	"github.com/harrison/dupescan/internal/cmd"
)

// Version is the current version of dupescan, overridable with -ldflags
var Version = "0.1.0"

func main() {
	cmd.Version = Version
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
