package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/harrison/dupescan/internal/config"
	"github.com/harrison/dupescan/internal/logger"
	"github.com/harrison/dupescan/internal/report"
	"github.com/harrison/dupescan/internal/scanner"
	"github.com/spf13/cobra"
)

// runScan implements the root command: scan one path and stream duplicates.
func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	overrides, err := flagOverrides(cmd)
	if err != nil {
		return err
	}
	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	console := logger.NewConsoleLogger(stderr, cfg.LogLevel)
	reporter := report.NewStreamReporter(stdout, stderr)
	if cfg.NoColor {
		console.SetColor(false)
		reporter.SetColor(false)
	}

	var scanLogger logger.ScanLogger = console
	if cfg.LogDir != "" {
		fileLogger, err := logger.NewFileLoggerWithLevel(cfg.LogDir, "debug")
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLogger.Close()
		scanLogger = logger.NewMultiLogger(console, fileLogger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scanner.New(scanner.Options{
		IgnoreSymlinks: cfg.IgnoreSymlinks,
		Workers:        cfg.Workers,
	}, reporter, scanLogger)

	summary, err := s.Scan(ctx, root)
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("scan interrupted after %d files", summary.Completed())
	}
	if err != nil {
		return err
	}

	if cfg.Summary {
		fmt.Fprintln(stderr, report.RenderSummary(summary))
	}

	if cfg.ReportPath != "" {
		groups := report.Groups(reporter.Duplicates())
		if err := report.WriteReportFile(ctx, cfg.ReportPath, summary, groups); err != nil {
			return err
		}
	}

	if cfg.Strict && summary.WalkErrors > 0 {
		noun := "directories"
		if summary.WalkErrors == 1 {
			noun = "directory"
		}
		return fmt.Errorf("%d %s could not be read: %s",
			summary.WalkErrors, noun, strings.Join(summary.WalkErrorPaths, ", "))
	}

	return nil
}

// loadConfig reads the file named by --config, or .dupescan/config.yaml in
// the working directory when the flag is not set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		cfg, err := config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	// An explicitly named file must exist.
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// flagOverrides collects the flags the user actually set.
func flagOverrides(cmd *cobra.Command) (config.Overrides, error) {
	flags := cmd.Flags()
	var o config.Overrides

	if flags.Changed("workers") {
		workers, err := flags.GetInt("workers")
		if err != nil {
			return o, err
		}
		o.Workers = &workers
	}

	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		o.LogLevel = &level
	} else if verbose, _ := flags.GetBool("verbose"); verbose {
		level := "debug"
		o.LogLevel = &level
	}

	o.IgnoreSymlinks = changedBool(cmd, "ignore-symlinks")
	o.Strict = changedBool(cmd, "strict")
	o.Summary = changedBool(cmd, "summary")
	o.NoColor = changedBool(cmd, "no-color")
	o.LogDir = changedString(cmd, "log-dir")
	o.ReportPath = changedString(cmd, "report")

	return o, nil
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
