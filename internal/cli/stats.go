package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/zomglings/busybody/pkg/archive"
	"github.com/zomglings/busybody/pkg/errors"
	"github.com/zomglings/busybody/pkg/pipeline"
	"github.com/zomglings/busybody/pkg/venv"
)

// statsCommand creates the "stats" command, the full scan pipeline:
// discover environments, probe each one, and aggregate versions and
// dependencies into a single JSON report.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		rootDir     string
		tolerance   int
		timeout     time.Duration
		workers     int
		output      string
		pretty      bool
		noCache     bool
		refresh     bool
		saveArchive bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Scan a directory tree and report aggregate statistics",
		Long: `Scan a directory tree and report aggregate statistics.

Discovers every virtual environment under --root-dir (default: current
directory), probes each for its python version, pip version, and frozen
dependencies, then aggregates everything into one report. Probe results
are cached, so re-running over an unchanged tree is cheap; use --refresh
to force re-probing.

On interruption (Ctrl-C) the report built so far is still written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				RootDir:   rootDir,
				Tolerance: cfg.Tolerance,
				Timeout:   time.Duration(cfg.Probe.Timeout),
				Workers:   cfg.Probe.Workers,
				Refresh:   refresh,
				Logger:    c.Logger,
			}
			if cmd.Flags().Changed("tolerance") {
				opts.Tolerance = tolerance
			}
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}

			runner, err := c.newRunner(noCache, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Scanning for virtual environments...")
			spinner.Start()
			report, runErr := runner.Execute(cmd.Context(), opts)
			if runErr != nil && report == nil {
				spinner.StopWithError("Scan failed")
				return runErr
			}
			if runErr != nil {
				spinner.StopWithError("Scan interrupted, report is partial")
			} else {
				spinner.StopWithSuccess("Scan complete")
			}
			printDetail("Environments: %d", len(report.Virtualenvs))

			if err := writeJSON(report, output, pretty); err != nil {
				return err
			}

			if saveArchive {
				if err := c.archiveReport(cmd, cfg, report); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root-dir", "d", ".", "directory to scan")
	cmd.Flags().IntVar(&tolerance, "tolerance", venv.DefaultTolerance, "number of structural checks allowed to fail")
	cmd.Flags().DurationVar(&timeout, "timeout", venv.DefaultProbeTimeout, "per-probe timeout")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent probes (default: number of CPUs)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the probe-result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and re-probe every environment")
	cmd.Flags().BoolVar(&saveArchive, "archive", false, "save the report to the configured archive")

	return cmd
}

// archiveReport persists a finished report to the configured MongoDB
// archive.
func (c *CLI) archiveReport(cmd *cobra.Command, cfg Config, report *venv.Report) error {
	if cfg.Archive.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"--archive requires archive.uri in the config file")
	}

	ctx := cmd.Context()
	prog := newProgress(c.Logger)
	store, err := archive.NewMongoStore(ctx, cfg.Archive.URI, cfg.Archive.Database, cfg.Archive.Collection)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	if err := store.Save(ctx, report); err != nil {
		return err
	}
	prog.done("archived report " + report.RunID)
	return nil
}
