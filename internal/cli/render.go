package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zomglings/busybody/pkg/errors"
	"github.com/zomglings/busybody/pkg/pipeline"
	"github.com/zomglings/busybody/pkg/render"
	"github.com/zomglings/busybody/pkg/venv"
)

// renderCommand creates the "render" command, which runs a scan and
// renders the aggregated dependency statistics as a Graphviz diagram.
// The output format follows the file extension: .svg renders through
// Graphviz, anything else gets DOT source.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rootDir   string
		tolerance int
		timeout   time.Duration
		workers   int
		output    string
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render dependency statistics as a Graphviz diagram",
		Long: `Render dependency statistics as a Graphviz diagram.

Runs the same scan as "stats", then draws each package and its observed
versions as a graph. Writes DOT source by default; an --output path
ending in .svg is rendered through Graphviz instead.`,
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
			if runErr != nil {
				spinner.StopWithError("Scan failed")
				return runErr
			}
			spinner.StopWithSuccess("Scan complete")

			dot := render.ToDOT(report.Statistics)

			if strings.EqualFold(filepath.Ext(output), ".svg") {
				svg, err := render.RenderSVG(dot)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, svg, 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "write output file %s", output)
				}
				printSuccess("Rendered %s", output)
				return nil
			}

			if output == "" {
				_, err := os.Stdout.WriteString(dot)
				return err
			}
			if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write output file %s", output)
			}
			printSuccess("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root-dir", "d", ".", "directory to scan")
	cmd.Flags().IntVar(&tolerance, "tolerance", venv.DefaultTolerance, "number of structural checks allowed to fail")
	cmd.Flags().DurationVar(&timeout, "timeout", venv.DefaultProbeTimeout, "per-probe timeout")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent probes (default: number of CPUs)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg, stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the probe-result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and re-probe every environment")

	return cmd
}
