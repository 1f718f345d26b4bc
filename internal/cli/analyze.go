package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/zomglings/busybody/pkg/errors"
	"github.com/zomglings/busybody/pkg/venv"
)

// analyzeCommand creates the "analyze" command, which probes a single
// virtual environment and prints its interpreter version, pip version,
// and installed packages as JSON.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		tolerance int
		timeout   time.Duration
		output    string
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <env>",
		Short: "Probe a single virtual environment",
		Long: `Probe a single virtual environment.

Runs the environment's own python and pip binaries to collect the
interpreter version, pip version, and the frozen dependency list.
Probe failures are reported inside the JSON output rather than
failing the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tolerance") {
				tolerance = cfg.Tolerance
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = time.Duration(cfg.Probe.Timeout)
			}
			if err := venv.ValidateTolerance(tolerance); err != nil {
				return err
			}

			path, err := venv.Resolve(args[0])
			if err != nil {
				return err
			}

			detector := &venv.Detector{Tolerance: tolerance}
			if !detector.IsVirtualEnv(path) {
				return errors.New(errors.ErrCodeInvalidInput,
					"%s is not a virtual environment", path)
			}

			prober := &venv.Prober{Timeout: timeout}
			result := prober.Probe(cmd.Context(), path)

			return writeJSON(result, output, pretty)
		},
	}

	cmd.Flags().IntVar(&tolerance, "tolerance", venv.DefaultTolerance, "number of structural checks allowed to fail")
	cmd.Flags().DurationVar(&timeout, "timeout", venv.DefaultProbeTimeout, "per-probe timeout")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	return cmd
}
