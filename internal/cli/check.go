package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zomglings/busybody/pkg/errors"
	"github.com/zomglings/busybody/pkg/venv"
)

// checkCommand creates the "check" command, which tests whether a single
// directory is a Python virtual environment. The answer is the exit code:
// 0 for yes, 1 for no. Scripting-friendly, nothing on stdout except the
// resolved path on success.
func (c *CLI) checkCommand() *cobra.Command {
	var tolerance int

	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Check whether a directory is a Python virtual environment",
		Long: `Check whether a directory is a Python virtual environment.

Exits 0 and prints the resolved path if the directory passes the
structural checks (bin/python, bin/pip, pyvenv.cfg, and so on), exits 1
otherwise. Run with --verbose to see each individual check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tolerance") {
				tolerance = cfg.Tolerance
			}
			if err := venv.ValidateTolerance(tolerance); err != nil {
				return err
			}

			path, err := venv.Resolve(args[0])
			if err != nil {
				return err
			}

			detector := &venv.Detector{Tolerance: tolerance}
			checks := detector.Inspect(path)
			passed := 0
			for _, check := range checks {
				c.Logger.Debug("check", "name", check.Name, "passed", check.Pass)
				if check.Pass {
					passed++
				}
			}

			if passed < len(checks)-tolerance {
				// Silent failure: the exit code is the answer.
				return errors.New(errors.ErrCodeNotVirtualenv,
					"%s is not a virtual environment (%d/%d checks passed)",
					path, passed, len(checks))
			}

			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().IntVar(&tolerance, "tolerance", venv.DefaultTolerance, "number of structural checks allowed to fail")

	return cmd
}
