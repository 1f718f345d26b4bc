package cli

import (
	"github.com/spf13/cobra"

	"github.com/zomglings/busybody/pkg/venv"
)

// listCommand creates the "list" command, which walks a directory tree
// and prints every virtual environment it finds as a JSON array of
// absolute paths. No probing happens here, so it is fast even on trees
// with many environments.
func (c *CLI) listCommand() *cobra.Command {
	var (
		rootDir   string
		tolerance int
		output    string
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all virtual environments under a directory",
		Long: `List all virtual environments under a directory.

Walks the tree rooted at --root-dir (default: current directory), prunes
confirmed environments so their internals are not descended into, and
prints the discovered paths as a JSON array.`,
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

			root, err := venv.Resolve(rootDir)
			if err != nil {
				return err
			}

			scanner := &venv.Scanner{
				Detector: &venv.Detector{Tolerance: tolerance},
				Logger:   c.Logger,
			}
			envs, scanErr := scanner.Scan(cmd.Context(), root)
			if envs == nil {
				envs = []string{}
			}

			if err := writeJSON(envs, output, pretty); err != nil {
				return err
			}
			return scanErr
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root-dir", "d", ".", "directory to scan")
	cmd.Flags().IntVar(&tolerance, "tolerance", venv.DefaultTolerance, "number of structural checks allowed to fail")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	return cmd
}
