package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/zomglings/busybody/internal/server"
	"github.com/zomglings/busybody/pkg/pipeline"
	"github.com/zomglings/busybody/pkg/venv"
)

// serveCommand creates the "serve" command, which exposes the scan
// pipeline over HTTP. Each request to /api/report runs a fresh scan,
// so the probe cache does the heavy lifting between requests.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		rootDir   string
		tolerance int
		timeout   time.Duration
		workers   int
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scan reports over HTTP",
		Long: `Serve scan reports over HTTP.

Endpoints:
  GET /healthz     liveness check
  GET /api/report  run a scan of the configured root and return the report`,
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

			srv := server.New(runner, opts, c.Logger)
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", addr, "root", opts.RootDir)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return err
				}
				c.Logger.Info("server stopped")
				return nil
			case err := <-errCh:
				if err == http.ErrServerClosed {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8671", "listen address")
	cmd.Flags().StringVarP(&rootDir, "root-dir", "d", ".", "directory to scan")
	cmd.Flags().IntVar(&tolerance, "tolerance", venv.DefaultTolerance, "number of structural checks allowed to fail")
	cmd.Flags().DurationVar(&timeout, "timeout", venv.DefaultProbeTimeout, "per-probe timeout")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent probes (default: number of CPUs)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the probe-result cache")

	return cmd
}
