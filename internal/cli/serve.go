package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"flaresentinel/internal/config"
)

const readHeaderTimeout = 10 * time.Second

type serveOptions struct {
	host string
	port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(_ *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the detection API and static frontend",
		Long: `Run the HTTP server.

Configuration is read from the environment and an optional .env file.
--host and --port override HOST and PORT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if err := applyServeOverrides(cmd, cfg, opts); err != nil {
				return err
			}

			logger := newLogger(cfg.LogLevel, os.Stdout).With("service", cfg.Service)
			logger.Info("flaresentinel starting",
				"environment", cfg.Environment,
				"version", cfg.Build.Version,
				"commit", cfg.Build.Commit,
				"addr", cfg.Server.Addr(),
				"static_dir", cfg.Server.StaticDir,
				"metrics_enabled", cfg.Observability.MetricsEnabled,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Server.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Server.Addr(), err)
			}
			return runServer(ctx, cfg, logger, ln)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "bind host (overrides HOST)")
	cmd.Flags().StringVar(&opts.port, "port", "", "bind port (overrides PORT)")

	return cmd
}

// applyServeOverrides copies explicitly set flags into cfg and re-validates.
func applyServeOverrides(cmd *cobra.Command, cfg *config.Config, opts *serveOptions) error {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}
	return config.Validate(cfg)
}

// runServer serves on ln until ctx is cancelled, then shuts down gracefully
// within cfg.Server.ShutdownTimeout.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, ln net.Listener) error {
	srv, err := buildServer(ctx, cfg, logger)
	if err != nil {
		_ = ln.Close()
		return err
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", ln.Addr().String())
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}
