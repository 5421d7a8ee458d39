package cli

import (
	"context"
	"fmt"
	"log/slog"

	"flaresentinel/internal/api/handlers"
	"flaresentinel/internal/config"
	"flaresentinel/internal/core"
	"flaresentinel/internal/detection"
	"flaresentinel/internal/imaging"
	"flaresentinel/internal/metrics"
	"flaresentinel/internal/notifications/email"
	"flaresentinel/internal/types"
)

// newRecorder returns the CloudWatch publisher when metrics are enabled and
// a no-op recorder otherwise.
func newRecorder(ctx context.Context, cfg config.ObservabilityConfig, logger *slog.Logger) (metrics.Recorder, error) {
	if !cfg.MetricsEnabled {
		return metrics.Noop{}, nil
	}
	pub, err := metrics.NewFromConfig(ctx, cfg, types.NewSlogAdapter(logger).With("component", "metrics"))
	if err != nil {
		return nil, fmt.Errorf("creating metrics publisher: %w", err)
	}
	return pub, nil
}

// buildServer wires the detection pipeline into the HTTP chassis and mounts
// all routes.
func buildServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*core.Server, error) {
	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	recorder, err := newRecorder(ctx, cfg.Observability, logger)
	if err != nil {
		return nil, err
	}
	srv.Metrics = recorder

	notifier, err := email.NewAlertNotifier(email.NotifierConfig{
		Alert:    cfg.Alert,
		Provider: email.NewLogProvider(logger.With("component", "email")),
		Logger:   logger,
		Metrics:  recorder,
	})
	if err != nil {
		return nil, fmt.Errorf("creating alert notifier: %w", err)
	}

	detect := handlers.NewDetectHandler(
		imaging.NewDecoder(cfg.Detection.MaxImagePixels),
		detection.NewClassifier(),
		notifier,
		recorder,
		srv.Validator,
		logger,
		cfg.Detection.MaxBodyBytes,
	)
	srv.RouteRegistrars = append(srv.RouteRegistrars, detect.RegisterRoutes)
	srv.HealthProbes = append(srv.HealthProbes, core.StaticDirProbe{Dir: cfg.Server.StaticDir})

	srv.MountRoutes()
	return srv, nil
}
