// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/sprintpulse/sprintpulse/internal/adapters/http"
	"github.com/sprintpulse/sprintpulse/internal/adapters/http/handlers"
	"github.com/sprintpulse/sprintpulse/internal/adapters/http/middleware"

	"github.com/sprintpulse/sprintpulse/internal/adapters/storage/memory"
	"github.com/sprintpulse/sprintpulse/internal/adapters/storage/rest"
	"github.com/sprintpulse/sprintpulse/internal/app"
	"github.com/sprintpulse/sprintpulse/internal/platform/config"
	"github.com/sprintpulse/sprintpulse/internal/platform/health"
	"github.com/sprintpulse/sprintpulse/internal/platform/httpclient"
	"github.com/sprintpulse/sprintpulse/internal/platform/logging"
	"github.com/sprintpulse/sprintpulse/internal/platform/telemetry"
	"github.com/sprintpulse/sprintpulse/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// The row-store client only participates in readiness when the rest
	// backend is active; the in-process store has nothing to probe.
	if cfg.Storage.Backend == "rest" {
		registry := do.MustInvoke[ports.HealthRegistry](injector)
		httpClient := do.MustInvoke[*httpclient.Client](injector)
		registry.Register(httpClient)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Storage.REST, "row-store", metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Store, error) {
		switch cfg.Storage.Backend {
		case "rest":
			client := do.MustInvoke[*httpclient.Client](i)
			return rest.New(client, cfg.Storage.REST.ServiceKey, logger), nil
		case "memory":
			return memory.New(), nil
		default:
			return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
		}
	})

	do.Provide(injector, func(i do.Injector) (ports.AccountService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewAccountService(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TeamService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewTeamService(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.SprintService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewSprintService(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.WorkItemService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewWorkItemService(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.SurveyService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewSurveyService(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.KudosService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewKudosService(store, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		h := adapthttp.Handlers{
			Account:  handlers.NewAccountHandler(do.MustInvoke[ports.AccountService](i)),
			Team:     handlers.NewTeamHandler(do.MustInvoke[ports.TeamService](i)),
			Sprint:   handlers.NewSprintHandler(do.MustInvoke[ports.SprintService](i)),
			WorkItem: handlers.NewWorkItemHandler(do.MustInvoke[ports.WorkItemService](i)),
			Survey:   handlers.NewSurveyHandler(do.MustInvoke[ports.SurveyService](i)),
			Kudos:    handlers.NewKudosHandler(do.MustInvoke[ports.KudosService](i)),
			Health:   handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)),
		}
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(h,
			middleware.Auth(cfg.Auth.JWTSecret),
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
