package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/metric-tracker/internal/config"
	"github.com/benvon/metric-tracker/internal/logger"
	"github.com/benvon/metric-tracker/internal/middleware"
	"github.com/benvon/metric-tracker/internal/services/tracker"
	"github.com/benvon/metric-tracker/internal/store"
	"github.com/benvon/metric-tracker/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = ""
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("server_exited_with_error", zap.Error(err))
		_ = logger.Sync(zapLogger)
		os.Exit(1)
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	zapLogger.Info("starting_server",
		zap.String("version", version),
		zap.String("server_port", cfg.ServerPort),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.String("rate_limit", cfg.RateLimit),
		zap.Bool("redis_enabled", cfg.RedisURL != ""),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	deps := serverDeps{
		Config:  cfg,
		Logger:  zapLogger,
		Version: version,
		Commit:  commit,
	}

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
			ServiceName:    serviceName,
			ServiceVersion: version,
			Endpoint:       cfg.OTELEndpoint,
			Insecure:       cfg.OTELInsecure,
		})
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			deps.TracerProvider = tp
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(ctx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	metricStore, err := store.Open(cfg.StorageBackend, cfg.DataDir, zapLogger)
	if err != nil {
		return err
	}
	deps.Store = metricStore
	zapLogger.Info("storage_ready", zap.String("backend", cfg.StorageBackend), zap.String("data_dir", cfg.DataDir))

	if cfg.RedisURL != "" {
		redisClient, err := middleware.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		deps.Redis = redisClient
		zapLogger.Info("connected_to_redis")
	}

	if cfg.MetricsEnabled {
		deps.Metrics = telemetry.NewMetrics()
	}
	deps.Service = newService(deps)

	handler, err := newHandler(deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AuditInterval > 0 {
		var problems *prometheus.GaugeVec
		if deps.Metrics != nil {
			problems = deps.Metrics.AuditProblems
		}
		auditor := tracker.NewAuditor(deps.Service, cfg.AuditInterval, zapLogger, problems)
		go func() {
			if err := auditor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zapLogger.Error("auditor_stopped_with_error", zap.Error(err))
			}
		}()
		zapLogger.Info("started_scheduled_audit", zap.Duration("interval", cfg.AuditInterval))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("server_listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	zapLogger.Info("server_exited")
	return nil
}
