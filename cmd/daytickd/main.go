package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sworn-game/daytick/config"
	"github.com/sworn-game/daytick/dispatch"
	"github.com/sworn-game/daytick/metrics"
	"github.com/sworn-game/daytick/presets"
	"github.com/sworn-game/daytick/reportstream"
	"github.com/sworn-game/daytick/sched"
)

func main() {
	cfg := config.FromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.TraceStdout {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Fatal(err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		defer func() { _ = tp.Shutdown(context.Background()) }()
		otel.SetTracerProvider(tp)
	}

	reg := metrics.NewRegistry()
	metrics.RegisterCoreMetrics(reg)

	stack, err := presets.NewRedisStack(
		presets.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		dispatch.Options{
			BatchSize:            cfg.BatchSize,
			MinForDistribution:   cfg.MinForDistribution,
			MaxConcurrentBatches: cfg.MaxConcurrentBatches,
			LockTTL:              cfg.LockTTL,
		},
		cfg.MaxConcurrentBatches,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Error("stack close failed", "err", err)
		}
	}()

	hub := reportstream.NewHub()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/reports/sse", reportstream.SSEHandler(hub))
	mux.Handle("/reports/ws", reportstream.WebSocketHandler(hub))
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
		}
	}()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	logger.Info("daytickd starting",
		"interval", cfg.TickInterval,
		"batch_size", cfg.BatchSize,
		"max_concurrent_batches", cfg.MaxConcurrentBatches,
		"listen", cfg.ListenAddr,
	)

	runner := sched.NewRunner(stack.Dispatcher, cfg.TickInterval,
		sched.WithLogger(logger),
		sched.WithSink(hub),
	)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("daytickd shutting down")
}
