// Command server starts the candidate matcher HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	httpserver "github.com/fairyhunter13/candidate-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/candidate-matcher/internal/app"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/matching"
	"github.com/fairyhunter13/candidate-matcher/internal/service/ratelimiter"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Optional roster table
	var (
		dbPinger app.Pinger
		table    domain.CandidateSource
	)
	if cfg.DBURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		dbPinger = pool
		table = postgres.NewCandidateRepo(pool, cfg.CandidatesTable)
	}

	store, source, err := app.LoadCandidates(ctx, cfg, table)
	if err != nil {
		slog.Error("candidate roster load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("candidate roster loaded", slog.String("source", source), slog.Int("candidates", store.Len()))

	// Optional distributed rate limiting
	var (
		redisPinger app.RedisPinger
		limiter     ratelimiter.Limiter
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		redisPinger = rdb
		limiter = ratelimiter.NewRedisLimiter(rdb, map[string]ratelimiter.BucketConfig{
			app.MatchBucket: ratelimiter.PerMinute(cfg.MatchRatePerMin),
		})
		slog.Info("redis rate limiter enabled", slog.Int("match_per_min", cfg.MatchRatePerMin))
	}

	// Optional match event stream
	var events domain.EventPublisher
	if cfg.EventsEnabled() {
		pub, err := redpanda.NewEventPublisher(ctx, cfg.KafkaBrokers, cfg.MatchEventsTopic)
		if err != nil {
			slog.Error("redpanda publisher init failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pub.Close()
		events = pub
	}

	matches := usecase.NewMatchService(store, matching.DefaultRubric(), events)
	dbCheck, redisCheck := app.BuildReadinessChecks(dbPinger, redisPinger)
	srv := httpserver.NewServer(cfg, matches, dbCheck, redisCheck)

	handler := otelhttp.NewHandler(app.BuildRouter(cfg, srv, limiter), "http.server")

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port), slog.String("env", cfg.AppEnv))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
