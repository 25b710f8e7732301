package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/movie-catalog-service/internal/cache"
	"github.com/actuallystonmai/movie-catalog-service/internal/config"
	"github.com/actuallystonmai/movie-catalog-service/internal/evaluator"
	"github.com/actuallystonmai/movie-catalog-service/internal/handler"
	"github.com/actuallystonmai/movie-catalog-service/internal/logging"
	"github.com/actuallystonmai/movie-catalog-service/internal/recommend"
	"github.com/actuallystonmai/movie-catalog-service/internal/repository"
	"github.com/actuallystonmai/movie-catalog-service/internal/router"
	"github.com/actuallystonmai/movie-catalog-service/internal/service"
	"github.com/actuallystonmai/movie-catalog-service/internal/stream"
	"github.com/actuallystonmai/movie-catalog-service/seeds"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.With("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.Database.PoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("database not ready")
	}
	log.Info().Msg("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrateDown(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate down")
		}
		return
	}

	if err := migrateUp(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate up")
	}

	repo := repository.NewRepository(pool)

	// ------------ Setup Seed Data ---------------
	if cfg.Database.Seed {
		if err := checkSeed(ctx, pool, repo); err != nil {
			log.Fatal().Err(err).Msg("failed to check seed")
		}
	}

	// ------------ Redis ---------------
	checks := map[string]router.Pinger{"database": repo}
	var (
		resultCache recommend.ResultCache
		invalidator service.CacheInvalidator
	)
	if cfg.Cache.Enabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse redis url")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		c := cache.NewCache(rdb, cfg.Cache.TTL)
		if err := c.Ping(ctx); err != nil {
			// Cache errors are never fatal; requests just miss until redis is back.
			log.Warn().Err(err).Msg("redis unreachable, continuing without warm cache")
		} else {
			log.Info().Msg("connected to Redis")
		}
		resultCache, invalidator = c, c
		checks["redis"] = c
	}

	// ------------ Evaluators ---------------
	ev, err := evaluator.New(ctx, evaluator.Options{
		Provider: cfg.Evaluator.Provider,
		APIKey:   cfg.Evaluator.APIKey,
		Model:    cfg.Evaluator.Model,
		BaseURL:  cfg.Evaluator.BaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build evaluator")
	}
	roles, err := evaluator.LoadRoles(cfg.Evaluator.RolesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load evaluator roles")
	}
	log.Info().
		Str("provider", cfg.Evaluator.Provider).
		Int("roles", len(roles)).
		Msg("evaluators ready")

	evalPool := recommend.NewPool(ev, cfg.Evaluator.Timeout, logging.With("evaluator_pool"))
	recommender := recommend.NewService(repo, evalPool, roles, resultCache, logging.With("recommend"))
	pump := stream.NewPump(repo, cfg.Stream.Interval, cfg.Stream.Buffer, logging.With("stream"))
	svc := service.NewService(repo, invalidator, recommender, pump, logging.With("service"))

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(handler.NewHandler(svc, logging.With("handler")), router.Options{
			RequestTimeout:    cfg.Server.RequestTimeout,
			CORSOrigins:       cfg.CORS.Origins,
			RateLimitRequests: cfg.RateLimit.Requests,
			RateLimitWindow:   cfg.RateLimit.Window,
			Checks:            checks,
			Logger:            logging.With("http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	log := logging.With("server")
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Info().Msgf("waiting for database... (%d/30)", i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logging.Info().Msg("migrations dropped successfully")
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logging.Info().Msg("migrations applied successfully")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, repo *repository.Repository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("check movies count: %w", err)
	}
	if count > 0 {
		logging.Info().Int("movies", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool)
}
