// @title        Admin Console API
// @version      1.0
// @description  Session-authenticated admin API for categories, resources, users and icon uploads.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/macapp/admin-console/internal/api"
	"github.com/macapp/admin-console/internal/core/ports"
	"github.com/macapp/admin-console/internal/core/service"
	"github.com/macapp/admin-console/internal/infrastructure/config"
	"github.com/macapp/admin-console/internal/infrastructure/db/postgres"
	"github.com/macapp/admin-console/internal/infrastructure/db/redis"
	"github.com/macapp/admin-console/internal/infrastructure/http/handlers"
	"github.com/macapp/admin-console/internal/infrastructure/storage"
	"github.com/macapp/admin-console/internal/session"
	"github.com/macapp/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "admin-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Postgres ---
	registry := postgres.NewRegistry(postgres.Options{
		MaxConns:       cfg.Postgres.MaxConns,
		ConnectTimeout: cfg.Postgres.ConnectTimeout,
		IdleTimeout:    cfg.Postgres.IdleTimeout,
		QueryTimeout:   cfg.Postgres.QueryTimeout,
	}, log)
	defer func() {
		if err := registry.Close(); err != nil {
			log.Error().Err(err).Msg("close postgres pools")
		}
	}()
	source := registry.Source(cfg.Postgres.DSN)
	if err := registry.EnsureSchema(ctx, cfg.Postgres.DSN); err != nil {
		// Retried on the first request that needs the database.
		log.Warn().Err(err).Str("dsn", postgres.MaskDSN(cfg.Postgres.DSN)).Msg("schema initialisation failed")
	}

	// --- Redis (optional) ---
	rdb, throttle := connectRedis(ctx, cfg.Redis, log)
	if rdb != nil {
		defer rdb.Close()
	}

	// --- Object storage (optional) ---
	var store ports.ObjectStorage
	if cfg.Storage.Enabled() {
		bucket, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("object storage disabled")
		} else {
			store = bucket
		}
	}

	// --- Services ---
	users := postgres.NewUserRepository(source)
	router := api.NewRouter(api.Deps{
		Auth:       service.NewAuthService(users, throttle, log),
		Categories: service.NewCategoryService(postgres.NewCategoryRepository(source), log),
		Resources:  service.NewResourceService(postgres.NewResourceRepository(source), log),
		Users:      service.NewUserService(users, log),
		Uploads:    service.NewUploadService(store, log),
		Codec:      session.NewCodec(cfg.SessionSecret),

		Postgres: source,
		Redis:    handlers.RedisPinger(rdb),
		Settings: map[string]bool{
			"session_secret": cfg.SessionSecret != config.DevSessionSecret,
			"object_storage": store != nil,
		},

		SecureCookie:       cfg.Production(),
		GuardCatalogWrites: cfg.GuardCatalogWrites,
		CORSAllowOrigins:   cfg.CORSAllowOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		Log:                log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("admin console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}

// connectRedis returns a client and a Redis-backed login throttle, or a nil
// client and a no-op throttle when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, ports.LoginThrottle) {
	if cfg.Addr == "" {
		log.Info().Msg("redis not configured, login throttling disabled")
		return nil, redis.NopThrottle{}
	}
	rdb, throttle, err := redis.NewThrottle(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		return nil, redis.NopThrottle{}
	}
	return rdb, throttle
}
