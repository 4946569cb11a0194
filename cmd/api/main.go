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

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Iryna9992004/crm-test-task-1/internal/app/migrate"
	httpx "github.com/Iryna9992004/crm-test-task-1/internal/http"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository/memory"
	mongorepo "github.com/Iryna9992004/crm-test-task-1/internal/repository/mongo"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository/postgres"
	redisrepo "github.com/Iryna9992004/crm-test-task-1/internal/repository/redis"
	"github.com/Iryna9992004/crm-test-task-1/internal/service/auth"
	"github.com/Iryna9992004/crm-test-task-1/pkg/config"
	"github.com/Iryna9992004/crm-test-task-1/pkg/logger"
)

func main() {
	cfg := config.LoadAPIConfig()
	log := logger.New("api", slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, health, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to set up user store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	authSvc := auth.New(users, log)
	router := httpx.NewRouter(log, authSvc, health)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr, "backend", cfg.StoreBackend)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

// buildStore selects the repository backend and returns it together with a
// health probe and a cleanup func.
func buildStore(ctx context.Context, cfg config.APIConfig, log *slog.Logger) (repository.UserRepository, func(context.Context) error, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
		if err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("configure migrations: %w", err)
		}
		if err := runner.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		if err := runner.Ensure(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return postgres.New(pool), pool.Ping, pool.Close, nil

	case "mongo":
		client, err := mongodrv.Connect(ctx, mongoopts.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		repo := mongorepo.New(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		health := func(ctx context.Context) error { return client.Ping(ctx, nil) }
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("mongo disconnect failed", "error", err)
			}
		}
		return repo, health, cleanup, nil

	case "redis":
		client, err := redisrepo.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		health := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Warn("redis close failed", "error", err)
			}
		}
		return redisrepo.New(client), health, cleanup, nil

	case "memory":
		return memory.New(), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}
