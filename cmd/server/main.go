package main

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/adapters/cache"
	"delivery-area-service/internal/adapters/repositories"
	"delivery-area-service/internal/api"
	"delivery-area-service/internal/config"
	"delivery-area-service/internal/platform/db"
	"delivery-area-service/internal/platform/logger"
	"delivery-area-service/internal/ports"
	"delivery-area-service/internal/services"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (embedded data or Postgres, optional Redis)
// behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		logger.L().Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	found, err := config.LoadDotEnv()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if !found {
		log.Info("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, conn, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Close()
	}

	opts := []services.Option{services.WithLogger(log)}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		// An unreachable Redis only disables caching; searches fall through.
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, search cache will miss", "addr", cfg.RedisAddr, "err", err)
		}
		cancel()

		opts = append(opts, services.WithSearchCache(cache.NewRedisSearchCache(client, cfg.SearchCacheTTL)))
	}

	svc := services.NewAreaService(repo, opts...)
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}
	svc.StartAutoReload(ctx, cfg.ReloadInterval)

	router := api.NewRouter(svc, cfg.AdminToken)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", srv.Addr, "data_source", cfg.DataSource, "redis", cfg.RedisAddr != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openRepository returns the configured area source and, for Postgres, the
// handle the caller must close.
func openRepository(ctx context.Context, cfg config.Config) (ports.AreaRepository, *sql.DB, error) {
	switch cfg.DataSource {
	case config.SourcePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewSQLAreaRepository(conn), conn, nil
	default:
		return repositories.NewEmbeddedAreaRepository(), nil, nil
	}
}
