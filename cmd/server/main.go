// Command sweetshop-server starts the Sweet Shop HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manoj-kumar111/sweet-shop/internal/config"
	"github.com/manoj-kumar111/sweet-shop/internal/limiter"
	"github.com/manoj-kumar111/sweet-shop/internal/migrate"
	"github.com/manoj-kumar111/sweet-shop/internal/repository"
	"github.com/manoj-kumar111/sweet-shop/internal/repository/memory"
	"github.com/manoj-kumar111/sweet-shop/internal/repository/postgres"
	"github.com/manoj-kumar111/sweet-shop/internal/server/httpapi"
	"github.com/manoj-kumar111/sweet-shop/internal/service"
	"github.com/manoj-kumar111/sweet-shop/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, connects storage (falling back to in-memory
// stores in dev mode), and serves the REST API until interrupted.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr()),
		zap.Bool("dev", cfg.IsDev),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, sweets, lim, closeStore, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}
	defer closeStore()

	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.AccessTTL)

	authSvc := service.NewAuthService(users, tokens, lim, cfg.BcryptCost)
	sweetSvc := service.NewSweetService(sweets)

	router := httpapi.NewRouter(httpapi.RouterServices{
		Auth:     authSvc,
		Sweets:   sweetSvc,
		Verifier: tokens,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr()))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}

// openStores connects PostgreSQL and runs migrations. If the database is
// unreachable and dev mode is on, it degrades to in-memory stores so the
// API stays usable without external services.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (
	repository.UserRepository, repository.SweetRepository, limiter.Limiter, func(), error,
) {
	pool, err := connectPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		if !cfg.IsDev {
			return nil, nil, nil, nil, err
		}
		logger.Warn("database unreachable, using in-memory stores; data will not survive restarts",
			zap.Error(err))
		lim := limiter.NewMemory(cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)
		return memory.NewUserRepo(), memory.NewSweetRepo(), lim, func() {}, nil
	}

	db := &postgres.DB{Pool: pool}
	lim := limiter.NewPG(pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)
	return postgres.NewUserRepo(db), postgres.NewSweetRepo(db), lim, pool.Close, nil
}

func connectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if err := migrate.Up(ctx, dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
