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

	"bookmarks/backend/internal/config"
	authdomain "bookmarks/backend/internal/domain/auth"
	bookmarkdomain "bookmarks/backend/internal/domain/bookmark"
	"bookmarks/backend/internal/httpserver"
	"bookmarks/backend/internal/infrastructure/hasher"
	"bookmarks/backend/internal/infrastructure/postgres"
	rediscache "bookmarks/backend/internal/infrastructure/redis"
	"bookmarks/backend/internal/infrastructure/sqlite"
	"bookmarks/backend/internal/infrastructure/token"
	"bookmarks/backend/internal/logging"
	"bookmarks/backend/internal/telemetry"
	authusecase "bookmarks/backend/internal/usecase/auth"
	bookmarkusecase "bookmarks/backend/internal/usecase/bookmark"
	userusecase "bookmarks/backend/internal/usecase/user"
)

const serviceName = "bookmarks-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	// net/http and library output written through the log package share the
	// configured handler.
	slog.SetDefault(logger.Slog())
	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server exited with error", "error", err)
		os.Exit(1)
	}
}

// storage bundles the repositories of whichever driver is configured.
type storage struct {
	users     authdomain.UserRepository
	bookmarks bookmarkdomain.Repository
	ping      func(context.Context) error
	close     func()
}

func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:     store.Users(),
			bookmarks: store.Bookmarks(),
			ping:      store.Ping,
			close:     func() { _ = store.Close() },
		}, nil
	default:
		db, err := postgres.New(ctx, cfg.DatabaseURL, postgres.Options{})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("run database migrations: %w", err)
		}
		return &storage{
			users:     postgres.NewUserRepository(db.Pool),
			bookmarks: postgres.NewBookmarkRepository(db.Pool),
			ping:      db.Ping,
			close:     db.Close,
		}, nil
	}
}

func run(cfg config.Config, logger *logging.SlogLogger) error {
	rootCtx := context.Background()

	shutdownTracing, err := telemetry.Setup(rootCtx, telemetry.Config{
		Enabled:  cfg.OTel.Enabled,
		Endpoint: cfg.OTel.Endpoint,
	}, serviceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn(ctx, "tracer shutdown failed", "error", err)
		}
	}()

	store, err := openStorage(rootCtx, cfg)
	if err != nil {
		return err
	}
	defer store.close()
	logger.Info(rootCtx, "storage ready", "driver", cfg.DBDriver)

	var cache authusecase.IdentityCache = authusecase.NopCache{}
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(rootCtx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = rediscache.NewIdentityCache(rdb, cfg.Redis.TTL)
		logger.Info(rootCtx, "identity cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	tokenManager := token.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)
	passwordHasher := hasher.NewBcrypt(cfg.BcryptCost)

	authService := authusecase.NewService(store.users, tokenManager, passwordHasher, cache, logger)
	userService := userusecase.NewService(store.users, cache, logger)
	bookmarkService := bookmarkusecase.NewService(store.bookmarks)

	server := httpserver.NewServer(cfg, logger, httpserver.Deps{
		Auth:      authService,
		Users:     userService,
		Bookmarks: bookmarkService,
		Health:    store.ping,
	})
	logger.Info(rootCtx, "HTTP server listening", "addr", server.Addr())

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-shutdownCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info(ctx, "graceful shutdown completed")
	return nil
}
