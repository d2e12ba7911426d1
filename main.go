package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"shorter/internal/cache"
	"shorter/internal/config"
	"shorter/internal/database"
	"shorter/internal/repository"
	"shorter/internal/server"
	"shorter/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	cacheTTL        = 1 * time.Hour
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog := setupLogger(cfg)
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting shorter",
		slog.String("port", cfg.Port),
		slog.String("storage", cfg.StorageType),
		slog.String("base_url", cfg.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	urlRepo, userRepo, closeStore, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.LinkCache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL, cacheTTL)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache", slog.Any("error", err))
			cacheClient = nil
		} else {
			logger.Info("connected to redis cache")
			defer cacheClient.Close()
		}
	}

	urlService := service.NewURLService(urlRepo, cacheClient, logger, service.Config{
		BaseURL:        cfg.BaseURL,
		RejectOwnLinks: cfg.RejectOwnLinks,
	})
	authService := service.NewAuthService(userRepo, cfg.BcryptCost)

	if cfg.AdminUsername != "" {
		user, err := authService.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to bootstrap user: %w", err)
		}
		logger.Info("bootstrap user ready", slog.String("username", user.Username))
	}

	router, err := server.NewRouter(server.Dependencies{
		URLService:            urlService,
		AuthService:           authService,
		Logger:                logger,
		BaseURL:               cfg.BaseURL,
		RateLimitRPS:          cfg.RateLimitRPS,
		RateLimitBurst:        cfg.RateLimitBurst,
		RateLimitShortenRPS:   cfg.RateLimitShortenRPS,
		RateLimitShortenBurst: cfg.RateLimitShortenBurst,
	})
	if err != nil {
		return err
	}
	defer router.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// setupLogger logs JSON to stdout and, when LOG_FILE is set, to a rotated file
func setupLogger(cfg *config.Config) (*slog.Logger, func()) {
	var out io.Writer = os.Stdout
	closeFn := func() {}

	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closeFn = func() { _ = rotator.Close() }
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	return slog.New(slog.NewJSONHandler(out, opts)), closeFn
}

func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.URLRepository, repository.UserRepository, func(), error) {
	switch cfg.StorageType {
	case config.StorageTypePostgres:
		opts := database.DefaultOptions()
		opts.MaxOpenConns = cfg.DBMaxOpenConns
		opts.MaxIdleConns = cfg.DBMaxIdleConns

		db, err := database.NewConnection(ctx, cfg.DatabaseURL, opts, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		closeFn := func() { _ = db.Close() }
		return repository.NewURLRepository(db), repository.NewUserRepository(db), closeFn, nil
	case config.StorageTypeMemory:
		logger.Info("using in-memory storage")
		return repository.NewMemoryURLRepository(), repository.NewMemoryUserRepository(), func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}
