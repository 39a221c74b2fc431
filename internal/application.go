package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/authority"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-engine/internal/notify"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	redistransport "github.com/rocketscienceinc/tictactoe-engine/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

const (
	shutdownTimeout = 10 * time.Second

	limiterCleanupInterval = time.Minute
	limiterIdleTimeout     = 10 * time.Minute
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type notifier interface {
	Send(ctx context.Context, recipient, message string) error
}

type counter interface {
	Increment(ctx context.Context, user, kind string) (int64, error)
}

// backend holds the storage-dependent collaborators of the use cases.
type backend struct {
	games     repository.GameRepository
	addresses repository.AddressRepository
	notifier  notifier
	counter   counter

	close func()
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		deps *backend
		err  error
	)

	switch conf.Storage {
	case config.StorageMemory:
		deps = newMemoryBackend(logger)
	default:
		deps, err = newRedisBackend(ctx, log, conf)
		if err != nil {
			return err
		}
	}
	defer deps.close()

	appMetrics := metrics.New()
	authorizer := authority.NewContextAuthorizer()

	games := usecase.NewGameManager(logger, deps.games, authorizer, appMetrics)
	addresses := usecase.NewAddressBook(logger, deps.addresses, authorizer, deps.notifier, deps.counter, appMetrics)

	limiter := rest.NewRateLimiter(logger, conf.RateLimit.RPS, conf.RateLimit.Burst)
	limiter.StartCleanup(ctx, limiterCleanupInterval, limiterIdleTimeout)

	server := rest.New(logger, rest.Handlers{
		Auth:      rest.NewAuth(logger, service.NewAuthService(conf.JWTSecretKey)),
		Games:     rest.NewGameHandler(logger, games),
		Addresses: rest.NewAddressHandler(logger, addresses),
		Limiter:   limiter,
		Metrics:   appMetrics.Handler(),
		Observer:  appMetrics,
		DevTokens: conf.Auth.DevTokens,
	})

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- server.Start(conf.HTTPPort)
	}()

	select {
	case err = <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		return nil
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-httpErrCh
}

func newMemoryBackend(logger *slog.Logger) *backend {
	return &backend{
		games:     memory.NewGameRepository(),
		addresses: memory.NewAddressRepository(),
		notifier:  notify.NewLogNotifier(logger),
		counter:   notify.NewCounter(),
		close:     func() {},
	}
}

func newRedisBackend(ctx context.Context, log *slog.Logger, conf *config.Config) (*backend, error) {
	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		_ = redisStorage.Close()
		return nil, fmt.Errorf("could not open sqlite storage: %w", err)
	}

	if err = sqliteStorage.Init(ctx); err != nil {
		_ = sqliteStorage.Close()
		_ = redisStorage.Close()

		return nil, fmt.Errorf("could not init sqlite storage: %w", err)
	}

	client := redistransport.New(redisStorage.Connection)

	return &backend{
		games:     repository.NewGameRepository(redisStorage.Connection),
		addresses: repository.NewAddressRepository(sqliteStorage.Connection),
		notifier:  client,
		counter:   client,
		close: func() {
			if err := sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}

			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		},
	}, nil
}
