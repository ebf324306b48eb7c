// Command server runs the SkillBridge session gateway.
//
//	@title			SkillBridge Session Gateway
//	@version		1.0
//	@description	Session, login and role-based route guarding for the SkillBridge marketplace.
//	@BasePath		/
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

	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/session-gateway/internal/api"
	"github.com/skillbridge/session-gateway/internal/api/metrics"
	"github.com/skillbridge/session-gateway/internal/core/ports"
	"github.com/skillbridge/session-gateway/internal/core/service"
	"github.com/skillbridge/session-gateway/internal/infrastructure/db/memory"
	mongodir "github.com/skillbridge/session-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/skillbridge/session-gateway/internal/infrastructure/db/redis"
	"github.com/skillbridge/session-gateway/internal/infrastructure/db/seed"
	"github.com/skillbridge/session-gateway/internal/infrastructure/http/handlers"
	"github.com/skillbridge/session-gateway/internal/infrastructure/notify"
	"github.com/skillbridge/session-gateway/internal/infrastructure/queue"
	"github.com/skillbridge/session-gateway/internal/pkg/config"
	"github.com/skillbridge/session-gateway/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "session-gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "session-gateway",
	})

	readiness := make(map[string]handlers.Checker)

	directory, closeDirectory, err := openDirectory(ctx, cfg, readiness)
	if err != nil {
		return err
	}
	defer closeDirectory()

	storage, closeStorage, err := openStorage(ctx, cfg, readiness)
	if err != nil {
		return err
	}
	defer closeStorage()

	dispatcher := queue.NewDispatcher(
		cfg.Session.ResetWorkers,
		notify.NewLogSender(logger.Component("notify"), cfg.PublicURL),
		logger.Component("queue"),
	)
	dispatcher.Start(ctx)

	registry := service.NewSessionRegistry(
		directory,
		storage,
		dispatcher,
		cfg.Session.SimulatedLatency,
		logger.Component("session"),
	)
	go registry.RunSweeper(ctx, sweepInterval, cfg.Session.IdleTimeout, func(active int) {
		metrics.ActiveSessions.Set(float64(active))
	})

	e := api.NewRouter(api.Dependencies{
		Registry:      registry,
		Tokens:        service.NewTokenIssuer(cfg.Session.Secret, cfg.Session.TTL),
		Readiness:     readiness,
		SecureCookies: cfg.Session.SecureCookies,
		Log:           logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("directory", cfg.Backend.Directory).
			Str("storage", cfg.Backend.Storage).
			Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openDirectory(ctx context.Context, cfg *config.Config, readiness map[string]handlers.Checker) (ports.Directory, func(), error) {
	accounts, err := seed.DirectoryAccounts(bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Backend.Directory != config.BackendMongo {
		return memory.NewDirectory(accounts), func() {}, nil
	}

	db, disconnect, err := mongodir.Connect(ctx, mongodir.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "session-gateway",
	})
	if err != nil {
		return nil, nil, err
	}
	dir := mongodir.NewDirectory(db)
	if err := dir.EnsureIndexes(ctx); err != nil {
		_ = disconnect(context.Background())
		return nil, nil, err
	}
	if err := dir.Seed(ctx, accounts); err != nil {
		_ = disconnect(context.Background())
		return nil, nil, err
	}
	readiness["mongodb"] = handlers.MongoChecker(db)

	return dir, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = disconnect(shutdownCtx)
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config, readiness map[string]handlers.Checker) (ports.StorageScoper, func(), error) {
	if cfg.Backend.Storage != config.BackendRedis {
		return memory.NewStorage(), func() {}, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	readiness["redis"] = handlers.RedisChecker(rdb)

	return redisstore.NewSessionStorage(rdb, cfg.Session.TTL), func() { _ = rdb.Close() }, nil
}
