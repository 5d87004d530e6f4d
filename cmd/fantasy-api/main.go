package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fantasy/internal/common/cache"
	"fantasy/internal/common/db"
	"fantasy/internal/common/storage"
	"fantasy/internal/fantasy/controller"
	"fantasy/internal/fantasy/repository"
	"fantasy/internal/fantasy/seed"
	"fantasy/internal/fantasy/service"
	"fantasy/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	defaultConfigPath = "configs/fantasy_api.yaml"
	defaultEnvFile    = ".env"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	envFile := flag.String("env", defaultEnvFile, "Optional dotenv file with FANTASY_* overrides")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(appCfg); err != nil {
		logger.Error(context.Background(), "fantasy api stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(appCfg *AppConfig) error {
	ctx := context.Background()

	database, err := db.Open(&appCfg.Database)
	if err != nil {
		return fmt.Errorf("init database failed: %w", err)
	}
	defer func() { _ = database.Close() }()
	provider := db.NewManager(database)

	blobs, err := newBlobStorage(appCfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage failed: %w", err)
	}

	var comboCache cache.Cache
	if appCfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis.RedisConfig)
		if err != nil {
			return fmt.Errorf("init redis failed: %w", err)
		}
		defer func() { _ = redisCache.Close() }()
		comboCache = redisCache
	}

	countryRepo := repository.NewCountryRepositoryWithTTL(provider, comboCache, appCfg.Cache.ComboTTL, appCfg.Cache.ComboEmptyTTL)
	teamRepo := repository.NewTeamRepositoryWithTTL(provider, comboCache, appCfg.Cache.ComboTTL, appCfg.Cache.ComboEmptyTTL)

	if *appCfg.Seed.Enabled {
		seeder := seed.NewSeeder(provider, countryRepo, teamRepo, blobs, appCfg.Seed.Config)
		if err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed database failed: %w", err)
		}
	} else if err := db.Migrate(ctx, database, repository.Migrations()); err != nil {
		return fmt.Errorf("migrate database failed: %w", err)
	}

	countries := controller.NewCountryController(service.NewCountryService(countryRepo))
	teams := controller.NewTeamController(service.NewTeamService(teamRepo, countryRepo, blobs))

	httpServer := buildHTTPServer(appCfg, provider, blobs, countries, teams)
	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("init http listener failed: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "fantasy api started",
			zap.String("addr", appCfg.Server.Addr),
			zap.String("db", appCfg.Database.Driver),
			zap.String("storage", appCfg.Storage.Driver),
			zap.Bool("redis", appCfg.Redis.Enabled),
		)
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server stopped: %w", err)
		}
		return nil
	case <-shutdownCtx.Done():
		logger.Info(ctx, "shutdown signal received")
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), appCfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(timeoutCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func newBlobStorage(cfg StorageConfig) (storage.BlobStorage, error) {
	if cfg.Driver == storageMinIO {
		minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return minioStorage, nil
	}
	localStorage, err := storage.NewLocalStorage(cfg.Local)
	if err != nil {
		return nil, err
	}
	return localStorage, nil
}
