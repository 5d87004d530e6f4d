package main

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"fantasy/internal/common/cache"
	"fantasy/internal/common/db"
	"fantasy/internal/common/http/middleware"
	"fantasy/internal/common/storage"
	"fantasy/internal/fantasy/seed"
	"fantasy/pkg/utils/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
	defaultMaxBodyBytes    = 16 << 20

	defaultDBDriver  = "sqlite"
	defaultDBDSN     = "file:fantasy.db"
	defaultBlobsPath = "data/blobs"
	defaultFlagsDir  = "data/flags"

	defaultComboTTL      = 30 * time.Minute
	defaultComboEmptyTTL = time.Minute
)

const (
	storageMinIO = "minio"
	storageLocal = "local"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	Gzip            *bool         `yaml:"gzip"`
}

// StorageConfig selects and configures the blob storage driver.
type StorageConfig struct {
	Driver string              `yaml:"driver"` // minio | local
	MinIO  storage.MinIOConfig `yaml:"minio"`
	Local  storage.LocalConfig `yaml:"local"`
}

// RedisSection enables the optional combo cache.
type RedisSection struct {
	Enabled           bool `yaml:"enabled"`
	cache.RedisConfig `yaml:",inline"`
}

// CacheConfig holds combo cache TTLs.
type CacheConfig struct {
	ComboTTL      time.Duration `yaml:"comboTTL"`
	ComboEmptyTTL time.Duration `yaml:"comboEmptyTTL"`
}

// SeedConfig controls startup seeding.
type SeedConfig struct {
	Enabled     *bool `yaml:"enabled"`
	seed.Config `yaml:",inline"`
}

// AppConfig holds the API configuration.
type AppConfig struct {
	Server   ServerConfig          `yaml:"server"`
	Logger   logger.Config         `yaml:"logger"`
	Database db.Config             `yaml:"database"`
	Storage  StorageConfig         `yaml:"storage"`
	Redis    RedisSection          `yaml:"redis"`
	Cache    CacheConfig           `yaml:"cache"`
	CORS     middleware.CORSConfig `yaml:"cors"`
	Seed     SeedConfig            `yaml:"seed"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

// loadAppConfig reads the YAML file, applies FANTASY_* environment
// overrides (optionally from envFile) and fills defaults.
func loadAppConfig(path, envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file failed: %w", err)
		}
	}

	cfg := AppConfig{CORS: middleware.DefaultCORSConfig()}
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg, os.LookupEnv)
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *AppConfig, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if value, ok := lookup(key); ok && value != "" {
			*dst = value
		}
	}
	set("FANTASY_HTTP_ADDR", &cfg.Server.Addr)
	set("FANTASY_DB_DRIVER", &cfg.Database.Driver)
	set("FANTASY_DB_DSN", &cfg.Database.DSN)
	set("FANTASY_STORAGE_DRIVER", &cfg.Storage.Driver)
	set("FANTASY_MINIO_ENDPOINT", &cfg.Storage.MinIO.Endpoint)
	set("FANTASY_MINIO_ACCESS_KEY", &cfg.Storage.MinIO.AccessKey)
	set("FANTASY_MINIO_SECRET_KEY", &cfg.Storage.MinIO.SecretKey)
	set("FANTASY_BLOBS_PUBLIC_URL", &cfg.Storage.Local.PublicURL)
	set("FANTASY_FLAGS_DIR", &cfg.Seed.FlagsDir)
	if value, ok := lookup("FANTASY_REDIS_ADDR"); ok && value != "" {
		cfg.Redis.Addr = value
		cfg.Redis.Enabled = true
	}
}

func applyDefaults(cfg *AppConfig) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = defaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Server.Gzip == nil {
		enabled := true
		cfg.Server.Gzip = &enabled
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = defaultDBDriver
	}
	if _, err := db.ParseDialect(cfg.Database.Driver); err != nil {
		return err
	}
	if cfg.Database.DSN == "" {
		if cfg.Database.Driver != defaultDBDriver {
			return fmt.Errorf("database.dsn is required for %s", cfg.Database.Driver)
		}
		cfg.Database.DSN = defaultDBDSN
	}
	cfg.Database.ApplyDefaults()

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch cfg.Storage.Driver {
	case "":
		cfg.Storage.Driver = storageLocal
		fallthrough
	case storageLocal:
		if cfg.Storage.Local.BaseURL == "" {
			cfg.Storage.Local.BaseURL = defaultBlobsPath
		}
		if cfg.Storage.Local.PublicURL == "" {
			cfg.Storage.Local.PublicURL = localBlobsURL(cfg.Server.Addr)
		}
	case storageMinIO:
		if cfg.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("storage.minio.endpoint is required")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Redis.Enabled {
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required when redis is enabled")
		}
		cfg.Redis.RedisConfig = cfg.Redis.RedisConfig.WithDefaults()
	}
	if cfg.Cache.ComboTTL == 0 {
		cfg.Cache.ComboTTL = defaultComboTTL
	}
	if cfg.Cache.ComboEmptyTTL == 0 {
		cfg.Cache.ComboEmptyTTL = defaultComboEmptyTTL
	}

	if cfg.Seed.Enabled == nil {
		enabled := true
		cfg.Seed.Enabled = &enabled
	}
	if cfg.Seed.FlagsDir == "" {
		cfg.Seed.FlagsDir = defaultFlagsDir
	}
	return nil
}

// localBlobsURL is the blobs route of this server as seen from the same host.
func localBlobsURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080" + blobsRoute
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + blobsRoute
}
