// Package di loads configuration from the environment and wires the full
// dependency graph for the server binaries.
package di

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/generation"
	"github.com/digitallabs/icp-engine/internal/aiprovider"
	"github.com/digitallabs/icp-engine/internal/cacheinfra"
	"github.com/digitallabs/icp-engine/internal/httpapi"
	"github.com/digitallabs/icp-engine/invalidation"
	"github.com/digitallabs/icp-engine/service"
	"github.com/digitallabs/icp-engine/store"
)

// Config is the full runtime configuration. A .env file in the working
// directory is honored when present; real environment variables win.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:icp-engine.db?cache=shared&_fk=1"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ListTTL     time.Duration `env:"CACHE_LIST_TTL" envDefault:"5m"`
	AnalysisTTL time.Duration `env:"CACHE_ANALYSIS_TTL" envDefault:"10m"`

	OllamaURL         string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel       string        `env:"OLLAMA_MODEL" envDefault:"llama3.1"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"90s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads Config from .env plus the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("di: parse environment: %w", err)
	}
	return cfg, nil
}

// Container owns the wired dependency graph and its closable resources.
type Container struct {
	Config  Config
	Logger  *slog.Logger
	DB      *bun.DB
	Store   store.Store
	Cache   *cache.Accessor
	Service *service.Service
	Handler *httpapi.Handler

	closers []func() error
}

// New wires everything. Redis backs the cache when REDIS_ADDR is set;
// otherwise an in-process TTL cache is used, which keeps single-node
// deployments free of an extra moving part.
func New(cfg Config) (*Container, error) {
	logger := newLogger(cfg.LogLevel)

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}
	c.closers = append(c.closers, db.Close)

	stats := cache.NewStats()
	backend, closeBackend := newBackend(cfg, logger)
	if closeBackend != nil {
		c.closers = append(c.closers, closeBackend)
	}
	cacheStore := cache.NewStore(backend, logger, stats)
	c.Cache = cache.NewAccessor(cacheStore, cache.MsgpackCodec{}, logger)

	ttl := cache.Config{ListTTL: cfg.ListTTL, AnalysisTTL: cfg.AnalysisTTL}
	if err := ttl.Validate(); err != nil {
		return nil, err
	}

	c.Store = store.NewBunStore(db)
	coordinator := invalidation.NewCoordinator(cacheStore, logger)

	provider := aiprovider.NewOllama(aiprovider.Config{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
	})

	generator := generation.New(generation.Params{
		Store:           c.Store,
		Provider:        provider,
		Invalidator:     coordinator,
		Cache:           c.Cache,
		TTL:             ttl,
		Logger:          logger,
		ProviderTimeout: cfg.GenerationTimeout,
	})

	c.Service = service.New(service.Params{
		Store:       c.Store,
		Cache:       c.Cache,
		Invalidator: coordinator,
		Generator:   generator,
		TTL:         ttl,
		Logger:      logger,
	})
	c.Handler = httpapi.NewHandler(c.Service, logger)

	return c, nil
}

// Close releases resources in reverse construction order.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func openDB(dsn string) (*bun.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("di: open sqlite: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func newBackend(cfg Config, logger *slog.Logger) (cache.Backend, func() error) {
	if cfg.RedisAddr != "" {
		rc := cacheinfra.DefaultRedisConfig()
		rc.Addr = cfg.RedisAddr
		rc.Password = cfg.RedisPassword
		rc.DB = cfg.RedisDB
		b := cacheinfra.NewRedisBackend(rc)
		return b, b.Close
	}
	b := cacheinfra.NewMemoryBackend()
	logger.Info("cache backend", "kind", "memory")
	return b, b.Close
}
