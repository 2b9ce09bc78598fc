// Package app wires configuration, storage, cache and HTTP into a runnable service.
package app

import (
	"context"
	"fmt"
	"time"

	"menu-service/internal/cache"
	"menu-service/internal/circuitbreaker"
	"menu-service/internal/common/logging"
	"menu-service/internal/config"
	"menu-service/internal/menu"
	"menu-service/internal/metrics"
	"menu-service/internal/redis"
	"menu-service/internal/storage"
)

const metricsNamespace = "menu_service"

// App holds all the application dependencies
type App struct {
	Config  *config.Config
	DB      *storage.DB
	Store   cache.Store
	Cache   *cache.Coordinator
	Menus   *menu.Service
	Metrics *metrics.Collector
	Logger  logging.Logger
}

// New creates an application with every dependency connected. Migrations
// are applied unless skipMigrations is set.
func New(ctx context.Context, cfg *config.Config, skipMigrations bool) (*App, error) {
	app := &App{
		Config:  cfg,
		Metrics: metrics.NewCollector(metricsNamespace),
		Logger:  logging.Component("app"),
	}

	if err := app.initializeStorage(ctx); err != nil {
		return nil, err
	}

	if !skipMigrations {
		if err := app.runMigrations(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}

	if err := app.initializeCache(); err != nil {
		app.Close()
		return nil, err
	}

	app.Menus = menu.NewService(app.DB, app.Cache, nil)
	return app, nil
}

// NewCacheOnly connects just the cache, for administrative commands
func NewCacheOnly(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.Component("app"),
	}
	if err := app.initializeCache(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *App) initializeStorage(ctx context.Context) error {
	storageConfig := storage.Config{Dialect: storage.Dialect(app.Config.DatabaseType)}

	switch storageConfig.Dialect {
	case storage.Postgres:
		app.Logger.Info("Database: PostgreSQL",
			logging.String("host", app.Config.PostgresHost),
			logging.Int("port", app.Config.PostgresPort),
			logging.String("database", app.Config.PostgresDB),
		)
		storageConfig.DSN = app.Config.PostgresDSN()
		storageConfig.MaxOpenConns = 25
	default:
		app.Logger.Info("Database: SQLite", logging.String("path", app.Config.DatabasePath))
		storageConfig.DSN = storage.SQLiteDSN(app.Config.DatabasePath)
	}

	db, err := storage.Open(ctx, storageConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.DB = db
	return nil
}

func (app *App) runMigrations(ctx context.Context) error {
	version, err := app.DB.Migrate(ctx)
	if err != nil {
		return err
	}
	app.Logger.Info("Database schema is up to date", logging.Int64("version", int64(version)))
	return nil
}

func (app *App) initializeCache() error {
	var backend cache.Store
	switch app.Config.CacheBackend {
	case "local":
		app.Logger.Warn("Cache: in-process store, entries are not shared between instances")
		backend = cache.NewLocalStore(time.Minute)
	default:
		client, err := redis.NewClient(&redis.Config{
			Address:    app.Config.RedisAddress,
			Password:   app.Config.RedisPassword,
			DB:         app.Config.RedisDB,
			PoolSize:   app.Config.RedisPoolSize,
			MaxRetries: app.Config.RedisMaxRetries,
		})
		if err != nil {
			return err
		}
		app.Logger.Info("Cache: Redis",
			logging.String("address", app.Config.RedisAddress),
			logging.Int("db", app.Config.RedisDB),
		)
		backend = client
	}

	breaker := circuitbreaker.New("cache", circuitbreaker.Config{
		MaxFailures:           app.Config.CacheBreakerFailures,
		Timeout:               app.Config.CacheBreakerTimeout,
		MaxConcurrentRequests: 1,
	}, logging.Component("circuitbreaker"))

	codec, err := cache.NewCBORCodec()
	if err != nil {
		_ = backend.Close()
		return fmt.Errorf("failed to build cache codec: %w", err)
	}

	app.Store = cache.NewBreakerStore(backend, breaker)
	app.Cache = cache.NewCoordinator(app.Store, codec, cache.Config{
		TTL:       app.Config.CacheTTL,
		OpTimeout: app.Config.CacheOpTimeout,
	}, app.Metrics, nil)
	return nil
}

// Close releases all resources
func (app *App) Close() {
	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			app.Logger.Warn("Error closing cache store", logging.Err(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Warn("Error closing database", logging.Err(err))
		}
	}
}
