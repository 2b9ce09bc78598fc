package app

import (
	"context"

	"menu-service/internal/common/logging"
	"menu-service/internal/config"
)

// Migrate applies the database migrations for cfg and returns the schema version
func Migrate(ctx context.Context, cfg *config.Config) (uint, error) {
	app := &App{
		Config: cfg,
		Logger: logging.Component("app"),
	}
	if err := app.initializeStorage(ctx); err != nil {
		return 0, err
	}
	defer app.Close()

	return app.DB.Migrate(ctx)
}
