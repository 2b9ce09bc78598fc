// Package storage persists menus, submenus and dishes in PostgreSQL or SQLite.
//
// All queries run inside a Session, which owns one transaction. The
// Repository methods take a Querier so they can be used with any session.
package storage

import (
	"context"
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"menu-service/internal/common/errors"
	"menu-service/internal/common/logging"
)

// Dialect selects the SQL driver and placeholder style
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// Config describes how to reach the database
type Config struct {
	Dialect Dialect
	// DSN is a postgres URL or a sqlite file/URI
	DSN string
	// MaxOpenConns applies to postgres only; sqlite always uses one connection
	MaxOpenConns int
}

// DB is the connection pool plus the query builder for its dialect
type DB struct {
	sql     *sql.DB
	dialect Dialect
	config  Config
	builder sq.StatementBuilderType
	logger  logging.Logger
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, config Config) (*DB, error) {
	driver, placeholder, err := driverFor(config.Dialect)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.Dialect == SQLite {
		// one writer; also keeps shared in-memory databases alive
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		if config.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(config.MaxOpenConns)
		}
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.BackendUnavailableError("database", fmt.Errorf("failed to ping database: %w", err))
	}

	return &DB{
		sql:     sqlDB,
		dialect: config.Dialect,
		config:  config,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		logger:  logging.Component("storage").WithFields(logging.String("dialect", string(config.Dialect))),
	}, nil
}

func driverFor(d Dialect) (string, sq.PlaceholderFormat, error) {
	switch d {
	case Postgres:
		return "pgx", sq.Dollar, nil
	case SQLite:
		return "sqlite3", sq.Question, nil
	default:
		return "", nil, errors.ConfigError(fmt.Sprintf("unsupported database dialect: %q", d))
	}
}

// Close closes the connection pool
func (db *DB) Close() error {
	return db.sql.Close()
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.sql.PingContext(ctx); err != nil {
		return errors.BackendUnavailableError("database", err)
	}
	return nil
}

// Dialect returns the configured dialect
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Migrate applies every pending embedded migration and returns the resulting
// schema version. Migrations run on a separate connection because the
// migrate drivers close their database when done.
func (db *DB) Migrate(ctx context.Context) (uint, error) {
	driverName, _, err := driverFor(db.dialect)
	if err != nil {
		return 0, err
	}

	migrationDB, err := sql.Open(driverName, db.config.DSN)
	if err != nil {
		return 0, fmt.Errorf("open migration connection: %w", err)
	}
	if err := migrationDB.PingContext(ctx); err != nil {
		_ = migrationDB.Close()
		return 0, errors.BackendUnavailableError("database", err)
	}

	var driver database.Driver
	switch db.dialect {
	case Postgres:
		driver, err = migratepg.WithInstance(migrationDB, &migratepg.Config{})
	case SQLite:
		driver, err = migratesqlite.WithInstance(migrationDB, &migratesqlite.Config{})
	}
	if err != nil {
		_ = migrationDB.Close()
		return 0, fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(db.dialect))
	if err != nil {
		_ = driver.Close()
		return 0, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.dialect), driver)
	if err != nil {
		_ = driver.Close()
		return 0, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("database schema is dirty at version %d", version)
	}

	db.logger.Info("Migrations applied", logging.Int64("version", int64(version)))
	return version, nil
}

// logSQL writes a built statement at debug level
func (db *DB) logSQL(op, query string, args []interface{}) {
	db.logger.Debug("SQL",
		logging.String("op", op),
		logging.String("query", query),
		logging.Int("args", len(args)),
	)
}

// SQLiteDSN returns a DSN for a sqlite database file with foreign keys enabled
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_fk=1&_busy_timeout=5000", path)
}

// SQLiteMemoryDSN returns a DSN for a named, shared in-memory sqlite database
func SQLiteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
}
