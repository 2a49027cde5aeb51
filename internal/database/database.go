package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	"github.com/daap14/teamroster/internal/config"
	"github.com/daap14/teamroster/internal/team"
)

// DB owns the connection backing the team repository for the configured driver.
type DB struct {
	driver string
	pool   *pgxpool.Pool
	sqlDB  *sql.DB
	teams  team.Repository
}

// Open connects to the database selected by cfg.StoreDriver and ensures the
// teams schema exists.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, databaseURL string) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	repo := team.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &DB{driver: config.DriverPostgres, pool: pool, teams: repo}, nil
}

func openSQLite(ctx context.Context, path string) (*DB, error) {
	dsn := sqliteDSN(path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	repo := team.NewSQLiteRepository(sqlDB)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &DB{driver: config.DriverSQLite, sqlDB: sqlDB, teams: repo}, nil
}

func sqliteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == ":memory:" {
		return path
	}
	return filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Driver reports which backend this DB was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Teams returns the team repository bound to this connection.
func (db *DB) Teams() team.Repository {
	return db.teams
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		return db.pool.Ping(ctx)
	}
	return db.sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.sqlDB != nil {
		_ = db.sqlDB.Close()
	}
}
