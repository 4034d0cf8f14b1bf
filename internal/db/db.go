// Package db provides the datastore collaborator for the steward lifecycle.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"steward/internal/config"
	"steward/internal/constants"
	"steward/internal/xdg"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config represents database configuration
type Config struct {
	// Driver specifies the database driver (sqlite3, postgres)
	Driver string
	// DSN is the data source name
	DSN string
	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection
	ConnMaxIdleTime time.Duration
}

// getDefaultDatabasePath returns the XDG-compliant sqlite database path
func getDefaultDatabasePath() string {
	dataDir, err := xdg.DataDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "share", "steward", "steward.db")
	}
	return filepath.Join(dataDir, "steward.db")
}

// ConfigFromService builds a Config from the service-level database descriptor.
func ConfigFromService(dc config.DatabaseConfig) *Config {
	cfg := &Config{
		Driver:          dc.Driver,
		MaxOpenConns:    constants.DefaultMaxOpenConnections,
		MaxIdleConns:    constants.DefaultMaxIdleConnections,
		ConnMaxLifetime: constants.DefaultConnMaxLifetime,
		ConnMaxIdleTime: constants.DefaultConnMaxIdleTime,
	}

	switch dc.Driver {
	case "postgres":
		cfg.DSN = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			dc.Host, dc.Port, dc.User, dc.Password, dc.Name)
	default:
		cfg.Driver = "sqlite3"
		if dc.Path != "" {
			cfg.DSN = dc.Path
		} else {
			cfg.DSN = getDefaultDatabasePath()
		}
	}

	return cfg
}

// DefaultConfig returns a default SQLite configuration
func DefaultConfig() *Config {
	return &Config{
		Driver:          "sqlite3",
		DSN:             getDefaultDatabasePath(),
		MaxOpenConns:    constants.DefaultMaxOpenConnections,
		MaxIdleConns:    constants.DefaultMaxIdleConnections,
		ConnMaxLifetime: constants.DefaultConnMaxLifetime,
		ConnMaxIdleTime: constants.DefaultConnMaxIdleTime,
	}
}

// DB is the datastore handle. It is created unconnected; Connect opens the
// pool and Close releases it, matching the lifecycle collaborator contract.
type DB struct {
	pool   *sqlx.DB
	config *Config
}

// New creates an unconnected datastore handle
func New(cfg *Config) *DB {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &DB{config: cfg}
}

// Connect opens the database connection, verifies it and runs migrations
func (db *DB) Connect(ctx context.Context) error {
	if db.pool != nil {
		return nil
	}

	// Ensure directory exists for SQLite
	if db.config.Driver == "sqlite3" && db.config.DSN != ":memory:" {
		dir := filepath.Dir(db.config.DSN)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	pool, err := sqlx.Open(db.config.Driver, db.config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	pool.SetMaxOpenConns(db.config.MaxOpenConns)
	pool.SetMaxIdleConns(db.config.MaxIdleConns)
	pool.SetConnMaxLifetime(db.config.ConnMaxLifetime)
	pool.SetConnMaxIdleTime(db.config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, constants.DefaultPingTimeout)
	defer cancel()

	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Enable foreign keys for SQLite
	if db.config.Driver == "sqlite3" {
		if _, err := pool.Exec("PRAGMA foreign_keys = ON"); err != nil {
			pool.Close()
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	db.pool = pool

	if err := db.migrate(); err != nil {
		db.pool = nil
		pool.Close()
		return err
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close(ctx context.Context) error {
	if db.pool == nil {
		return nil
	}
	err := db.pool.Close()
	db.pool = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Connected reports whether the pool is open
func (db *DB) Connected() bool {
	return db.pool != nil
}

// migrate runs the embedded database migrations
func (db *DB) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	var dbDriver string
	var dbInstance database.Driver

	switch db.config.Driver {
	case "sqlite3":
		dbDriver = "sqlite3"
		dbInstance, err = sqlite3.WithInstance(db.pool.DB, &sqlite3.Config{})
		if err != nil {
			return fmt.Errorf("failed to create sqlite3 driver instance: %w", err)
		}
	case "postgres":
		dbDriver = "postgres"
		dbInstance, err = postgres.WithInstance(db.pool.DB, &postgres.Config{})
		if err != nil {
			return fmt.Errorf("failed to create postgres driver instance: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", db.config.Driver)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dbDriver, dbInstance)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.pool == nil {
		return fmt.Errorf("database is not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultPingTimeout)
	defer cancel()

	if err := db.pool.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var result int
	if err := db.pool.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("health check query failed: %w", err)
	}

	return nil
}

// Stats returns database statistics
func (db *DB) Stats() sql.DBStats {
	if db.pool == nil {
		return sql.DBStats{}
	}
	return db.pool.Stats()
}
