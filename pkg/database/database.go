// Package database opens the history ledger database. SQLite is the default
// for a single operator; a Postgres DSN can be configured when a team shares
// one ledger.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the history database backend.
type Config struct {
	Driver string
	DSN    string // file path for sqlite, connection string for postgres
}

// Open connects to the configured database. For SQLite the parent directory
// is created on first use.
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch cfg.Driver {
	case DriverSQLite, "":
		if dir := filepath.Dir(cfg.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating history directory: %w", err)
			}
		}
		db, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite history database: %w", err)
		}
		log.Debug().Str("path", cfg.DSN).Msg("History database opened")
		return db, nil

	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres history database: %w", err)
		}
		log.Debug().Msg("History database connected")
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported history driver: %s", cfg.Driver)
	}
}

// Migrate runs database migrations for all models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}
