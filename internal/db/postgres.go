package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"resq-relief/resq/internal/config"
)

// InitPostgres opens the sqlx pool used for reporting queries and health
// checks, retrying while the database container comes up.
func InitPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres: %w", err)
}

// WrapGORM exposes the connection pool GORM already holds through sqlx.
// driverName selects the bind variable style.
func WrapGORM(gdb *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}

// OpenReporting returns the sqlx handle for cfg: a dedicated lib/pq pool on
// Postgres, the GORM pool otherwise.
func OpenReporting(cfg config.DatabaseConfig, gdb *gorm.DB) (*sqlx.DB, error) {
	if cfg.Driver == "postgres" {
		return InitPostgres(cfg.DSN())
	}
	return WrapGORM(gdb, "sqlite3")
}
