package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/swap24/backend/internal/config"
	"github.com/swap24/backend/pkg/logger"
)

// InitDB opens and verifies the Postgres pool.
func InitDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Log.Info("Database connection established")
	return db, nil
}

// InitDatabase initializes database with error handling
func InitDatabase(cfg config.DatabaseConfig) *sql.DB {
	db, err := InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database: " + err.Error())
	}
	return db
}
