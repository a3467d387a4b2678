package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/ticket-booking/internal/config"
)

// DSN builds the MySQL data source name for the audit database.
func DSN(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps event timestamps consistent
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Open connects to MySQL and verifies the connection within ctx.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}

	// Pool settings; the consumer is the only writer
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
