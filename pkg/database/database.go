package database

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"officehub/configs"
)

// ConnectDB opens the configured database. Postgres is the production
// driver; sqlite serves local development.
func ConnectDB(cfg configs.Config) *sqlx.DB {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		db, err = sqlx.Open("sqlite", cfg.SQLitePath)
	default:
		psqlconn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		db, err = sqlx.Open("postgres", psqlconn)
	}
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	return db
}
