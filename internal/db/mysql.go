package db

import (
	"database/sql"

	"github.com/zourte2486/school-platform-test/internal/config"

	_ "github.com/go-sql-driver/mysql"
)

func NewConnection(cfg *config.Config) (*sql.DB, error) {
	database, err := sql.Open("mysql", cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	database.SetMaxOpenConns(cfg.Database.MaxConnections)
	database.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	database.SetConnMaxLifetime(cfg.Database.ConnectionLifetime)

	if err := database.Ping(); err != nil {
		return nil, err
	}

	return database, nil
}
