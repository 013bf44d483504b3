package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB wraps the sql connection pool shared by the repositories
type DB struct {
	*sql.DB
}

// NewDB opens a Postgres connection pool and verifies it
func NewDB(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{DB: db}, nil
}
