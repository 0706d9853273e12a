package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens the local catalog/favorites cache at path and verifies
// the connection. ":memory:" gives a throwaway cache, with the pool caveat
// documented on ConfigureDatabase.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach cache database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase bounds the connection pool for the cache database.
// An in-memory cache must be limited to a single connection: database/sql
// opens a separate ":memory:" database per pooled connection.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}
