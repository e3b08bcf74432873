// Package database provides the Postgres connection and migration management.
package database

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Open opens a PostgreSQL connection pool. sql.Open does not dial; callers
// should Ping before serving traffic.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[database.Open] sql.Open")
	}
	return db, nil
}
