// Package sqlstore implements the repository interfaces on database/sql for
// SQLite and PostgreSQL.
package sqlstore

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect hides the differences between the supported databases
type Dialect interface {
	// Name is the configured driver name ("sqlite" or "postgres")
	Name() string
	// DriverName returns the driver name for sql.Open
	DriverName() string
	// Rebind converts ? placeholders to the dialect's syntax
	Rebind(query string) string
	// Configure applies connection settings after opening
	Configure(db *sql.DB) error
}

// DialectFor returns the dialect for a configured driver
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "postgres", "postgresql":
		return Postgres{}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", name)
}

// SQLite is the local single-file dialect
type SQLite struct{}

func (SQLite) Name() string               { return "sqlite" }
func (SQLite) DriverName() string         { return "sqlite3" }
func (SQLite) Rebind(query string) string { return query }

func (SQLite) Configure(db *sql.DB) error {
	// a single writer keeps sqlite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	return nil
}

// Postgres is the server dialect
type Postgres struct{}

func (Postgres) Name() string       { return "postgres" }
func (Postgres) DriverName() string { return "postgres" }

func (Postgres) Rebind(query string) string {
	n := 0
	return placeholder.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func (Postgres) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

var placeholder = regexp.MustCompile(`\?`)
