package database

import (
	"path/filepath"
	"strings"
)

// Driver names a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string { return string(d) }

// IsValid reports whether d is a backend Inkwell can store subscriptions
// and waitlist entries in.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

var (
	schemeDrivers = map[string]Driver{
		"postgres":   DriverPostgres,
		"postgresql": DriverPostgres,
		"sqlite":     DriverSQLite,
	}
	sqliteExtensions = map[string]bool{".db": true, ".sqlite": true, ".sqlite3": true}
)

// DetectDriver picks the backend for DATABASE_URL. An empty URL selects
// local mode on SQLite; anything unrecognised is handed to PostgreSQL.
func DetectDriver(url string) Driver {
	if url == "" || strings.HasPrefix(url, "file:") {
		return DriverSQLite
	}
	if scheme, _, ok := strings.Cut(url, "://"); ok {
		if d, known := schemeDrivers[strings.ToLower(scheme)]; known {
			return d
		}
	}
	if sqliteExtensions[strings.ToLower(filepath.Ext(url))] {
		return DriverSQLite
	}
	return DriverPostgres
}
