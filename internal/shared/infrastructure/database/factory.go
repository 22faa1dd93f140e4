package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds database configuration.
type Config struct {
	// Driver is detected from URL when empty.
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the SQLite file used in local mode. ":memory:" opens a
	// private in-memory database.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// ConnectorFunc opens a connection for one driver.
type ConnectorFunc func(ctx context.Context, cfg Config) (Connection, error)

var connectors = map[Driver]ConnectorFunc{}

// Register installs the connector for a driver. Driver packages call it from init.
func Register(driver Driver, fn ConnectorFunc) {
	connectors[driver] = fn
}

// NewConnection opens a connection using the driver detected from cfg.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	fn, ok := connectors[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %s is not linked into this binary", driver)
	}
	return fn(ctx, cfg)
}

// DefaultSQLitePath returns ~/.inkwell/inkwell.db.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".inkwell", "inkwell.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
