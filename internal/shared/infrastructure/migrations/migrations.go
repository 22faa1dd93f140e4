package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Files returns the ordered .up.sql migration names for a driver.
func Files(driver database.Driver) ([]string, error) {
	entries, err := fs.ReadDir(files, driver.String())
	if err != nil {
		return nil, fmt.Errorf("read %s migrations: %w", driver, err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Run applies every migration for the connection's driver in order. The
// statements are idempotent, so Run is safe on every start.
func Run(ctx context.Context, conn database.Connection) error {
	driver := conn.Driver()
	names, err := Files(driver)
	if err != nil {
		return err
	}
	for _, name := range names {
		stmt, err := files.ReadFile(driver.String() + "/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
