package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is returned when a lookup finds nothing.
var ErrNoRows = errors.New("no rows in result set")

// IsNoRows reports whether err is a missing-row error from either driver, so
// repositories can turn it into a nil result.
func IsNoRows(err error) bool {
	for _, target := range []error{pgx.ErrNoRows, sql.ErrNoRows, ErrNoRows} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
