// Package persistence stores waitlist entries in PostgreSQL or SQLite.
package persistence

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/inkwell/internal/waitlist/domain"
	"github.com/lib/pq"
)

// PostgresWaitlistRepository implements domain.Repository with PostgreSQL.
type PostgresWaitlistRepository struct {
	db database.Executor
}

// NewPostgresWaitlistRepository creates a new repository.
func NewPostgresWaitlistRepository(db database.Executor) *PostgresWaitlistRepository {
	return &PostgresWaitlistRepository{db: db}
}

// Add inserts entry, leaving an existing row for the same email untouched.
func (r *PostgresWaitlistRepository) Add(ctx context.Context, entry *domain.Entry) (bool, error) {
	query := `
		INSERT INTO waitlist_entries (id, email, name, tools, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`
	tools := entry.Tools
	if tools == nil {
		tools = []string{}
	}
	res, err := r.db.Exec(ctx, query,
		entry.ID,
		strings.ToLower(entry.Email),
		entry.Name,
		pq.Array(tools),
		entry.Source,
		entry.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const postgresEntryColumns = `id, email, name, tools, source, created_at`

// FindByEmail returns the entry for email, or nil.
func (r *PostgresWaitlistRepository) FindByEmail(ctx context.Context, email string) (*domain.Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+postgresEntryColumns+` FROM waitlist_entries WHERE email = $1`,
		strings.ToLower(email),
	)
	entry, err := scanPostgresEntry(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// List returns up to limit entries, newest first.
func (r *PostgresWaitlistRepository) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+postgresEntryColumns+` FROM waitlist_entries ORDER BY created_at DESC, email LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanPostgresEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of entries.
func (r *PostgresWaitlistRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM waitlist_entries`).Scan(&n)
	return n, err
}

func scanPostgresEntry(row database.Row) (*domain.Entry, error) {
	var (
		entry domain.Entry
		tools []string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.Email,
		&entry.Name,
		pq.Array(&tools),
		&entry.Source,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(tools) > 0 {
		entry.Tools = tools
	}
	return &entry, nil
}

var _ domain.Repository = (*PostgresWaitlistRepository)(nil)
