package persistence

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/inkwell/internal/waitlist/domain"
	"github.com/google/uuid"
)

// SQLiteWaitlistRepository implements domain.Repository with SQLite. Tools are
// stored as a JSON array and timestamps as RFC 3339 text.
type SQLiteWaitlistRepository struct {
	db database.Executor
}

// NewSQLiteWaitlistRepository creates a new repository.
func NewSQLiteWaitlistRepository(db database.Executor) *SQLiteWaitlistRepository {
	return &SQLiteWaitlistRepository{db: db}
}

// Add inserts entry, leaving an existing row for the same email untouched.
func (r *SQLiteWaitlistRepository) Add(ctx context.Context, entry *domain.Entry) (bool, error) {
	tools := entry.Tools
	if tools == nil {
		tools = []string{}
	}
	toolsJSON, err := json.Marshal(tools)
	if err != nil {
		return false, err
	}

	res, err := r.db.Exec(ctx, `
		INSERT INTO waitlist_entries (id, email, name, tools, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`,
		entry.ID.String(),
		strings.ToLower(entry.Email),
		entry.Name,
		string(toolsJSON),
		entry.Source,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
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

const sqliteEntryColumns = `id, email, name, tools, source, created_at`

// FindByEmail returns the entry for email, or nil.
func (r *SQLiteWaitlistRepository) FindByEmail(ctx context.Context, email string) (*domain.Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+sqliteEntryColumns+` FROM waitlist_entries WHERE email = ?`,
		strings.ToLower(email),
	)
	entry, err := scanSQLiteEntry(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// List returns up to limit entries, newest first.
func (r *SQLiteWaitlistRepository) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sqliteEntryColumns+` FROM waitlist_entries ORDER BY created_at DESC, email LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of entries.
func (r *SQLiteWaitlistRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM waitlist_entries`).Scan(&n)
	return n, err
}

func scanSQLiteEntry(row database.Row) (*domain.Entry, error) {
	var idStr, email, name, toolsJSON, source, createdAtStr string
	if err := row.Scan(&idStr, &email, &name, &toolsJSON, &source, &createdAtStr); err != nil {
		return nil, err
	}

	id, _ := uuid.Parse(idStr)
	createdAt, _ := time.Parse(time.RFC3339Nano, createdAtStr)
	entry := &domain.Entry{ID: id, Email: email, Name: name, Source: source, CreatedAt: createdAt}

	var tools []string
	if err := json.Unmarshal([]byte(toolsJSON), &tools); err == nil && len(tools) > 0 {
		entry.Tools = tools
	}
	return entry, nil
}

var _ domain.Repository = (*SQLiteWaitlistRepository)(nil)
