package domain

import "context"

// Repository stores waitlist entries.
type Repository interface {
	// Add inserts entry unless its email is already present. created reports
	// whether a row was written.
	Add(ctx context.Context, entry *Entry) (created bool, err error)
	FindByEmail(ctx context.Context, email string) (*Entry, error)
	// List returns the newest entries first.
	List(ctx context.Context, limit int) ([]*Entry, error)
	Count(ctx context.Context) (int, error)
}
