package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/inkwell/internal/waitlist/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWaitlistTestDB(t *testing.T) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(ctx, conn))
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestSQLiteWaitlistRepository_AddAndFind(t *testing.T) {
	repo := NewSQLiteWaitlistRepository(setupWaitlistTestDB(t))
	ctx := context.Background()

	entry, err := domain.NewEntry("Ada@Example.com", "Ada", []string{"paraphraser", "summarizer"}, "pricing")
	require.NoError(t, err)

	created, err := repo.Add(ctx, entry)
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.ID, found.ID)
	assert.Equal(t, "ada@example.com", found.Email)
	assert.Equal(t, []string{"paraphraser", "summarizer"}, found.Tools)
	assert.Equal(t, "pricing", found.Source)
	assert.True(t, entry.CreatedAt.Equal(found.CreatedAt))
}

func TestSQLiteWaitlistRepository_DuplicateEmailIsNotCreated(t *testing.T) {
	repo := NewSQLiteWaitlistRepository(setupWaitlistTestDB(t))
	ctx := context.Background()

	first, err := domain.NewEntry("dup@example.com", "First", nil, "")
	require.NoError(t, err)
	created, err := repo.Add(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	second, err := domain.NewEntry("dup@example.com", "Second", nil, "")
	require.NoError(t, err)
	created, err = repo.Add(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "First", found.Name)
	assert.Nil(t, found.Tools)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteWaitlistRepository_FindMissing(t *testing.T) {
	repo := NewSQLiteWaitlistRepository(setupWaitlistTestDB(t))

	found, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteWaitlistRepository_ListNewestFirst(t *testing.T) {
	repo := NewSQLiteWaitlistRepository(setupWaitlistTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		entry, err := domain.NewEntry(email, "", nil, "")
		require.NoError(t, err)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err = repo.Add(ctx, entry)
		require.NoError(t, err)
	}

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c@example.com", entries[0].Email)
	assert.Equal(t, "b@example.com", entries[1].Email)
}
