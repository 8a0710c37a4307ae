package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/omnibar/internal/candidate"
)

// backend is the surface shared by SQLite and Memory.
type backend interface {
	Lookup(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Get(key string) (string, bool)
	Set(key, value string)
	PutRecent(ctx context.Context, it candidate.RecentItem) error
	Recent(ctx context.Context, limit int) ([]candidate.RecentItem, error)
	TrimRecent(ctx context.Context, keep int) error
	Visit(ctx context.Context, it candidate.RecentItem, keep int) error
	DeleteRecent(ctx context.Context, kind, id string) error
	ClearRecent(ctx context.Context) error
	Close() error
}

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "omnibar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends(t *testing.T) map[string]backend {
	return map[string]backend{
		"sqlite": openTestSQLite(t),
		"memory": NewMemory(),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omnibar.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "k", "v"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Lookup(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestKeyValueRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Lookup(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
			_, ok := b.Get("missing")
			assert.False(t, ok)

			require.NoError(t, b.Put(ctx, "prefs", `{"a":1}`))
			require.NoError(t, b.Put(ctx, "prefs", `{"a":2}`))
			v, err := b.Lookup(ctx, "prefs")
			require.NoError(t, err)
			assert.Equal(t, `{"a":2}`, v)

			b.Set("other", "x")
			v, ok = b.Get("other")
			assert.True(t, ok)
			assert.Equal(t, "x", v)

			require.NoError(t, b.Delete(ctx, "prefs"))
			_, err = b.Lookup(ctx, "prefs")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRecentItems(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	item := func(kind, id string, offset time.Duration) candidate.RecentItem {
		return candidate.RecentItem{ID: id, Type: kind, Title: kind + " " + id, Route: "/" + kind + "/" + id, LastVisitedAt: base.Add(offset)}
	}

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.PutRecent(ctx, item("dossier", "1", 0)))
			require.NoError(t, b.PutRecent(ctx, item("annonce", "1", time.Second)))
			require.NoError(t, b.PutRecent(ctx, item("dossier", "2", 1500*time.Millisecond)))
			// Revisit moves to front without duplicating.
			require.NoError(t, b.PutRecent(ctx, item("dossier", "1", 3*time.Second)))

			got, err := b.Recent(ctx, 0)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "1", got[0].ID)
			assert.Equal(t, "dossier", got[0].Type)
			assert.Equal(t, "2", got[1].ID)
			assert.Equal(t, "annonce", got[2].Type)
			assert.True(t, got[0].LastVisitedAt.Equal(base.Add(3*time.Second)))

			got, err = b.Recent(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, got, 2)

			require.NoError(t, b.TrimRecent(ctx, 2))
			got, err = b.Recent(ctx, 0)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "2", got[1].ID)

			require.NoError(t, b.DeleteRecent(ctx, "dossier", "2"))
			assert.ErrorIs(t, b.DeleteRecent(ctx, "dossier", "2"), ErrNotFound)

			require.NoError(t, b.ClearRecent(ctx))
			got, err = b.Recent(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestVisitTrims(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 4; i++ {
				it := candidate.RecentItem{ID: string(rune('a' + i)), Type: "annonce", Title: "x", LastVisitedAt: base.Add(time.Duration(i) * time.Minute)}
				require.NoError(t, b.Visit(ctx, it, 3))
			}
			got, err := b.Recent(ctx, 0)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "d", got[0].ID)
			assert.Equal(t, "b", got[2].ID)
		})
	}
}

func TestWithTxRollsBack(t *testing.T) {
	s := openTestSQLite(t)
	err := WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO kv (key, value, updated_at) VALUES ('a', 'b', '')`); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	_, err = s.Lookup(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
