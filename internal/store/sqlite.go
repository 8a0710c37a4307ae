package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jask/omnibar/internal/candidate"
)

// visitLayout is fixed width so text ordering matches time ordering.
const visitLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite persists key-value pairs and recent items in a sqlite database.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLite opens path and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return NewSQLite(db), nil
}

// NewSQLite wraps an already migrated database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, log: slog.Default().With("component", "store")}
}

func (s *SQLite) Close() error { return s.db.Close() }

// Lookup returns the value stored under key or ErrNotFound.
func (s *SQLite) Lookup(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup %q: %w", key, err)
	}
	return v, nil
}

func (s *SQLite) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Get is the best-effort read used by the core. Failures read as missing.
func (s *SQLite) Get(key string) (string, bool) {
	v, err := s.Lookup(context.Background(), key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("store read failed", "key", key, "err", err)
		}
		return "", false
	}
	return v, true
}

// Set is the best-effort write used by the core. Failures are logged only.
func (s *SQLite) Set(key, value string) {
	if err := s.Put(context.Background(), key, value); err != nil {
		s.log.Warn("store write failed", "key", key, "err", err)
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PutRecent inserts or refreshes a recent item keyed by kind and id.
func (s *SQLite) PutRecent(ctx context.Context, it candidate.RecentItem) error {
	return putRecent(ctx, s.db, it)
}

// Visit records it and trims the log to keep items in one transaction.
func (s *SQLite) Visit(ctx context.Context, it candidate.RecentItem, keep int) error {
	return WithTx(s.db, func(tx *sql.Tx) error {
		if err := putRecent(ctx, tx, it); err != nil {
			return err
		}
		return trimRecent(ctx, tx, keep)
	})
}

func putRecent(ctx context.Context, db execer, it candidate.RecentItem) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO recent_items (kind, id, title, subtitle, route, last_visited_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			title = excluded.title,
			subtitle = excluded.subtitle,
			route = excluded.route,
			last_visited_at = excluded.last_visited_at`,
		it.Type, it.ID, it.Title, it.Subtitle, it.Route, it.LastVisitedAt.UTC().Format(visitLayout))
	if err != nil {
		return fmt.Errorf("put recent %s/%s: %w", it.Type, it.ID, err)
	}
	return nil
}

// Recent lists up to limit items, newest first. limit <= 0 lists all.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]candidate.RecentItem, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, id, title, subtitle, route, last_visited_at
		FROM recent_items
		ORDER BY last_visited_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer rows.Close()

	var out []candidate.RecentItem
	for rows.Next() {
		var it candidate.RecentItem
		var visited string
		if err := rows.Scan(&it.Type, &it.ID, &it.Title, &it.Subtitle, &it.Route, &visited); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		it.LastVisitedAt, _ = time.Parse(visitLayout, visited)
		out = append(out, it)
	}
	return out, rows.Err()
}

// TrimRecent keeps only the newest keep items.
func (s *SQLite) TrimRecent(ctx context.Context, keep int) error {
	return trimRecent(ctx, s.db, keep)
}

func trimRecent(ctx context.Context, db execer, keep int) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM recent_items WHERE (kind, id) NOT IN (
			SELECT kind, id FROM recent_items ORDER BY last_visited_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("trim recent: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteRecent(ctx context.Context, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recent_items WHERE kind = ? AND id = ?`, kind, id)
	if err != nil {
		return fmt.Errorf("delete recent %s/%s: %w", kind, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) ClearRecent(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_items`); err != nil {
		return fmt.Errorf("clear recent: %w", err)
	}
	return nil
}
