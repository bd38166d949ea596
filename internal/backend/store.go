package backend

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/five82/weekplan/internal/items"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("item not found")

//go:embed schema.sql
var schema string

// Store persists items in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens (or creates) the SQLite database at path and ensures the
// schema. ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// List returns every item in id order.
func (s *Store) List(ctx context.Context) ([]items.Item, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name, date FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := []items.Item{}
	for rows.Next() {
		var it items.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Date); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

// Get returns the item with id.
func (s *Store) Get(ctx context.Context, id int64) (items.Item, error) {
	var it items.Item
	err := s.sqlDB.QueryRowContext(ctx, `SELECT id, name, date FROM items WHERE id = ?`, id).
		Scan(&it.ID, &it.Name, &it.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return items.Item{}, ErrNotFound
		}
		return items.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

// Create inserts draft and returns the stored item.
func (s *Store) Create(ctx context.Context, draft items.Draft) (items.Item, error) {
	now := s.now().UTC().UnixMilli()
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO items (name, date, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		draft.Name, draft.Date, now, now,
	)
	if err != nil {
		return items.Item{}, fmt.Errorf("create item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return items.Item{}, fmt.Errorf("create item: %w", err)
	}
	return items.Item{ID: id, Name: draft.Name, Date: draft.Date}, nil
}

// Update overwrites the item with id.
func (s *Store) Update(ctx context.Context, id int64, draft items.Draft) (items.Item, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE items SET name = ?, date = ?, updated_at = ? WHERE id = ?`,
		draft.Name, draft.Date, s.now().UTC().UnixMilli(), id,
	)
	if err != nil {
		return items.Item{}, fmt.Errorf("update item %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return items.Item{}, fmt.Errorf("update item %d: %w", id, err)
	} else if n == 0 {
		return items.Item{}, ErrNotFound
	}
	return items.Item{ID: id, Name: draft.Name, Date: draft.Date}, nil
}

// Delete removes the item with id and returns what was removed.
func (s *Store) Delete(ctx context.Context, id int64) (items.Item, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return items.Item{}, fmt.Errorf("delete item %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var it items.Item
	err = tx.QueryRowContext(ctx, `SELECT id, name, date FROM items WHERE id = ?`, id).
		Scan(&it.ID, &it.Name, &it.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return items.Item{}, ErrNotFound
		}
		return items.Item{}, fmt.Errorf("delete item %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return items.Item{}, fmt.Errorf("delete item %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return items.Item{}, fmt.Errorf("delete item %d: %w", id, err)
	}
	return it, nil
}
