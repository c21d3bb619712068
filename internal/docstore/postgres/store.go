package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"invosync/internal/domain"
	"invosync/internal/port"
)

type docStore struct {
	db *sqlx.DB
}

// NewDocumentStore creates a PostgreSQL-backed port.DocumentStore. Documents
// live in a single table keyed by their full slash-separated path, with the
// parent collection denormalized for listing and equality queries against
// the JSONB body.
func NewDocumentStore(db *sqlx.DB) port.DocumentStore {
	return &docStore{db: db}
}

type docRow struct {
	Path      string          `db:"path"`
	Parent    string          `db:"parent"`
	Data      json.RawMessage `db:"data"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (s *docStore) Exists(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE path = $1)", path)
	if err != nil {
		return false, fmt.Errorf("docStore.Exists: %w", err)
	}
	return exists, nil
}

func (s *docStore) Get(ctx context.Context, path string) (*port.Snapshot, error) {
	var row docRow
	err := s.db.GetContext(ctx, &row,
		"SELECT path, parent, data, created_at, updated_at FROM documents WHERE path = $1", path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("docStore.Get: %w", err)
	}
	return snapshot(&row), nil
}

func (s *docStore) Set(ctx context.Context, path string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("docStore.Set marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, parent, data, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		path, parentOf(path), body)
	if err != nil {
		return fmt.Errorf("docStore.Set: %w", err)
	}
	return nil
}

func (s *docStore) Merge(ctx context.Context, path string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docStore.Merge marshal: %w", err)
	}
	// jsonb || overlays top-level keys, preserving unmentioned fields.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, parent, data, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (path) DO UPDATE
		SET data = documents.data || EXCLUDED.data, updated_at = now()`,
		path, parentOf(path), body)
	if err != nil {
		return fmt.Errorf("docStore.Merge: %w", err)
	}
	return nil
}

func (s *docStore) List(ctx context.Context, collection string) ([]port.Snapshot, error) {
	var rows []docRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT path, parent, data, created_at, updated_at FROM documents
		 WHERE parent = $1 ORDER BY created_at`, collection)
	if err != nil {
		return nil, fmt.Errorf("docStore.List: %w", err)
	}
	return snapshots(rows), nil
}

func (s *docStore) QueryByField(ctx context.Context, collection, field, value string, limit int) ([]port.Snapshot, error) {
	var rows []docRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT path, parent, data, created_at, updated_at FROM documents
		 WHERE parent = $1 AND data->>$2 = $3 ORDER BY created_at LIMIT $4`,
		collection, field, value, limit)
	if err != nil {
		return nil, fmt.Errorf("docStore.QueryByField: %w", err)
	}
	return snapshots(rows), nil
}

func snapshot(row *docRow) *port.Snapshot {
	id := row.Path
	if i := strings.LastIndex(row.Path, "/"); i >= 0 {
		id = row.Path[i+1:]
	}
	return &port.Snapshot{Path: row.Path, ID: id, Data: row.Data}
}

func snapshots(rows []docRow) []port.Snapshot {
	out := make([]port.Snapshot, 0, len(rows))
	for i := range rows {
		out = append(out, *snapshot(&rows[i]))
	}
	return out
}

func parentOf(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}
