package port

import (
	"context"
	"encoding/json"
)

// Snapshot is a single document read from the store.
type Snapshot struct {
	// Path is the full slash-separated document path.
	Path string
	// ID is the last path segment.
	ID string
	// Data is the raw document body.
	Data json.RawMessage
}

// DocumentStore abstracts a hierarchical document database addressed by
// slash-separated collection/document path segments. Leaf segments must not
// contain "/".
type DocumentStore interface {
	// Exists reports whether a document exists at path.
	Exists(ctx context.Context, path string) (bool, error)
	// Get fetches the document at path, returning domain.ErrNotFound when absent.
	Get(ctx context.Context, path string) (*Snapshot, error)
	// Set writes the document at path, replacing any existing body.
	Set(ctx context.Context, path string, data any) error
	// Merge overlays the given fields onto the document at path, preserving
	// unmentioned fields. Creates the document when absent.
	Merge(ctx context.Context, path string, fields map[string]any) error
	// List returns all documents directly under the given collection path.
	List(ctx context.Context, collection string) ([]Snapshot, error)
	// QueryByField returns up to limit documents under collection whose
	// top-level field equals value.
	QueryByField(ctx context.Context, collection, field, value string, limit int) ([]Snapshot, error)
}
