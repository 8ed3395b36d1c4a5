// Package remote defines the contract of the remote document store.
// The sync layer talks only to this interface; the concrete driver is
// a wiring detail.
package remote

import (
	"context"
	"encoding/json"
)

// Document is one remote record, JSON-encoded. Data carries the
// entity's own id field too; ID is the document key.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Store is a document-oriented remote database scoped to one owner
// namespace. Get returns documents ordered by creation timestamp,
// newest first. Set is an idempotent upsert: replaying a queued write
// twice leaves the same document.
type Store interface {
	Get(ctx context.Context, collection string) ([]Document, error)
	Set(ctx context.Context, collection, id string, doc []byte) error
	Update(ctx context.Context, collection, id string, partial []byte) error
	Delete(ctx context.Context, collection, id string) error
}
