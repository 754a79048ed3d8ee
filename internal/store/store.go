package store

import (
	"context"
	"errors"
)

// Collection names used by the application.
const (
	Users        = "users"
	Wallets      = "wallets"
	Transactions = "transactions"
)

// ErrNotFound is returned by Get and Update when no document exists under
// the given id.
var ErrNotFound = errors.New("document not found")

// Document is one record in a collection: an id plus loosely typed fields,
// the shape a document database hands back.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter is a field-equality predicate. Equality is the only operator the
// application needs.
type Filter struct {
	Field string
	Value any
}

// Query describes a filtered, ordered, bounded read of a collection.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int // 0 means no limit
}

// Store is the document database the services are written against. The
// production implementation wraps Firestore; tests use the in-memory one.
type Store interface {
	// Get fetches a single document, ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes fields under id, merging with any existing document. An
	// empty id asks the store to assign one; the id actually written is
	// returned.
	Set(ctx context.Context, collection, id string, fields map[string]any) (string, error)

	// Update overwrites only the given fields of an existing document,
	// ErrNotFound if absent.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Query returns documents matching every filter, ordered and bounded as
	// requested.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)

	// BatchDelete removes the given documents atomically: either all are
	// deleted or none.
	BatchDelete(ctx context.Context, collection string, ids []string) error
}
