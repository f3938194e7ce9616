// Package docstore abstracts the schemaless document store. Implementations live
// in subpackages (firestore, postgres) and return raw model.Record values that
// only the projection layer interprets.
package docstore

import (
	"context"

	"hondaapi/internal/model"
)

// Reader is the read side of the store.
type Reader interface {
	// List returns every document of a collection in store order.
	List(ctx context.Context, collection string) ([]model.Record, error)

	// ListWhere returns documents whose top-level field equals value.
	ListWhere(ctx context.Context, collection, field string, value any) ([]model.Record, error)

	// Get returns one document. A missing document yields apperr.NotFoundError.
	Get(ctx context.Context, collection, id string) (model.Record, error)

	// GetMany fetches several documents in one round trip. Ids with no backing
	// document are absent from the result map.
	GetMany(ctx context.Context, collection string, ids []string) (map[string]model.Record, error)
}

// Store is the full document store contract. Backend failures are reported as
// *apperr.RemoteError; every call is attempted once.
type Store interface {
	Reader

	// Create stores a new document under a store-generated id and returns that id.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Set creates or replaces the document at id.
	Set(ctx context.Context, collection, id string, fields map[string]any) error

	// Merge writes the given fields into an existing document, leaving other
	// fields untouched. A missing document yields apperr.NotFoundError.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document. A missing document yields apperr.NotFoundError.
	Delete(ctx context.Context, collection, id string) error

	// Ping checks backend reachability.
	Ping(ctx context.Context) error
}
