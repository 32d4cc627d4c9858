// Package store holds the documents rooms collaborate on. The sync engine
// treats it as an external collaborator: fetch by id, partial update with
// a server-stamped timestamp, nothing else.
package store

import (
	"context"
	"errors"

	"github.com/satriowb/syncpad/internal/domain"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("document not found")

// Fields is a partial document update. Nil fields are left unchanged.
// Values are applied as given; validation happens upstream.
type Fields struct {
	Title   *string
	Content *string
}

// DocumentStore is the boundary with document storage. Every Update
// stamps UpdatedAt server-side; timestamps are never client-supplied.
type DocumentStore interface {
	// Create allocates a document with the given title and empty content.
	Create(ctx context.Context, title string) (domain.Document, error)

	// Get fetches a document by id, returning ErrNotFound if absent.
	Get(ctx context.Context, id string) (domain.Document, error)

	// Update applies the non-nil fields, stamps UpdatedAt, and returns
	// the fresh document. Returns ErrNotFound if the id does not resolve.
	Update(ctx context.Context, id string, f Fields) (domain.Document, error)

	// Close releases any underlying resources.
	Close() error
}
