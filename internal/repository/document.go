package repository

import (
	"context"

	"github.com/mayankk-1803/file-store/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// Ownership scoping is expressed in the queries themselves so a mismatched
// owner behaves exactly like an absent row.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID regardless of owner. Used by the
	// share path, where the token (not ownership) is the capability.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByOwner returns a document only when it belongs to ownerID;
	// absence and ownership mismatch both surface as sql.ErrNoRows.
	FindByOwner(ctx context.Context, id, ownerID string) (*model.Document, error)

	// List returns a filtered, paginated list of documents and the total row
	// count for the filter, newest first.
	List(ctx context.Context, q DocumentQuery) (*PageResult[model.Document], error)

	// UpdateMetadata persists the mutable metadata fields for an owned
	// document and returns the updated row; sql.ErrNoRows on owner mismatch.
	UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// CountByOwner returns the number of documents owned by ownerID.
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	// RecentByOwner returns the n newest documents for the owner.
	RecentByOwner(ctx context.Context, ownerID string, n int) ([]model.Document, error)

	// CategoryCounts returns category → document count for the owner.
	CategoryCounts(ctx context.Context, ownerID string) (map[string]int, error)

	// DistinctCategories returns the categories in use by the owner.
	DistinctCategories(ctx context.Context, ownerID string) ([]string, error)
}
