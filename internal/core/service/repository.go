package service

import (
	"context"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Repository defines the storage interface for records.
//
// Insert and InsertWithID are distinct on purpose: the first assigns a new
// id, the second keeps an id supplied by an import source.
type Repository interface {
	// Insert stores fields under a newly assigned id.
	Insert(ctx context.Context, fields domain.Fields) (int, error)

	// InsertWithID stores fields under id, failing with *domain.DuplicateIDError if taken.
	InsertWithID(ctx context.Context, id int, fields domain.Fields) error

	// Update replaces the fields of an existing record.
	Update(ctx context.Context, id int, fields domain.Fields) error

	// Remove deletes a record and its index entries.
	Remove(ctx context.Context, id int) error

	// Get retrieves one record.
	Get(ctx context.Context, id int) (domain.Record, error)

	// Exists reports whether id is stored.
	Exists(ctx context.Context, id int) bool

	// GetAll returns every record in insertion order.
	GetAll(ctx context.Context) ([]domain.Record, error)

	// FindBy returns the records matching a normalized key on one index.
	FindBy(ctx context.Context, kind domain.IndexKind, key string) ([]domain.Record, error)

	// Snapshot captures an immutable copy of all records.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
