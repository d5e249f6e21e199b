package book

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	// Create stores b and returns it with its assigned id.
	Create(ctx context.Context, b Book) (Book, error)
	// Update replaces every field of the stored book with b.ID.
	Update(ctx context.Context, b Book) (Book, error)
	Delete(ctx context.Context, id int64) error
}
