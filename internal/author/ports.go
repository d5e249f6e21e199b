package author

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=author

import (
	"context"
)

// Repository defines the contract for author data storage. Returned
// authors carry their books.
type Repository interface {
	List(ctx context.Context) ([]Author, error)
	Get(ctx context.Context, id int64) (Author, error)
	Create(ctx context.Context, a Author) (Author, error)
	// Update renames the author; books are untouched.
	Update(ctx context.Context, a Author) (Author, error)
	// Delete removes the author. With cascade the author's books go too,
	// otherwise ErrHasBooks is returned if any exist.
	Delete(ctx context.Context, id int64, cascade bool) error
}
