package library

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=library

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]Library, error)
	Get(ctx context.Context, id int64) (Library, error)
	Create(ctx context.Context, name string) (Library, error)
	Delete(ctx context.Context, id int64) error
	// AddBook links a book to the library. Linking twice is a no-op.
	AddBook(ctx context.Context, libraryID, bookID int64) error
	RemoveBook(ctx context.Context, libraryID, bookID int64) error
	// SetLibrarian creates or renames the library's librarian.
	SetLibrarian(ctx context.Context, libraryID int64, name string) error
}
