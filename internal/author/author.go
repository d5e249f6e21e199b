package author

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookcatalog/internal/book"
)

var (
	// ErrNotFound is returned when an author is not found.
	ErrNotFound = errors.New("author not found")
	// ErrHasBooks is returned by a non-cascading delete of an author who
	// still has books.
	ErrHasBooks = errors.New("author has books")
)

const MaxNameLength = 200

// Author owns zero or more books. Books is ordered by book id.
type Author struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Books []book.Book `json:"books"`
}

func Validate(a Author) error {
	err := validation.ValidateStruct(&a,
		validation.Field(&a.Name, book.NotBlank, book.MaxLength(MaxNameLength)),
	)
	return book.FromOzzo(err)
}
