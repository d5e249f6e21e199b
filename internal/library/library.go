package library

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookcatalog/internal/book"
)

var (
	ErrNotFound     = errors.New("library not found")
	ErrBookNotFound = errors.New("book does not exist")
)

const MaxNameLength = 100

type Librarian struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Library holds a set of books and at most one librarian. Books is
// ordered by book id.
type Library struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Books     []book.Book `json:"books"`
	Librarian *Librarian  `json:"librarian"`
}

// ValidateName checks a library or librarian name.
func ValidateName(name string) error {
	n := struct {
		Name string `json:"name"`
	}{name}
	err := validation.ValidateStruct(&n,
		validation.Field(&n.Name, book.NotBlank, book.MaxLength(MaxNameLength)),
	)
	return book.FromOzzo(err)
}
