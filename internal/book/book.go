package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrAuthorNotFound is returned when a write references a missing author.
	ErrAuthorNotFound = errors.New("author does not exist")
)

// Book is a catalog entry. Every book belongs to exactly one author.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        int64  `json:"author"`
}

// Patch carries the fields of a partial update. Nil fields are kept.
type Patch struct {
	Title           *string
	PublicationYear *int
	AuthorID        *int64
}

func (p Patch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.PublicationYear != nil {
		b.PublicationYear = *p.PublicationYear
	}
	if p.AuthorID != nil {
		b.AuthorID = *p.AuthorID
	}
	return b
}

// Clock returns the current time. Validation reads it on every call.
type Clock func() time.Time
