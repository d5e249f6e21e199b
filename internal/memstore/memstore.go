// Package memstore keeps the whole catalog in process memory. It backs
// STORE_DRIVER=memory and the router tests, and implements the same
// repository contracts as the Postgres adapters.
package memstore

import (
	"sync"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/library"
	"bookcatalog/internal/token"
	"bookcatalog/internal/user"
)

type libraryRow struct {
	id        int64
	name      string
	books     map[int64]struct{}
	librarian *library.Librarian
}

// Store is safe for concurrent use. Every adapter shares one lock so that
// cross-entity operations such as a cascading author delete are atomic.
type Store struct {
	mu sync.RWMutex

	authors   map[int64]string
	books     map[int64]book.Book
	users     map[int64]user.User
	tokens    map[string]token.Token
	libraries map[int64]*libraryRow

	lastAuthor, lastBook, lastUser, lastLibrary, lastLibrarian int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		authors:   map[int64]string{},
		books:     map[int64]book.Book{},
		users:     map[int64]user.User{},
		tokens:    map[string]token.Token{},
		libraries: map[int64]*libraryRow{},
		now:       time.Now,
	}
}

func (s *Store) Books() *BookRepo        { return &BookRepo{s} }
func (s *Store) Authors() *AuthorRepo    { return &AuthorRepo{s} }
func (s *Store) Users() *UserRepo        { return &UserRepo{s} }
func (s *Store) Tokens() *TokenRepo      { return &TokenRepo{s} }
func (s *Store) Libraries() *LibraryRepo { return &LibraryRepo{s} }

var (
	_ book.Repository    = (*BookRepo)(nil)
	_ author.Repository  = (*AuthorRepo)(nil)
	_ user.Repository    = (*UserRepo)(nil)
	_ token.Repository   = (*TokenRepo)(nil)
	_ library.Repository = (*LibraryRepo)(nil)
)

// deleteBookLocked removes a book and its library links. s.mu must be held.
func (s *Store) deleteBookLocked(id int64) {
	delete(s.books, id)
	for _, l := range s.libraries {
		delete(l.books, id)
	}
}
