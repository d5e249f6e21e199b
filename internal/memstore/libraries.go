package memstore

import (
	"context"
	"sort"

	"bookcatalog/internal/book"
	"bookcatalog/internal/library"
)

type LibraryRepo struct {
	s *Store
}

func (s *Store) libraryLocked(row *libraryRow) library.Library {
	l := library.Library{ID: row.id, Name: row.name, Books: []book.Book{}}
	for id := range row.books {
		l.Books = append(l.Books, s.books[id])
	}
	sort.Slice(l.Books, func(i, j int) bool { return l.Books[i].ID < l.Books[j].ID })
	if row.librarian != nil {
		lb := *row.librarian
		l.Librarian = &lb
	}
	return l
}

func (r *LibraryRepo) List(_ context.Context) ([]library.Library, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]library.Library, 0, len(r.s.libraries))
	for _, row := range r.s.libraries {
		out = append(out, r.s.libraryLocked(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LibraryRepo) Get(_ context.Context, id int64) (library.Library, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.libraries[id]
	if !ok {
		return library.Library{}, library.ErrNotFound
	}
	return r.s.libraryLocked(row), nil
}

func (r *LibraryRepo) Create(_ context.Context, name string) (library.Library, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastLibrary++
	row := &libraryRow{id: r.s.lastLibrary, name: name, books: map[int64]struct{}{}}
	r.s.libraries[row.id] = row
	return r.s.libraryLocked(row), nil
}

func (r *LibraryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.libraries[id]; !ok {
		return library.ErrNotFound
	}
	delete(r.s.libraries, id)
	return nil
}

func (r *LibraryRepo) AddBook(_ context.Context, libraryID, bookID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.libraries[libraryID]
	if !ok {
		return library.ErrNotFound
	}
	if _, ok := r.s.books[bookID]; !ok {
		return library.ErrBookNotFound
	}
	row.books[bookID] = struct{}{}
	return nil
}

func (r *LibraryRepo) RemoveBook(_ context.Context, libraryID, bookID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.libraries[libraryID]
	if !ok {
		return library.ErrNotFound
	}
	if _, ok := row.books[bookID]; !ok {
		return library.ErrBookNotFound
	}
	delete(row.books, bookID)
	return nil
}

func (r *LibraryRepo) SetLibrarian(_ context.Context, libraryID int64, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.libraries[libraryID]
	if !ok {
		return library.ErrNotFound
	}
	if row.librarian != nil {
		row.librarian.Name = name
		return nil
	}
	r.s.lastLibrarian++
	row.librarian = &library.Librarian{ID: r.s.lastLibrarian, Name: name}
	return nil
}
