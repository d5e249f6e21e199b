package memstore

import (
	"context"
	"sort"

	"bookcatalog/internal/book"
)

type BookRepo struct {
	s *Store
}

func (r *BookRepo) List(_ context.Context, q book.Query) ([]book.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []book.Book{}
	for _, b := range r.s.books {
		if q.Matches(b, r.s.authors[b.AuthorID]) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return q.Less(out[i], out[j]) })
	return out, nil
}

func (r *BookRepo) Get(_ context.Context, id int64) (book.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r *BookRepo) Create(_ context.Context, b book.Book) (book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[b.AuthorID]; !ok {
		return book.Book{}, book.ErrAuthorNotFound
	}
	r.s.lastBook++
	b.ID = r.s.lastBook
	r.s.books[b.ID] = b
	return b, nil
}

func (r *BookRepo) Update(_ context.Context, b book.Book) (book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[b.ID]; !ok {
		return book.Book{}, book.ErrNotFound
	}
	if _, ok := r.s.authors[b.AuthorID]; !ok {
		return book.Book{}, book.ErrAuthorNotFound
	}
	r.s.books[b.ID] = b
	return b, nil
}

func (r *BookRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return book.ErrNotFound
	}
	r.s.deleteBookLocked(id)
	return nil
}
