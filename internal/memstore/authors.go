package memstore

import (
	"context"
	"sort"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
)

type AuthorRepo struct {
	s *Store
}

// booksOfLocked returns the author's books ordered by id.
func (s *Store) booksOfLocked(authorID int64) []book.Book {
	out := []book.Book{}
	for _, b := range s.books {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *AuthorRepo) List(_ context.Context) ([]author.Author, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]author.Author, 0, len(r.s.authors))
	for id, name := range r.s.authors {
		out = append(out, author.Author{ID: id, Name: name, Books: r.s.booksOfLocked(id)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AuthorRepo) Get(_ context.Context, id int64) (author.Author, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	name, ok := r.s.authors[id]
	if !ok {
		return author.Author{}, author.ErrNotFound
	}
	return author.Author{ID: id, Name: name, Books: r.s.booksOfLocked(id)}, nil
}

func (r *AuthorRepo) Create(_ context.Context, a author.Author) (author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastAuthor++
	r.s.authors[r.s.lastAuthor] = a.Name
	return author.Author{ID: r.s.lastAuthor, Name: a.Name, Books: []book.Book{}}, nil
}

func (r *AuthorRepo) Update(_ context.Context, a author.Author) (author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[a.ID]; !ok {
		return author.Author{}, author.ErrNotFound
	}
	r.s.authors[a.ID] = a.Name
	return author.Author{ID: a.ID, Name: a.Name, Books: r.s.booksOfLocked(a.ID)}, nil
}

func (r *AuthorRepo) Delete(_ context.Context, id int64, cascade bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[id]; !ok {
		return author.ErrNotFound
	}
	owned := r.s.booksOfLocked(id)
	if len(owned) > 0 && !cascade {
		return author.ErrHasBooks
	}
	for _, b := range owned {
		r.s.deleteBookLocked(b.ID)
	}
	delete(r.s.authors, id)
	return nil
}
