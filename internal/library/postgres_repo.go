package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog/internal/book"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectLibraries = `
	SELECT l.id, l.name, lb.id, lb.name
	FROM libraries l
	LEFT JOIN librarians lb ON lb.library_id = l.id
`

func scanLibrary(row pgx.Row) (Library, error) {
	var (
		l      Library
		libID  *int64
		libNam *string
	)
	if err := row.Scan(&l.ID, &l.Name, &libID, &libNam); err != nil {
		return Library{}, err
	}
	if libID != nil {
		l.Librarian = &Librarian{ID: *libID, Name: *libNam}
	}
	l.Books = []book.Book{}
	return l, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Library, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectLibraries+` ORDER BY l.id`)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	out := []Library{}
	index := map[int64]int{}
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan library: %w", err)
		}
		index[l.ID] = len(out)
		out = append(out, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}

	rows, err = r.db.Query(timeoutCtx, `
		SELECT lb.library_id, b.id, b.title, b.publication_year, b.author_id
		FROM library_books lb
		JOIN books b ON b.id = lb.book_id
		ORDER BY lb.library_id, b.id`)
	if err != nil {
		return nil, fmt.Errorf("list library books: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			libraryID int64
			b         book.Book
		)
		if err := rows.Scan(&libraryID, &b.ID, &b.Title, &b.PublicationYear, &b.AuthorID); err != nil {
			return nil, fmt.Errorf("scan library book: %w", err)
		}
		if i, ok := index[libraryID]; ok {
			out[i].Books = append(out[i].Books, b)
		}
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Library, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	l, err := scanLibrary(r.db.QueryRow(timeoutCtx, selectLibraries+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Library{}, ErrNotFound
		}
		return Library{}, fmt.Errorf("get library %d: %w", id, err)
	}

	rows, err := r.db.Query(timeoutCtx, `
		SELECT b.id, b.title, b.publication_year, b.author_id
		FROM library_books lb
		JOIN books b ON b.id = lb.book_id
		WHERE lb.library_id = $1
		ORDER BY b.id`, id)
	if err != nil {
		return Library{}, fmt.Errorf("library books: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID); err != nil {
			return Library{}, fmt.Errorf("scan library book: %w", err)
		}
		l.Books = append(l.Books, b)
	}
	return l, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, name string) (Library, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	l := Library{Name: name, Books: []book.Book{}}
	if err := r.db.QueryRow(timeoutCtx, `INSERT INTO libraries (name) VALUES ($1) RETURNING id`, name).Scan(&l.ID); err != nil {
		return Library{}, fmt.Errorf("create library: %w", err)
	}
	return l, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM libraries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete library %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// fkError tells which side of a library link is missing.
func fkError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		if pgErr.ConstraintName == "library_books_book_id_fkey" {
			return ErrBookNotFound
		}
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) AddBook(ctx context.Context, libraryID, bookID int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, `
		INSERT INTO library_books (library_id, book_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, libraryID, bookID)
	if err != nil {
		if mapped := fkError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("add book to library: %w", err)
	}
	return nil
}

func (r *PostgresRepo) RemoveBook(ctx context.Context, libraryID, bookID int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM libraries WHERE id = $1)`, libraryID).Scan(&exists); err != nil {
		return fmt.Errorf("check library: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM library_books WHERE library_id = $1 AND book_id = $2`, libraryID, bookID)
	if err != nil {
		return fmt.Errorf("remove book from library: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (r *PostgresRepo) SetLibrarian(ctx context.Context, libraryID int64, name string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, `
		INSERT INTO librarians (name, library_id) VALUES ($1, $2)
		ON CONFLICT (library_id) DO UPDATE SET name = EXCLUDED.name`, name, libraryID)
	if err != nil {
		if mapped := fkError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("set librarian: %w", err)
	}
	return nil
}
