package author

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/database"
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

func (r *PostgresRepo) List(ctx context.Context) ([]Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, `SELECT id, name FROM authors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	out := []Author{}
	index := map[int64]int{}
	for rows.Next() {
		a := Author{Books: []book.Book{}}
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan author: %w", err)
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	rows, err = r.db.Query(timeoutCtx, `
		SELECT id, title, publication_year, author_id
		FROM books
		ORDER BY author_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list author books: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		// books inserted after the author query are skipped
		if i, ok := index[b.AuthorID]; ok {
			out[i].Books = append(out[i].Books, b)
		}
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	a := Author{Books: []book.Book{}}
	err := r.db.QueryRow(timeoutCtx, `SELECT id, name FROM authors WHERE id = $1`, id).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, fmt.Errorf("get author %d: %w", id, err)
	}

	books, err := r.booksOf(timeoutCtx, id)
	if err != nil {
		return Author{}, err
	}
	a.Books = books
	return a, nil
}

func (r *PostgresRepo) booksOf(ctx context.Context, authorID int64) ([]book.Book, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, publication_year, author_id
		FROM books
		WHERE author_id = $1
		ORDER BY id`, authorID)
	if err != nil {
		return nil, fmt.Errorf("books of author %d: %w", authorID, err)
	}
	defer rows.Close()

	out := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, a Author) (Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, `INSERT INTO authors (name) VALUES ($1) RETURNING id`, a.Name).Scan(&a.ID)
	if err != nil {
		return Author{}, fmt.Errorf("create author: %w", err)
	}
	a.Books = []book.Book{}
	return a, nil
}

func (r *PostgresRepo) Update(ctx context.Context, a Author) (Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `UPDATE authors SET name = $2, updated_at = NOW() WHERE id = $1`, a.ID, a.Name)
	if err != nil {
		return Author{}, fmt.Errorf("update author %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return Author{}, ErrNotFound
	}
	books, err := r.booksOf(timeoutCtx, a.ID)
	if err != nil {
		return Author{}, err
	}
	a.Books = books
	return a, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64, cascade bool) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return database.WithTransaction(timeoutCtx, r.db, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(timeoutCtx, `SELECT id FROM authors WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock author %d: %w", id, err)
		}

		if !cascade {
			var hasBooks bool
			if err := tx.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM books WHERE author_id = $1)`, id).Scan(&hasBooks); err != nil {
				return fmt.Errorf("count books of author %d: %w", id, err)
			}
			if hasBooks {
				return ErrHasBooks
			}
		}

		if _, err := tx.Exec(timeoutCtx, `DELETE FROM books WHERE author_id = $1`, id); err != nil {
			return fmt.Errorf("delete books of author %d: %w", id, err)
		}
		if _, err := tx.Exec(timeoutCtx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete author %d: %w", id, err)
		}
		return nil
	})
}
