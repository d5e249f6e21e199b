package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgForeignKeyViolation = "23503"
	pgNumericOutOfRange   = "22003"
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

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildListSQL renders q with positional arguments. Titles sort with the C
// collation so results match a byte-wise comparison.
func buildListSQL(q Query) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Title != nil {
		clauses = append(clauses, fmt.Sprintf("b.title = $%d", argn))
		args = append(args, *q.Title)
		argn++
	}
	if q.AuthorID != nil {
		clauses = append(clauses, fmt.Sprintf("b.author_id = $%d", argn))
		args = append(args, *q.AuthorID)
		argn++
	}
	if q.PublicationYear != nil {
		clauses = append(clauses, fmt.Sprintf("b.publication_year = $%d", argn))
		args = append(args, *q.PublicationYear)
		argn++
	}
	for _, term := range q.Search {
		clauses = append(clauses, fmt.Sprintf(`(b.title ILIKE $%d ESCAPE '\' OR a.name ILIKE $%d ESCAPE '\')`, argn, argn))
		args = append(args, "%"+escapeLike(term)+"%")
		argn++
	}

	ordering := q.Ordering
	if len(ordering) == 0 {
		ordering = DefaultOrdering
	}
	orderBy := make([]string, 0, len(ordering)+1)
	for _, o := range ordering {
		col := `b.title COLLATE "C"`
		if o.Field == OrderPublicationYear {
			col = "b.publication_year"
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		orderBy = append(orderBy, col+" "+dir)
	}
	orderBy = append(orderBy, "b.id ASC")

	sql := fmt.Sprintf(`
		SELECT b.id, b.title, b.publication_year, b.author_id
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE %s
		ORDER BY %s`,
		strings.Join(clauses, " AND "), strings.Join(orderBy, ", "))
	return sql, args
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, error) {
	sql, args := buildListSQL(q)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT id, title, publication_year, author_id
		FROM books
		WHERE id = $1
	`
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b Book) (Book, error) {
	const sql = `
		INSERT INTO books (title, publication_year, author_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, sql, b.Title, b.PublicationYear, b.AuthorID).Scan(&b.ID); err != nil {
		return Book{}, mapWriteError("create book", err)
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, b Book) (Book, error) {
	const sql = `
		UPDATE books
		SET title = $2, publication_year = $3, author_id = $4, updated_at = NOW()
		WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, b.ID, b.Title, b.PublicationYear, b.AuthorID)
	if err != nil {
		return Book{}, mapWriteError("update book", err)
	}
	if tag.RowsAffected() == 0 {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return ErrAuthorNotFound
		case pgNumericOutOfRange:
			return NewFieldError("publication_year", msgNotANumber)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
