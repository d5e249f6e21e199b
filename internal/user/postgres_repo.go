package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userColumns is in User field order so rows scan with RowToStructByPos.
const userColumns = `id, username, password_hash, is_active, created_at`

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

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, _ := r.db.Query(ctx,
		`INSERT INTO users (username, password_hash, is_active)
		 VALUES (@username, @password_hash, @is_active)
		 RETURNING `+userColumns,
		pgx.NamedArgs{"username": u.Username, "password_hash": u.PasswordHash, "is_active": u.IsActive})
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[User])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	*u = created
	return nil
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.one(ctx, `username = $1`, username)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (User, error) {
	return r.one(ctx, `id = $1`, id)
}

func (r *PostgresRepo) one(ctx context.Context, cond string, arg any) (User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, _ := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg)
	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[User])
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return User{}, ErrNotFound
	case err != nil:
		return User{}, fmt.Errorf("select user where %s: %w", cond, err)
	}
	return u, nil
}

func (r *PostgresRepo) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
