package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

func (r *PostgresRepo) Replace(ctx context.Context, userID int64, keyHash string) (string, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var previous string
	err := database.WithTransaction(timeoutCtx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(timeoutCtx,
			`DELETE FROM auth_tokens WHERE user_id = $1 RETURNING key_hash`, userID).Scan(&previous)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("revoke previous token: %w", err)
		}
		_, err = tx.Exec(timeoutCtx,
			`INSERT INTO auth_tokens (key_hash, user_id) VALUES ($1, $2)`, keyHash, userID)
		if err != nil {
			return fmt.Errorf("insert token: %w", err)
		}
		return nil
	})
	return previous, err
}

func (r *PostgresRepo) GetByHash(ctx context.Context, keyHash string) (Token, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var t Token
	err := r.db.QueryRow(timeoutCtx,
		`SELECT key_hash, user_id, created_at FROM auth_tokens WHERE key_hash = $1`, keyHash,
	).Scan(&t.KeyHash, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrNotFound
		}
		return Token{}, fmt.Errorf("get token: %w", err)
	}
	return t, nil
}

func (r *PostgresRepo) DeleteByHash(ctx context.Context, keyHash string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM auth_tokens WHERE key_hash = $1`, keyHash)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
