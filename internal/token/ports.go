package token

import (
	"context"
)

type Repository interface {
	// Replace makes keyHash the only token of userID and returns the hash it
	// replaced, or "" if the user had none.
	Replace(ctx context.Context, userID int64, keyHash string) (string, error)
	GetByHash(ctx context.Context, keyHash string) (Token, error)
	DeleteByHash(ctx context.Context, keyHash string) error
}
