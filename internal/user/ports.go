package user

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=user

import (
	"context"
)

type Repository interface {
	// Create stores u and fills in its id and creation time. A duplicate
	// username yields ErrAlreadyExists.
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}
