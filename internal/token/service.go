package token

import (
	"context"
	"fmt"

	"bookcatalog/internal/platform/crypto"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Issue creates a fresh key for userID, revoking the previous one. It
// returns the key and the hash of the revoked key ("" if none).
func (s *Service) Issue(ctx context.Context, userID int64) (string, string, error) {
	key, err := crypto.GenerateTokenKey()
	if err != nil {
		return "", "", fmt.Errorf("generate token key: %w", err)
	}
	previous, err := s.repo.Replace(ctx, userID, crypto.HashToken(key))
	if err != nil {
		return "", "", err
	}
	return key, previous, nil
}

// Lookup resolves a presented key to its token.
func (s *Service) Lookup(ctx context.Context, key string) (Token, error) {
	return s.repo.GetByHash(ctx, crypto.HashToken(key))
}

// Revoke deletes the token for key.
func (s *Service) Revoke(ctx context.Context, key string) error {
	return s.repo.DeleteByHash(ctx, crypto.HashToken(key))
}
