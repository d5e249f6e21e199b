package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/memstore"
	"bookcatalog/internal/platform/crypto"
	"bookcatalog/internal/token"
	"bookcatalog/internal/user"
)

func TestService_IssueLookupRevoke(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	u := &user.User{Username: "alice", PasswordHash: "x", IsActive: true}
	require.NoError(t, store.Users().Create(ctx, u))
	svc := token.NewService(store.Tokens())

	key, previous, err := svc.Issue(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, previous)
	assert.Regexp(t, `^[0-9a-f]{40}$`, key)

	tok, err := svc.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, u.ID, tok.UserID)
	assert.Equal(t, crypto.HashToken(key), tok.KeyHash)

	next, previous, err := svc.Issue(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, crypto.HashToken(key), previous)
	_, err = svc.Lookup(ctx, key)
	assert.ErrorIs(t, err, token.ErrNotFound)

	require.NoError(t, svc.Revoke(ctx, next))
	_, err = svc.Lookup(ctx, next)
	assert.ErrorIs(t, err, token.ErrNotFound)
	assert.ErrorIs(t, svc.Revoke(ctx, next), token.ErrNotFound)
}
