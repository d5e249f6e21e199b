package memstore

import (
	"context"

	"bookcatalog/internal/token"
	"bookcatalog/internal/user"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return user.ErrAlreadyExists
		}
	}
	r.s.lastUser++
	u.ID = r.s.lastUser
	u.CreatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UserRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsActive = active
	r.s.users[id] = u
	return nil
}

type TokenRepo struct {
	s *Store
}

func (r *TokenRepo) Replace(_ context.Context, userID int64, keyHash string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return "", user.ErrNotFound
	}
	var prev string
	for h, t := range r.s.tokens {
		if t.UserID == userID {
			prev = h
			delete(r.s.tokens, h)
		}
	}
	r.s.tokens[keyHash] = token.Token{KeyHash: keyHash, UserID: userID, CreatedAt: r.s.now()}
	return prev, nil
}

func (r *TokenRepo) GetByHash(_ context.Context, keyHash string) (token.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[keyHash]
	if !ok {
		return token.Token{}, token.ErrNotFound
	}
	return t, nil
}

func (r *TokenRepo) DeleteByHash(_ context.Context, keyHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tokens[keyHash]; !ok {
		return token.ErrNotFound
	}
	delete(r.s.tokens, keyHash)
	return nil
}
