package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/crypto"
	"bookcatalog/internal/token"
	"bookcatalog/internal/user"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match an active user.
var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

const (
	tokenCachePrefix   = "auth:token:"
	revokedCachePrefix = "auth:revoked:"
)

// Cache is the subset of the platform cache used for principal lookups and
// session revocation.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Options struct {
	SessionSecret string
	SessionTTL    time.Duration
	TokenCacheTTL time.Duration
}

type Service struct {
	opts   Options
	users  *user.Service
	tokens *token.Service
	cache  Cache
}

func NewService(opts Options, users *user.Service, tokens *token.Service, cache Cache) *Service {
	return &Service{opts: opts, users: users, tokens: tokens, cache: cache}
}

func tokenCacheKey(keyHash string) string {
	return tokenCachePrefix + keyHash
}

// ObtainToken checks the credentials and issues a new API token, replacing
// any token the user already had.
func (s *Service) ObtainToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.checkCredentials(ctx, username, password)
	if err != nil {
		return "", err
	}

	key, previous, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return "", err
	}
	if previous != "" {
		s.forget(ctx, tokenCacheKey(previous))
	}
	return key, nil
}

// Login checks the credentials and returns a signed session value and its
// expiry.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	u, err := s.checkCredentials(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}

	session, claims, err := crypto.SignSession(s.opts.SessionSecret, u.ID, u.Username, s.opts.SessionTTL, time.Now())
	if err != nil {
		return "", time.Time{}, err
	}
	return session, claims.ExpiresAt.Time, nil
}

func (s *Service) checkCredentials(ctx context.Context, username, password string) (user.User, error) {
	u, err := s.users.Authenticate(ctx, username, password)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrInvalidCredentials
	}
	return u, err
}

// AuthenticateToken resolves an API token key to its principal. Lookups
// are cached by key hash.
func (s *Service) AuthenticateToken(ctx context.Context, key string) (httpx.Principal, error) {
	cacheKey := tokenCacheKey(crypto.HashToken(key))

	var cached httpx.Principal
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("token cache read failed")
	} else if found && cached.IsAuthenticated() {
		return cached, nil
	}

	tok, err := s.tokens.Lookup(ctx, key)
	if errors.Is(err, token.ErrNotFound) {
		return httpx.Anonymous, httpx.ErrInvalidCredentials
	}
	if err != nil {
		return httpx.Anonymous, err
	}

	p, err := s.activePrincipal(ctx, tok.UserID)
	if err != nil {
		return httpx.Anonymous, err
	}
	if err := s.cache.Set(ctx, cacheKey, p, s.opts.TokenCacheTTL); err != nil {
		log.Warn().Err(err).Msg("token cache write failed")
	}
	return p, nil
}

// AuthenticateSession resolves a session cookie value to its principal.
func (s *Service) AuthenticateSession(ctx context.Context, session string) (httpx.Principal, error) {
	claims, err := crypto.ParseSession(s.opts.SessionSecret, session)
	if err != nil {
		return httpx.Anonymous, httpx.ErrInvalidCredentials
	}

	var revoked bool
	found, err := s.cache.Get(ctx, revokedCachePrefix+claims.ID, &revoked)
	if err != nil {
		// Revocation can't be checked, so the session is not honoured.
		log.Warn().Err(err).Str("jti", claims.ID).Msg("session revocation lookup failed")
		return httpx.Anonymous, httpx.ErrInvalidCredentials
	}
	if found && revoked {
		return httpx.Anonymous, httpx.ErrInvalidCredentials
	}

	return s.activePrincipal(ctx, claims.UserID)
}

func (s *Service) activePrincipal(ctx context.Context, userID int64) (httpx.Principal, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return httpx.Anonymous, httpx.ErrInvalidCredentials
	}
	if err != nil {
		return httpx.Anonymous, err
	}
	if !u.IsActive {
		return httpx.Anonymous, httpx.ErrInvalidCredentials
	}
	return httpx.Principal{UserID: u.ID, Username: u.Username}, nil
}

// Logout revokes the API token key and the session, whichever are given.
func (s *Service) Logout(ctx context.Context, key, session string) error {
	if key != "" {
		if err := s.tokens.Revoke(ctx, key); err != nil && !errors.Is(err, token.ErrNotFound) {
			return err
		}
		s.forget(ctx, tokenCacheKey(crypto.HashToken(key)))
	}

	if session != "" {
		claims, err := crypto.ParseSession(s.opts.SessionSecret, session)
		if err != nil {
			return nil
		}
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			return nil
		}
		if err := s.cache.Set(ctx, revokedCachePrefix+claims.ID, true, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) forget(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}
