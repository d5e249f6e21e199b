package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const (
	SessionCookieName = "sessionid"
	tokenScheme       = "Token "
)

// ErrInvalidCredentials is returned by an Authenticator when the presented
// token or session does not resolve to an active user.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Authenticator interface {
	AuthenticateToken(ctx context.Context, key string) (Principal, error)
	AuthenticateSession(ctx context.Context, session string) (Principal, error)
}

// TokenFromRequest extracts the key from an "Authorization: Token <key>"
// header.
func TokenFromRequest(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < len(tokenScheme) || !strings.EqualFold(h[:len(tokenScheme)], tokenScheme) {
		return "", false
	}
	key := strings.TrimSpace(h[len(tokenScheme):])
	return key, key != ""
}

// AuthMiddleware resolves the request principal. A token header takes
// precedence over the session cookie. Unknown credentials leave the request
// anonymous; access rules decide whether that is enough.
func AuthMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := Anonymous
			var err error

			if key, ok := TokenFromRequest(r); ok {
				principal, err = authn.AuthenticateToken(r.Context(), key)
				principal.Method = "token"
			} else if c, cerr := r.Cookie(SessionCookieName); cerr == nil && c.Value != "" {
				principal, err = authn.AuthenticateSession(r.Context(), c.Value)
				principal.Method = "session"
			}

			switch {
			case errors.Is(err, ErrInvalidCredentials):
				principal = Anonymous
			case err != nil:
				InternalError(w, r, err)
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
