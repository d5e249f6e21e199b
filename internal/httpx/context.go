package httpx

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "requestID"
)

// Principal is the identity attached to a request. The zero value is the
// anonymous principal.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	// Method records how the principal was authenticated: "token" or "session".
	Method string `json:"-"`
}

// Anonymous is the principal of requests without valid credentials.
var Anonymous = Principal{}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != 0
}

// ContextWithPrincipal returns a new context carrying p.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom retrieves the principal from the request context, falling
// back to Anonymous.
func PrincipalFrom(r *http.Request) Principal {
	if p, ok := r.Context().Value(principalKey).(Principal); ok {
		return p
	}
	return Anonymous
}

// UserIDFrom returns the authenticated user id as a string, or "" for
// anonymous requests.
func UserIDFrom(r *http.Request) string {
	p := PrincipalFrom(r)
	if !p.IsAuthenticated() {
		return ""
	}
	return strconv.FormatInt(p.UserID, 10)
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
