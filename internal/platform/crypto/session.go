package crypto

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionIssuer   = "bookcatalog"
	sessionAudience = "session"
)

// SessionClaims is the payload of the browser session cookie. ID (the jti)
// is what a logout revokes.
type SessionClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignSession issues an HS256 session value for the user, valid for ttl
// from now.
func SignSession(secret string, userID int64, username string, ttl time.Duration, now time.Time) (string, *SessionClaims, error) {
	jti, err := randomHex(16)
	if err != nil {
		return "", nil, err
	}

	claims := &SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return value, claims, nil
}

var sessionParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(sessionIssuer),
	jwt.WithAudience(sessionAudience),
	jwt.WithExpirationRequired(),
)

// ParseSession verifies a session value and returns its claims.
func ParseSession(secret, value string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := sessionParser.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
