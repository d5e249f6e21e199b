package token

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("token not found")

// Token is a stored API token. Only the SHA-256 hash of the key is kept;
// the key itself is shown once, when it is issued.
type Token struct {
	KeyHash   string
	UserID    int64
	CreatedAt time.Time
}
