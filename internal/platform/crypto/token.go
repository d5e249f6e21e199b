package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateTokenKey returns a new 40-character API token key.
func GenerateTokenKey() (string, error) {
	return randomHex(20)
}

// HashToken is the form in which token keys are stored and looked up.
func HashToken(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
