package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandomBytes returns the requested number of bytes using crypto/rand
func GenerateRandomBytes(length int) ([]byte, error) {
	var randomBytes = make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, err
	}
	return randomBytes, nil
}

// GenerateToken returns a URL-safe random token built from length random
// bytes. Used for session tokens and the installer's generated session
// secret.
func GenerateToken(length int) (string, error) {
	randomBytes, err := GenerateRandomBytes(length)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}
