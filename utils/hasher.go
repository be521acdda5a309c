package utils

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const defaultBCryptWorkFactor = 12

// BCrypt implements a BCrypt hasher for member passwords.
type BCrypt struct {
	bCryptWorkFactor int
}

// NewBCrypt returns a new BCrypt instance.
func NewBCrypt() *BCrypt {
	return &BCrypt{
		defaultBCryptWorkFactor,
	}
}

func (b *BCrypt) Hash(ctx context.Context, data []byte) ([]byte, error) {
	cf := b.bCryptWorkFactor
	s, err := bcrypt.GenerateFromPassword(data, cf)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (b *BCrypt) Compare(ctx context.Context, hash, data []byte) error {
	if err := bcrypt.CompareHashAndPassword(hash, data); err != nil {
		return err
	}
	return nil
}

// HashByteSecret hashes the secret to exactly 32 bytes so it can be consumed
// as a securecookie hash or block key, even if the configured secret is long
// or shorter.
func HashByteSecret(secret []byte) []byte {
	algorithm := sha256.New()
	algorithm.Write(secret)
	return algorithm.Sum(nil)
}

// HashStringSecret hashes the secret for key consumption and hex encodes it.
func HashStringSecret(secret string) string {
	return hex.EncodeToString(HashByteSecret([]byte(secret)))
}

// SignWithSecret computes the hex HMAC-SHA256 of data under the given
// secret. Auto-login cookie signatures are produced with this.
func SignWithSecret(secret string, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
