// Package credential derives and checks salted password hashes.
//
// Hashes are PBKDF2-HMAC-SHA256 over the UTF-8 bytes of the password. The
// package never stores anything; callers keep the salt and hash together.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 32
	KeySize    = 32
	Iterations = 100_000
)

// GenerateSalt returns SaltSize bytes from the system CSPRNG.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "read random salt")
	}
	return salt, nil
}

// HashPassword is deterministic for a given password and salt. Empty
// passwords are hashed like any other.
func HashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
}

// VerifyPassword reports whether candidate hashes to storedHash under
// storedSalt. It never fails loudly: any mismatch is simply false.
func VerifyPassword(storedHash, storedSalt []byte, candidate string) bool {
	computed := HashPassword(candidate, storedSalt)
	return subtle.ConstantTimeCompare(computed, storedHash) == 1
}
