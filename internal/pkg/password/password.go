// Package password hashes the credentials of the school's staff
// accounts (admin, bursar, staff) and digests the refresh tokens kept
// against them.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashCost is the bcrypt cost for staff account passwords.
	HashCost = 12

	// MinLength is the shortest password a staff account may have.
	MinLength = 8
)

// Hash derives a bcrypt hash for a staff account password.
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether plain matches the stored bcrypt hash.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken digests a refresh token with SHA-256 so only the digest is
// stored; a leaked token table cannot be replayed.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidatePassword reports whether a password is acceptable for a
// staff account. Surrounding whitespace does not count toward the
// minimum length.
func ValidatePassword(plain string) bool {
	return len(strings.TrimSpace(plain)) >= MinLength
}
