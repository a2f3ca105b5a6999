package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// TransformPassword hashes a plaintext password for storage.
func TransformPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a candidate against the stored credential. Stored
// bcrypt hashes are compared with bcrypt; anything else is a legacy plain
// record compared by equality.
func VerifyPassword(stored, candidate string) error {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
	}
	if stored != candidate {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return nil
}
