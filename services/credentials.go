package services

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialManager verifies presented passwords and prepares new ones for storage
type CredentialManager interface {
	Verify(stored, presented string) bool
	Hash(password string) (string, error)
}

// PlaintextVerifier stores and compares passwords as-is
type PlaintextVerifier struct{}

// Verify compares the two values exactly
func (PlaintextVerifier) Verify(stored, presented string) bool {
	return stored == presented
}

// Hash returns the password unchanged
func (PlaintextVerifier) Hash(password string) (string, error) {
	return password, nil
}

// BcryptVerifier stores bcrypt hashes. Records that are not bcrypt hashes yet
// are compared as plaintext so existing files keep working.
type BcryptVerifier struct {
	Cost int
}

// Verify checks presented against a bcrypt hash or a legacy plaintext value
func (v BcryptVerifier) Verify(stored, presented string) bool {
	if !isBcryptHash(stored) {
		return stored == presented
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}

// Hash returns the bcrypt hash of password
func (v BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
