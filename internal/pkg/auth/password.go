package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes. bcrypt embeds a
// per-hash random salt, so equal passwords never share a hash.
const BcryptCost = 12

// CheckPassword reports whether password matches hashedPassword
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// PasswordHasher lets services hash and compare without knowing the algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher implements PasswordHasher with a configurable cost.
type BcryptHasher struct {
	Cost int
}

// Hash implements PasswordHasher
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = BcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare implements PasswordHasher
func (h BcryptHasher) Compare(hash, password string) bool {
	return CheckPassword(hash, password)
}
