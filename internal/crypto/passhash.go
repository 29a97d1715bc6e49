// Package crypto implements server-side password hashing and verification.
package crypto

import "golang.org/x/crypto/bcrypt"

// DefaultCost matches the work factor used since the first deployment.
// Changing it only affects newly created hashes; verification reads the
// cost embedded in each stored hash.
const DefaultCost = 10

// HashPassword returns a bcrypt hash of password with the given cost.
// A cost of 0 (or anything below bcrypt.MinCost) falls back to DefaultCost.
func HashPassword(password []byte, cost int) ([]byte, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	return bcrypt.GenerateFromPassword(password, cost)
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// Comparison is constant-time inside bcrypt.
func VerifyPassword(password, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}
