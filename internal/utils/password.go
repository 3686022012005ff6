package utils

import "golang.org/x/crypto/bcrypt"

// passwordHashCost is bcrypt's default (10). The cost is embedded in each
// hash, so it can be raised later without invalidating stored credentials.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives the bcrypt hash under which a password is stored.
// The plaintext is never persisted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext password matches the
// stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
