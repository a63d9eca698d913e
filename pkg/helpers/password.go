package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash that gets persisted in place of the
// plaintext. Nothing else in this codebase ever stores or logs the
// plaintext form.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hashed), err
}

// CompareHashAndPassword reports whether plain matches the stored hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
