package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword salts and hashes a raw password for storage. This is the only
// place in the codebase that touches bcrypt; handlers must not re-implement
// comparison inline.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash recomputes and compares; it never decrypts.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
