package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword applies a salted bcrypt hash. Every path that sets a password
// goes through this before the write; there is no hidden persistence hook.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a plaintext password with a stored bcrypt hash.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func ValidatePassword(password string) error {
	if len(password) < 4 {
		return errors.New("password should be at least 4 characters long")
	}

	return nil
}
