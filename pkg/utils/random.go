package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateResetToken returns a 64-character hex token from a CSPRNG, used as
// the single-use password reset credential.
func GenerateResetToken() (string, error) {
	b := make([]byte, 32)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// GenerateStateToken returns a short random token for the OAuth state
// parameter.
func GenerateStateToken() (string, error) {
	b := make([]byte, 16)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
