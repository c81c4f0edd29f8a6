package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const tokenByteLength = 32

// GenerateSecureToken returns a cryptographically random, URL-safe token
// for confirmation and reset links.
func GenerateSecureToken() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
