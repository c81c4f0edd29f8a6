package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength  = 32
	argonTime   = 1
	argonMemory = 64 * 1024
	argonLanes  = 4
	argonKeyLen = 32
)

// PasswordHasher derives and verifies password hashes. The salt is
// generated fresh on every HashPassword call and stored separately from
// the hash.
type PasswordHasher interface {
	HashPassword(password string) (hash, salt string, err error)
	VerifyPassword(password, hash, salt string) bool
}

type argonHasher struct{}

// NewPasswordHasher creates an Argon2id password hasher
func NewPasswordHasher() PasswordHasher {
	return &argonHasher{}
}

// HashPassword derives a key from the password with a freshly generated
// random salt. Both values are returned base64 encoded.
func (h *argonHasher) HashPassword(password string) (string, string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonLanes, argonKeyLen)

	return base64.StdEncoding.EncodeToString(key),
		base64.StdEncoding.EncodeToString(salt),
		nil
}

// VerifyPassword re-derives the key from the candidate password and the
// stored salt and compares in constant time. Malformed stored values
// verify as false, never as an error.
func (h *argonHasher) VerifyPassword(password, hash, salt string) bool {
	storedKey, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), saltBytes, argonTime, argonMemory, argonLanes, argonKeyLen)

	return subtle.ConstantTimeCompare(storedKey, key) == 1
}
