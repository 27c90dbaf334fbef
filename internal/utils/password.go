package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	saltBytes = 16
	keyLen    = 64

	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

func deriveKey(password, salt string) ([]byte, error) {
	return scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLen)
}

// HashPassword derives a scrypt hash of password under a fresh random
// salt. Both values are hex-encoded for storage.
func HashPassword(password string) (hash, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)

	key, err := deriveKey(password, salt)
	if err != nil {
		return "", "", fmt.Errorf("failed to derive key: %w", err)
	}

	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword re-derives the key for password under salt and compares
// it against storedHash in constant time. Missing credential material
// never verifies.
func VerifyPassword(password, salt, storedHash string) bool {
	if salt == "" || storedHash == "" {
		return false
	}

	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, stored) == 1
}
