// Package cryptox holds the password hashing used for account credentials.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// NewSalt returns a fresh random salt for HashPassword.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives an argon2id key from password and salt.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// VerifyPassword reports whether candidate hashes to the stored hash under salt.
// The comparison runs in constant time.
func VerifyPassword(hash []byte, salt []byte, candidate []byte) bool {
	derived := HashPassword(candidate, salt)
	defer common.WipeByteArray(derived)
	return subtle.ConstantTimeCompare(hash, derived) == 1
}
