// Package cryptox provides the one-time passcode primitives: uniform code
// generation and the salted one-way hash used to store codes at rest.
package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeDigits is the length of a one-time passcode.
	CodeDigits = 6

	// codeSpace is the number of possible codes (10^CodeDigits).
	codeSpace = 1_000_000

	// hashCost is the bcrypt cost used for passcode hashes. Codes live for
	// ten minutes at most, so the default cost is plenty.
	hashCost = 10
)

// GenerateCode returns a uniformly random six-digit passcode, zero-padded
// ("000000" through "999999").
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashCode returns a salted bcrypt hash of the passcode. The plaintext code
// must never be persisted.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), hashCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to hash code: %w", err)
	}
	return string(hash), nil
}

// CompareCode reports whether the submitted code matches the stored hash.
func CompareCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
