// Package jwtx mints and verifies the bearer credential. Tokens are
// self-contained HS256 JWTs carrying the subject user id and email, so
// verification is a pure computation over (token, secret, now) with no store
// lookup.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionTTL is the default credential lifetime.
	SessionTTL = 7 * 24 * time.Hour

	// ExtendedSessionTTL is the "keep me signed in" credential lifetime.
	ExtendedSessionTTL = 30 * 24 * time.Hour
)

// ErrInvalidToken covers every verification failure. Callers must not
// distinguish expired from malformed tokens towards clients.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims are the credential claims: registered claims plus the account email.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// Signer mints and verifies credentials with a shared server-held secret.
type Signer struct {
	Secret []byte
	Issuer string
}

// TTLFor returns the credential lifetime for the chosen tier.
func TTLFor(extended bool) time.Duration {
	if extended {
		return ExtendedSessionTTL
	}
	return SessionTTL
}

// Mint signs a credential for the given user. Claims are signed, not
// encrypted: nothing secret goes in them.
func (s *Signer) Mint(userID, email string, extended bool) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTLFor(extended))),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Verify parses and validates a credential, returning its claims. Any
// failure (bad signature, malformed token, expired) yields ErrInvalidToken.
func (s *Signer) Verify(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.Secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
