package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestSigner() *Signer {
	return &Signer{Secret: []byte("test-secret"), Issuer: "cloudnotes"}
}

func TestMintAndVerify(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, err := s.Mint("user-1", "ann@x.com", false)
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "ann@x.com", claims.Email)
	require.Equal(t, "cloudnotes", claims.Issuer)
}

func TestExpiryTiers(t *testing.T) {
	t.Parallel()

	s := newTestSigner()

	short, err := s.Mint("user-1", "ann@x.com", false)
	require.NoError(t, err)
	long, err := s.Mint("user-1", "ann@x.com", true)
	require.NoError(t, err)

	shortClaims, err := s.Verify(short)
	require.NoError(t, err)
	longClaims, err := s.Verify(long)
	require.NoError(t, err)

	require.WithinDuration(t, time.Now().Add(SessionTTL), shortClaims.ExpiresAt.Time, time.Minute)
	require.WithinDuration(t, time.Now().Add(ExtendedSessionTTL), longClaims.ExpiresAt.Time, time.Minute)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Email: "ann@x.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := newTestSigner().Mint("user-1", "ann@x.com", false)
	require.NoError(t, err)

	other := &Signer{Secret: []byte("other-secret"), Issuer: "cloudnotes"}
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := s.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	foreign := &Signer{Secret: []byte("test-secret"), Issuer: "someone-else"}
	token, err := foreign.Mint("user-1", "ann@x.com", false)
	require.NoError(t, err)

	_, err = newTestSigner().Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
