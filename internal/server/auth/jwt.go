package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/netinvest/server/internal/common"
)

// Claims is the access-token payload: the standard registered claims plus
// the subject's admin flag at issue time. The admin flag is informational;
// authorization re-checks the freshly loaded user record.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin"`
}

// TokenSigner issues and verifies compact signed access tokens using a
// process-wide secret. The secret is loaded once at startup; tokens issued
// before a secret rotation become unverifiable after it.
type TokenSigner struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenSigner builds a signer for the named algorithm (e.g. "HS256").
func NewTokenSigner(secret []byte, algorithm string) (*TokenSigner, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	return &TokenSigner{secret: secret, method: method}, nil
}

// Issue signs a token for the subject with an absolute expiry of now+ttl.
// All timestamps are UTC.
func (s *TokenSigner) Issue(subject string, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IsAdmin: isAdmin,
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// Signature mismatch, malformed structure and elapsed expiry all collapse
// into common.ErrInvalidToken so callers cannot tell which one occurred.
func (s *TokenSigner) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
