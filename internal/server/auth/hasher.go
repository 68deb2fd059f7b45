// Package auth implements the authentication primitives: salted password
// hashing and signed access tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest of the plaintext. A fresh
// random salt is generated on every call, so two hashes of the same input
// differ while both verify.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext reproduces the digest. A
// malformed digest verifies false, it is never an error the caller has to
// handle.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
