package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/netinvest/server/internal/common"
)

func newSigner(t *testing.T, secret string) *TokenSigner {
	t.Helper()
	s, err := NewTokenSigner([]byte(secret), "HS256")
	if err != nil {
		t.Fatalf("NewTokenSigner error: %v", err)
	}
	return s
}

func TestNewTokenSigner_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenSigner([]byte("k"), "XX999"); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := newSigner(t, "super-secret")

	tok, err := s.Issue("alice", true, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "alice")
	}
	if !claims.IsAdmin {
		t.Fatalf("is_admin claim lost")
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expiry claim missing")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newSigner(t, "secret")

	tok, err := s.Issue("u1", false, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = s.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newSigner(t, "right-secret").Issue("u2", false, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = newSigner(t, "wrong-secret").Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, err := newSigner(t, "k").Verify("not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}
