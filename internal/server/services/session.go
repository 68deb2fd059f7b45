// Package services contains server-side business logic. This file implements
// SessionService, which owns the session lifecycle: login, refresh with
// rotation, logout, and logout-all.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/server/auth"
	"github.com/netinvest/server/internal/server/config"
	"github.com/netinvest/server/internal/server/models"
	"github.com/netinvest/server/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// RefreshToken holds the plaintext secret; the store only ever sees its hash.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// refreshSecretBytes is the entropy of a refresh-token secret before hex
// encoding.
const refreshSecretBytes = 32

// SessionService provides the session lifecycle:
//   - Login: verify credentials and mint a token pair
//   - Refresh: rotate the refresh token and mint a new pair
//   - Logout: best-effort single-session revocation
//   - LogoutAll: revoke every active session of a user
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	signer                       *auth.TokenSigner
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories, the
// token signer, and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, signer *auth.TokenSigner, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		signer:                       signer,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies the credentials and, on success, returns a new TokenPair.
// "No such user" and "wrong password" yield the same common.ErrAuthFailed
// so the endpoint cannot be used for username enumeration. The inactive
// check runs only after the password verified.
func (s *SessionService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAuthFailed
		}
		return nil, fmt.Errorf("error searching user: %v", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrAuthFailed
	}
	if !user.IsActive {
		return nil, common.ErrAccountInactive
	}

	return s.generateTokenPair(ctx, user)
}

// Refresh validates a refresh-token secret, rotates it, and returns a fresh
// TokenPair. Every failure path (unknown secret, revoked or expired row,
// missing or inactive owner) collapses into common.ErrInvalidOrExpiredToken.
//
// Rotation revokes first and issues second: if issuing the new pair fails
// the presented token is already dead, dropping the session rather than
// duplicating it. The revoke is a conditional single write, so of two
// concurrent Refresh calls on the same secret at most one succeeds.
func (s *SessionService) Refresh(ctx context.Context, refreshSecret string) (*TokenPair, error) {
	tokenHash := auth.HashRefreshSecret(refreshSecret)
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Revoked {
		return nil, common.ErrInvalidOrExpiredToken
	}
	if !time.Now().UTC().Before(token.Expires) {
		// lazy cleanup instead of a background sweep
		_ = repo.Delete(ctx, tokenHash)
		return nil, common.ErrInvalidOrExpiredToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("error searching user: %v", err)
	}
	if !user.IsActive {
		return nil, common.ErrInvalidOrExpiredToken
	}

	flipped, err := repo.Revoke(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %v", err)
	}
	if !flipped {
		// a concurrent Refresh won the race on this secret
		return nil, common.ErrInvalidOrExpiredToken
	}

	return s.generateTokenPair(ctx, user)
}

// Logout revokes the session the secret belongs to, if any. It never
// reports failure: whether the token existed, was already revoked, or the
// revocation write failed is not disclosed to the caller. This is the one
// intentional swallow-everything boundary.
func (s *SessionService) Logout(ctx context.Context, refreshSecret string) {
	repo := s.repomanager.RefreshTokens(s.db)
	_, _ = repo.Revoke(ctx, auth.HashRefreshSecret(refreshSecret))
}

// LogoutAll revokes every active refresh token owned by the user and
// returns the number of sessions ended. The caller must already hold an
// authenticated principal; this is not a blind operation.
func (s *SessionService) LogoutAll(ctx context.Context, user *models.User) (int64, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	count, err := repo.RevokeAllForUser(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("error revoking refresh tokens: %v", err)
	}
	return count, nil
}

// --- helpers below ---

func (s *SessionService) generateTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.signer.Issue(user.Username, user.IsAdmin, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	secret, err := common.MakeRandHexString(refreshSecretBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Create(ctx, user.ID, auth.HashRefreshSecret(secret), s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: secret}, nil
}
