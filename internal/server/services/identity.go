package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/server/auth"
	"github.com/netinvest/server/internal/server/models"
	"github.com/netinvest/server/internal/server/repositories/repomanager"
)

// IdentityService resolves a bearer access token into the acting principal.
// The admin flag embedded in the token is informational only; every stage
// re-checks the freshly loaded user record, so a user demoted or
// deactivated after issuance loses privileges without waiting for the
// token to expire at most one access-token TTL later.
type IdentityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signer      *auth.TokenSigner
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, signer *auth.TokenSigner) *IdentityService {
	return &IdentityService{db: db, repomanager: m, signer: signer}
}

// Resolve verifies the bearer token and loads the subject user. An invalid
// token, a missing subject claim, and an unknown subject all yield
// common.ErrUnauthenticated.
func (s *IdentityService) Resolve(ctx context.Context, bearerToken string) (*models.User, error) {
	claims, err := s.signer.Verify(bearerToken)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return nil, common.ErrUnauthenticated
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error searching user: %v", err)
	}

	return user, nil
}

// ResolveActive is Resolve plus the second-stage active check.
func (s *IdentityService) ResolveActive(ctx context.Context, bearerToken string) (*models.User, error) {
	user, err := s.Resolve(ctx, bearerToken)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrAccountInactive
	}
	return user, nil
}

// ResolveAdmin is ResolveActive plus the optional third-stage admin check,
// evaluated against the stored record rather than the token claims.
func (s *IdentityService) ResolveAdmin(ctx context.Context, bearerToken string) (*models.User, error) {
	user, err := s.ResolveActive(ctx, bearerToken)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, common.ErrForbidden
	}
	return user, nil
}
