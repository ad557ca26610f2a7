package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/repository"
	"fleetrental-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	users         repository.UserRepository
	agencies      repository.AgencyRepository
	tokens        security.TokenManager
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	agencies repository.AgencyRepository,
	tokens security.TokenManager,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		users:         users,
		agencies:      agencies,
		tokens:        tokens,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Login verifies the credentials and mints a token pair. The access
// token carries the principal's full tenant scope, resolved here from
// the store so clients can never claim agencies they do not hold.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user *domain.User
	err := withStoreRetry(ctx, "user.get_by_email", func() error {
		var err error
		user, err = s.users.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	principal, err := s.resolvePrincipal(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, principal, user.Email)
}

// Refresh exchanges a valid refresh token for a fresh pair. Scope is
// resolved again at refresh time, so revoked agency access drops off at
// the next rotation.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, security.ErrWrongTokenType
	}

	var user *domain.User
	err = withStoreRetry(ctx, "user.get", func() error {
		var err error
		user, err = s.users.GetByID(ctx, claims.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, security.ErrInvalidToken
	}

	principal, err := s.resolvePrincipal(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, principal, user.Email)
}

func (s *authService) resolvePrincipal(ctx context.Context, user *domain.User) (domain.Principal, error) {
	principal := domain.Principal{
		UserID:     user.ID,
		Role:       user.Role,
		AgencyID:   user.AgencyID,
		CustomerID: user.CustomerID,
	}
	if user.Role == domain.RoleOwner {
		var owned []int64
		err := withStoreRetry(ctx, "agency.list_ids_by_owner", func() error {
			var err error
			owned, err = s.agencies.ListIDsByOwner(ctx, user.ID)
			return err
		})
		if err != nil {
			return domain.Principal{}, err
		}
		principal.OwnedAgencyIDs = owned
	}
	return principal, nil
}

func (s *authService) issueTokens(ctx context.Context, p domain.Principal, email string) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(p, email, s.accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(p.UserID, email, s.refreshExpiry)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "tokens issued", "user_id", p.UserID, "role", p.Role)
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
