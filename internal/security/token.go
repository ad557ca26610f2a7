package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fleetrental-backend/internal/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// UserClaims carries the principal's identity and tenant scope. Scope
// fields are resolved server-side at login, never echoed from clients.
type UserClaims struct {
	UserID         int64           `json:"user_id"`
	Email          string          `json:"email,omitempty"`
	Type           TokenType       `json:"type"`
	Role           domain.UserRole `json:"role,omitempty"`
	AgencyID       int64           `json:"agency_id,omitempty"`
	OwnedAgencyIDs []int64         `json:"owned_agency_ids,omitempty"`
	CustomerID     int64           `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the scope object every service
// operation receives.
func (c *UserClaims) Principal() domain.Principal {
	return domain.Principal{
		UserID:         c.UserID,
		Role:           c.Role,
		AgencyID:       c.AgencyID,
		OwnedAgencyIDs: c.OwnedAgencyIDs,
		CustomerID:     c.CustomerID,
	}
}

type TokenManager interface {
	GenerateAccessToken(p domain.Principal, email string, expiry time.Duration) (string, error)
	GenerateRefreshToken(userID int64, email string, expiry time.Duration) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateAccessToken(p domain.Principal, email string, expiry time.Duration) (string, error) {
	claims := UserClaims{
		UserID:         p.UserID,
		Email:          email,
		Type:           TokenTypeAccess,
		Role:           p.Role,
		AgencyID:       p.AgencyID,
		OwnedAgencyIDs: p.OwnedAgencyIDs,
		CustomerID:     p.CustomerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fleetrental-backend",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) GenerateRefreshToken(userID int64, email string, expiry time.Duration) (string, error) {
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		Type:   TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fleetrental-backend",
			Audience:  jwt.ClaimStrings{"token-refresh"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Simple unique ID generator
func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
