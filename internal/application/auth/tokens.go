package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims are the JWT claims carried by both token types. Type
// distinguishes access from refresh; refresh tokens are only accepted
// by the refresh endpoint.
type TokenClaims struct {
	jwt.RegisteredClaims
	Type   string `json:"type"`
	Device string `json:"device,omitempty"`
}

// TokenServiceConfig holds signing material and lifetimes. The refresh
// lifetime is derived from the access lifetime (7 days worth of it)
// when left zero.
type TokenServiceConfig struct {
	Secret          []byte
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenService issues and parses the registry's bearer tokens.
type TokenService struct {
	cfg TokenServiceConfig
}

func NewTokenService(cfg TokenServiceConfig) *TokenService {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 60 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = cfg.AccessTokenTTL * 24 * 7
	}
	return &TokenService{cfg: cfg}
}

func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.cfg.AccessTokenTTL
}

func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.cfg.RefreshTokenTTL
}

// IssueAccess signs a short-lived access token for userID.
func (s *TokenService) IssueAccess(userID uuid.UUID, device string) (string, error) {
	return s.issue(userID, device, TokenTypeAccess, s.cfg.AccessTokenTTL)
}

// IssueRefresh signs a long-lived refresh token for userID.
func (s *TokenService) IssueRefresh(userID uuid.UUID, device string) (string, error) {
	return s.issue(userID, device, TokenTypeRefresh, s.cfg.RefreshTokenTTL)
}

func (s *TokenService) issue(userID uuid.UUID, device, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Type:   tokenType,
		Device: device,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse validates signature and expiry and returns the claims.
func (s *TokenService) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
