package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/allisson/hireflow/internal/auth/domain"
)

// MinSigningKeyLength is the smallest HMAC key accepted, in bytes.
const MinSigningKeyLength = 32

// TokenConfig holds the lifetimes of refresh and reset tokens. Access token
// lifetimes are passed per call.
type TokenConfig struct {
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// tokenClaims is the JWT body: sub, exp, iat and jti plus a purpose tag and,
// for access tokens, the identity role.
type tokenClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
	Role string `json:"role,omitempty"`
}

type tokenService struct {
	key    []byte
	cfg    TokenConfig
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService creates an HS256 token service. The key must be at least
// MinSigningKeyLength bytes.
func NewTokenService(key []byte, cfg TokenConfig) (TokenService, error) {
	if len(key) < MinSigningKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", MinSigningKeyLength, len(key))
	}
	if cfg.RefreshTTL <= 0 || cfg.ResetTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	s := &tokenService{
		key: append([]byte(nil), key...),
		cfg: cfg,
		now: time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

func (s *tokenService) IssueAccess(identityID uuid.UUID, role domain.Role, ttl time.Duration) (string, error) {
	return s.issue(identityID, domain.PurposeAccess, role, ttl)
}

func (s *tokenService) IssueRefresh(identityID uuid.UUID) (string, error) {
	return s.issue(identityID, domain.PurposeRefresh, "", s.cfg.RefreshTTL)
}

func (s *tokenService) IssueReset(identityID uuid.UUID) (string, error) {
	return s.issue(identityID, domain.PurposeReset, "", s.cfg.ResetTTL)
}

func (s *tokenService) issue(
	identityID uuid.UUID,
	purpose domain.TokenPurpose,
	role domain.Role,
	ttl time.Duration,
) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("invalid %s token lifetime %s", purpose, ttl)
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identityID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: string(purpose),
		Role: string(role),
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return signed, nil
}

func (s *tokenService) Verify(token string, expected domain.TokenPurpose) (*domain.Claims, error) {
	claims := &tokenClaims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	if claims.Type != string(expected) {
		return nil, domain.ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.Claims{
		TokenID: claims.ID,
		Subject: subject,
		Purpose: expected,
		Role:    domain.Role(claims.Role),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
