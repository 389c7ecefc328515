//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shortlink/backend/internal/clock"
)

// TokenService maps bearer tokens to owner ids. Sessions are issued
// elsewhere; this side only shares the signing secret.
type TokenService interface {
	// Verify returns the owner id carried in the token subject.
	Verify(token string) (string, error)
	Issue(ownerID string, ttl time.Duration) (string, error)
}

type tokenService struct {
	secret []byte
	clock  clock.Clock
}

// NewTokenService returns a verifier for HS256 tokens. An empty secret
// rejects every token.
func NewTokenService(secret string, clk clock.Clock) TokenService {
	if clk == nil {
		clk = clock.New()
	}
	return &tokenService{secret: []byte(secret), clock: clk}
}

func (s *tokenService) Verify(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrUnauthorized
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (s *tokenService) Issue(ownerID string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token signing disabled: no secret configured")
	}
	if ownerID == "" {
		return "", &ValidationError{Field: "ownerId", Reason: "must not be empty"}
	}
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
