package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"shortlink/backend/internal/clock"
	"shortlink/backend/internal/service"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	clk := clock.NewFake(testNow)
	tokens := service.NewTokenService("secret", clk)

	token, err := tokens.Issue("owner-1", time.Hour)
	require.NoError(t, err)

	owner, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "owner-1", owner)

	clk.Advance(2 * time.Hour)
	_, err = tokens.Verify(token)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestTokenService_Rejects(t *testing.T) {
	clk := clock.NewFake(testNow)
	tokens := service.NewTokenService("secret", clk)

	sign := func(method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(testNow.Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: sign(jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "owner-1", ExpiresAt: exp})},
		{name: "wrong algorithm", token: sign(jwt.SigningMethodHS512, []byte("secret"), jwt.RegisteredClaims{Subject: "owner-1", ExpiresAt: exp})},
		{name: "no expiry", token: sign(jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{Subject: "owner-1"})},
		{name: "no subject", token: sign(jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{ExpiresAt: exp})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			require.ErrorIs(t, err, service.ErrUnauthorized)
		})
	}
}

func TestTokenService_NoSecretDisablesAuth(t *testing.T) {
	tokens := service.NewTokenService("", nil)

	_, err := tokens.Issue("owner-1", time.Hour)
	require.Error(t, err)

	signed, err := service.NewTokenService("secret", nil).Issue("owner-1", time.Hour)
	require.NoError(t, err)
	_, err = tokens.Verify(signed)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}
