package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	}
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     RoleManager,
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                "test-secret",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, input.Role, claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-jwt"},
		{"malformed token", "aaa.bbb.ccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	otherSvc := NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-secret-key",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})

	_, err = otherSvc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -1 * time.Minute,
		Issuer:                "test-issuer",
	})

	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestClaims_GetUserUUID(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
}

func TestClaims_GetUserUUID_Invalid(t *testing.T) {
	claims := &Claims{UserID: "not-a-uuid"}

	_, err := claims.GetUserUUID()
	assert.Error(t, err)
}

func TestClaims_HasRole(t *testing.T) {
	claims := &Claims{Role: RoleManager}

	assert.True(t, claims.HasRole(RoleManager))
	assert.True(t, claims.HasRole(RoleAdmin, RoleManager))
	assert.False(t, claims.HasRole(RoleAdmin))
	assert.False(t, claims.HasRole(RolePicker, RoleViewer))
	assert.False(t, claims.HasRole())
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	t.Run("returns remaining time for a live token", func(t *testing.T) {
		svc := newTestJWTService()

		token, err := svc.GenerateToken(newTestInput())
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token.AccessToken)
		require.NoError(t, err)

		ttl := claims.GetRemainingTTL()
		assert.Greater(t, ttl, 14*time.Minute)
		assert.LessOrEqual(t, ttl, 15*time.Minute)
	})

	t.Run("returns zero without expiration claim", func(t *testing.T) {
		claims := &Claims{}
		assert.Equal(t, time.Duration(0), claims.GetRemainingTTL())
	})
}

func TestGetAccessTokenExpiration(t *testing.T) {
	svc := newTestJWTService()
	assert.Equal(t, 15*time.Minute, svc.GetAccessTokenExpiration())
}
