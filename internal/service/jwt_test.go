package service

import (
	"testing"
	"time"

	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret-key",
		Issuer:     "GestorTareas",
		Audience:   "GestorTareasUsers",
		Expiration: 7 * 24 * time.Hour,
	}
}

func testUser() *model.User {
	return &model.User{
		ID:        42,
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "García",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	token, expiresAt, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana García", claims.DisplayName)
	assert.Equal(t, "GestorTareas", claims.Issuer)
	assert.Contains(t, claims.Audience, "GestorTareasUsers")
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	token, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "another-secret"
	other := NewJWTService(otherCfg)

	_, err = other.ValidateToken(token)
	assert.EqualError(t, err, "invalid token")
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Expiration = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.EqualError(t, err, "invalid token")
}

func TestValidateTokenWrongIssuerOrAudience(t *testing.T) {
	issuerCfg := testJWTConfig()
	issuerCfg.Issuer = "SomeoneElse"
	tokenWrongIssuer, _, err := NewJWTService(issuerCfg).GenerateToken(testUser())
	require.NoError(t, err)

	audienceCfg := testJWTConfig()
	audienceCfg.Audience = "OtherAudience"
	tokenWrongAudience, _, err := NewJWTService(audienceCfg).GenerateToken(testUser())
	require.NoError(t, err)

	svc := NewJWTService(testJWTConfig())

	_, err = svc.ValidateToken(tokenWrongIssuer)
	assert.EqualError(t, err, "invalid token")

	_, err = svc.ValidateToken(tokenWrongAudience)
	assert.EqualError(t, err, "invalid token")
}

func TestValidateTokenMalformed(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	// Every failure mode surfaces the same error
	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ValidateToken(tokenString)
		assert.EqualError(t, err, "invalid token")
	}
}
