package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/config"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	user := &models.User{
		BaseModel: models.BaseModel{ID: "user-123"},
		Role:      models.RoleDoctor,
	}

	access, refresh, err := GenerateTokens(user, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := ValidateToken(access, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)

	refreshClaims, err := ValidateToken(refresh, cfg.JWTRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refreshClaims.UserID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &models.User{BaseModel: models.BaseModel{ID: "user-123"}, Role: models.RolePatient}

	access, _, err := GenerateTokens(user, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(access, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "secret")
	assert.Error(t, err)
}
