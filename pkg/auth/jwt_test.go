package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
)

func testUser(role model.Role) *model.User {
	return &model.User{
		ID:       uuid.New(),
		Email:    "amina@example.com",
		FullName: "Amina Yusuf",
		Role:     role,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	user := testUser(model.RolePatient)

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RolePatient, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	signer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, _, err := signer.GenerateAccessToken(testUser(model.RoleAdmin))
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, _, err := svc.GenerateAccessToken(testUser(model.RolePatient))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenUnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, _, err := svc.GenerateAccessToken(testUser(model.Role("superuser")))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
