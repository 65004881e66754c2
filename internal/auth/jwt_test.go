package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cablestock-service/internal/auth"
	"cablestock-service/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{UserID: 42, Role: models.RoleAdmin}

	token, expiresAt, err := auth.GenerateToken("secret", user, 24*time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := auth.ParseToken("secret", token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &models.User{UserID: 1, Role: models.RoleEmployee}

	token, _, err := auth.GenerateToken("secret", user, time.Hour)
	assert.NoError(t, err)

	_, err = auth.ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	user := &models.User{UserID: 1, Role: models.RoleEmployee}

	token, _, err := auth.GenerateToken("secret", user, -time.Minute)
	assert.NoError(t, err)

	_, err = auth.ParseToken("secret", token)
	assert.Error(t, err)
}
