package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"innkeep/infras/jwt"
	"innkeep/internal/domains/auth/model/dto"
	"innkeep/shared/constant"
)

func TestTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.TokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	req := dto.RegisterRequest{Email: "Front.Desk@Example.com", Password: "secret123", Name: "Front Desk"}

	user := req.ToUserModel("hashed", now)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "front.desk@example.com", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleStaff, user.Role)
	assert.True(t, user.Active)
	assert.Equal(t, user.ID, user.CreatedBy)
	assert.Equal(t, now, user.CreatedAt)
}
