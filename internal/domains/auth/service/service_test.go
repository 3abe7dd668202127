package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/jwt"
	jwtMocks "innkeep/infras/jwt/mocks"
	"innkeep/infras/otel/mocks"
	"innkeep/internal/domains/auth/model/dto"
	"innkeep/internal/domains/auth/service"
	userMocks "innkeep/internal/domains/user/mocks"
	userModel "innkeep/internal/domains/user/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/password"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"
)

var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT, timezone.Fixed(now))

	return svc, mockUserRepo, mockJWT
}

func storedUser(t *testing.T, active bool) userModel.User {
	t.Helper()

	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-id-123",
		Email:    "desk@example.com",
		Password: hashed,
		Name:     "Front Desk",
		Role:     constant.RoleStaff,
		Active:   active,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates a staff account", func(t *testing.T) {
		svc, repo, _ := setup(t)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, constant.RoleStaff, user.Role)
				assert.NotEqual(t, "password123", user.Password)
				assert.NoError(t, password.Verify("password123", user.Password))

				return nil
			})

		err := svc.Register(context.Background(), dto.RegisterRequest{Email: "desk@example.com", Password: "password123", Name: "Front Desk"})
		require.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, repo, _ := setup(t)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		err := svc.Register(context.Background(), dto.RegisterRequest{Email: "desk@example.com", Password: "password123", Name: "Front Desk"})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(t *testing.T, repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "Desk@Example.com", Password: "password123"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				user := storedUser(t, true)

				repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (userModel.User, error) {
						_, args := filter.GetWhereClause()
						assert.Contains(t, args, userModel.FieldEmail)
						assert.Equal(t, "desk@example.com", args[userModel.FieldEmail])

						return user, nil
					})
				jwtService.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Role).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer"}, nil)
				repo.EXPECT().Update(gomock.Any(), map[string]any{userModel.FieldLastLogin: now}, gomock.Any()).Return(int64(1), nil)
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "ghost@example.com", Password: "password123"},
			setupMock: func(_ *testing.T, repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, gRepo.ErrNotFound)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "desk@example.com", Password: "nope-nope"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "desk@example.com", Password: "password123"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, false), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation fails",
			req:  dto.LoginRequest{Email: "desk@example.com", Password: "password123"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
				jwtService.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("signing failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, jwtService := setup(t)
			tt.setupMock(t, repo, jwtService)

			res, err := svc.Login(context.Background(), tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "refresh-token", res.RefreshToken)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		svc, _, jwtService := setup(t)

		jwtService.EXPECT().RefreshTokens(gomock.Any(), "refresh-token").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})
		require.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, _, jwtService := setup(t)

		jwtService.EXPECT().RefreshTokens(gomock.Any(), gomock.Any()).Return(nil, jwt.ErrInvalidToken)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "garbage"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	authed := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-123")

	t.Run("updates the hash", func(t *testing.T) {
		svc, repo, _ := setup(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				hashed, _ := fields[userModel.FieldPassword].(string)
				assert.NoError(t, password.Verify("brand-new-pass", hashed))
				assert.Equal(t, "user-id-123", fields[constant.FieldModifiedBy])

				return 1, nil
			})

		err := svc.ChangePassword(authed, dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "brand-new-pass"})
		require.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, repo, _ := setup(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, true), nil)

		err := svc.ChangePassword(authed, dto.ChangePasswordRequest{CurrentPassword: "wrong-one", NewPassword: "brand-new-pass"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		svc, _, _ := setup(t)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "a", NewPassword: "b"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}
