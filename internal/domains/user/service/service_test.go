package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/user/mocks"
	"innkeep/internal/domains/user/model"
	"innkeep/internal/domains/user/model/dto"
	"innkeep/internal/domains/user/service"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gRepo "innkeep/shared/repository"
)

func setup(t *testing.T) (service.User, *mocks.MockUser, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUser(ctrl)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(repo, &config.Config{}, redisCache, otelMocks.NewOtel()), repo, redisCache
}

func as(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestUserService_Get(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		id       string
		found    bool
		wantCode int
	}{
		{name: "own record", ctx: as("u1", constant.RoleStaff), id: "u1", found: true},
		{name: "superadmin reads anyone", ctx: as("root", constant.RoleSuperAdmin), id: "u1", found: true},
		{name: "staff reads someone else", ctx: as("u2", constant.RoleStaff), id: "u1", wantCode: http.StatusForbidden},
		{name: "missing", ctx: as("root", constant.RoleSuperAdmin), id: "u9", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, redisCache := setup(t)

			if tt.wantCode != http.StatusForbidden {
				redisCache.EXPECT().Get(gomock.Any(), "user:get:"+tt.id, gomock.Any()).Return(cache.Nil)

				if tt.found {
					repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: tt.id, Email: "a@b.c", Role: constant.RoleStaff}, nil)
				} else {
					repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, gRepo.ErrNotFound)
				}
			}

			res, err := svc.Get(tt.ctx, tt.id)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, res.ID)
		})
	}
}

func TestUserService_GetAllRequiresSuperadmin(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.GetAll(as("u1", constant.RoleAdmin), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
}

func TestUserService_Update(t *testing.T) {
	t.Run("promotes via api key", func(t *testing.T) {
		svc, repo, _ := setup(t)

		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, constant.RoleSuperAdmin, fields[model.FieldRole])
				assert.Equal(t, constant.ContextSystem, fields[constant.FieldModifiedBy])

				return 1, nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyInternal, true)
		require.NoError(t, svc.Update(ctx, dto.UpdateUserRequest{Role: constant.RoleSuperAdmin}, "u1"))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo, _ := setup(t)

		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := svc.Update(as("root", constant.RoleSuperAdmin), dto.UpdateUserRequest{Name: "New Name"}, "u9")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("staff cannot update", func(t *testing.T) {
		svc, _, _ := setup(t)

		err := svc.Update(as("u1", constant.RoleStaff), dto.UpdateUserRequest{Role: constant.RoleSuperAdmin}, "u1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}
