package service_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	pgMocks "innkeep/infras/postgres/mocks"
	"innkeep/internal/access"
	accessMocks "innkeep/internal/access/mocks"
	"innkeep/internal/domains/property/mocks"
	"innkeep/internal/domains/property/model"
	"innkeep/internal/domains/property/model/dto"
	"innkeep/internal/domains/property/service"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repo       *mocks.MockProperty
	members    *mocks.MockMember
	transactor *pgMocks.MockTransactor
	guard      *accessMocks.MockGuard
	cache      *cacheMocks.MockRedisCache
	svc        service.Property
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		repo:       mocks.NewMockProperty(ctrl),
		members:    mocks.NewMockMember(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
		guard:      accessMocks.NewMockGuard(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, f.members, f.transactor, f.guard, cfg, f.cache, otelMocks.NewOtel(), timezone.Fixed(now))

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f fixture) runTransactions() {
	f.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sql.TxOptions, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func asUser(id string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, id)
}

func TestCreate(t *testing.T) {
	req := dto.CreatePropertyRequest{Name: "Harbour Inn", Timezone: "Asia/Jakarta"}

	t.Run("creator becomes admin", func(t *testing.T) {
		f := newFixture(t)
		f.runTransactions()

		var inserted model.Property
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, p model.Property) error {
				inserted = p

				return nil
			})
		f.members.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, m model.Member) error {
				assert.Equal(t, inserted.ID, m.PropertyID)
				assert.Equal(t, "u1", m.UserID)
				assert.Equal(t, constant.RoleAdmin, m.Role)

				return nil
			})

		res, err := f.svc.Create(asUser("u1"), req)
		require.NoError(t, err)
		assert.Equal(t, "Harbour Inn", res.Name)
		assert.True(t, res.Active)
		assert.Equal(t, timezone.Format(now, constant.DateFormat), res.CreatedAt)
	})

	t.Run("internal caller adds no member", func(t *testing.T) {
		f := newFixture(t)
		f.runTransactions()
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("insert failure", func(t *testing.T) {
		f := newFixture(t)
		f.runTransactions()
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.Create(asUser("u1"), req)
		require.Error(t, err)
	})
}

func TestGetAll(t *testing.T) {
	t.Run("scoped to memberships", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Properties(gomock.Any()).Return(access.Scope{PropertyIDs: []string{"p1", "p2"}}, nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "properties.id IN")
				assert.Equal(t, "p1", args["scope_id_0"])

				return 2, nil
			})
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Property{{ID: "p1"}, {ID: "p2"}}, nil)

		res, err := f.svc.GetAll(asUser("u1"), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
		require.NoError(t, err)
		assert.Len(t, res.Properties, 2)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Properties(gomock.Any()).Return(access.Scope{}, failure.Unauthorized("authentication required"))

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f fixture)
		wantCode int
	}{
		{
			name: "found",
			setup: func(f fixture) {
				f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
				f.cache.EXPECT().Get(gomock.Any(), "property:get:p1", gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Property{ID: "p1", Name: "Harbour Inn"}, nil)
			},
		},
		{
			name: "missing",
			setup: func(f fixture) {
				f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Property{}, gRepo.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "not a member",
			setup: func(f fixture) {
				f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(failure.PropertyRestrictedError)
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.Get(asUser("u1"), "p1")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Harbour Inn", res.Name)
		})
	}
}

func TestUpdate(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := f.svc.Update(asUser("u1"), dto.UpdatePropertyRequest{Name: "New"}, "p1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("updated", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, mod map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, "New", mod[model.FieldName])
				assert.Equal(t, "u1", mod[constant.FieldModifiedBy])

				return 1, nil
			})

		require.NoError(t, f.svc.Update(asUser("u1"), dto.UpdatePropertyRequest{Name: "New"}, "p1"))
	})
}

func TestDelete(t *testing.T) {
	t.Run("still referenced", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).
			Return(int64(0), &pq.Error{Code: constant.PqErrorCodeFkViolation})

		err := f.svc.Delete(asUser("u1"), "p1")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)

		require.NoError(t, f.svc.Delete(asUser("u1"), "p1"))
	})
}

func TestMembers(t *testing.T) {
	t.Run("duplicate member", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.members.EXPECT().Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		err := f.svc.AddMember(asUser("u1"), "p1", dto.AddMemberRequest{UserID: "u2", Role: constant.RoleStaff})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("list", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.members.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Member{{ID: "m1", UserID: "u1", UserName: "Ana", Role: constant.RoleAdmin}}, nil)

		res, err := f.svc.GetMembers(asUser("u1"), "p1")
		require.NoError(t, err)
		require.Len(t, res.Members, 1)
		assert.Equal(t, "Ana", res.Members[0].UserName)
	})

	t.Run("remove unknown member", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.members.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(0), nil)

		err := f.svc.RemoveMember(asUser("u1"), "p1", "u9")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
