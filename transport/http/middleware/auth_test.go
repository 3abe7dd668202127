package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/config"
	"innkeep/infras/jwt"
	jwtMocks "innkeep/infras/jwt/mocks"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/permissions"
	"innkeep/shared/constant"
	"innkeep/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const apiKey = "s3cret"

type seen struct {
	userID   string
	role     string
	internal bool
}

func newAuthRouter(t *testing.T, tokens *jwtMocks.MockJWT) (http.Handler, *seen) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	m := middleware.NewAuthRoleMiddleware(tokens, otelMocks.NewOtel(), permissions.Get(), cfg)
	got := &seen{}

	capture := func(w http.ResponseWriter, r *http.Request) {
		got.userID, _ = r.Context().Value(constant.ContextKeyUserID).(string)
		got.role, _ = r.Context().Value(constant.ContextKeyUserRole).(string)
		got.internal, _ = r.Context().Value(constant.ContextKeyInternal).(bool)

		w.WriteHeader(http.StatusNoContent)
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(m.APIKey, m.Auth, m.RBAC)
		r.Route("/v1", func(r chi.Router) {
			r.Post("/auth/login", capture)
			r.Route("/properties", func(r chi.Router) {
				r.Post("/", capture)
				r.Get("/{id}", capture)
			})
		})
	})

	return router, got
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		header       map[string]string
		setup        func(tokens *jwtMocks.MockJWT)
		wantCode     int
		wantUser     string
		wantInternal bool
	}{
		{
			name:     "public route needs no token",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			setup:    func(*jwtMocks.MockJWT) {},
			wantCode: http.StatusNoContent,
		},
		{
			name:     "missing header",
			method:   http.MethodGet,
			path:     "/v1/properties/p1",
			setup:    func(*jwtMocks.MockJWT) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			method:   http.MethodGet,
			path:     "/v1/properties/p1",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			setup:    func(*jwtMocks.MockJWT) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			method: http.MethodGet,
			path:   "/v1/properties/p1",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer abc"},
			setup: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "claims without subject",
			method: http.MethodGet,
			path:   "/v1/properties/p1",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer abc"},
			setup: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(&jwt.Claims{Email: "a@b.c"}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "staff reads a property",
			method: http.MethodGet,
			path:   "/v1/properties/p1",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer abc"},
			setup: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u1", Email: "a@b.c", Role: constant.RoleStaff}, nil)
			},
			wantCode: http.StatusNoContent,
			wantUser: "u1",
		},
		{
			name:   "staff cannot create a property",
			method: http.MethodPost,
			path:   "/v1/properties",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer abc"},
			setup: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u1", Email: "a@b.c", Role: constant.RoleStaff}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:         "api key skips token and role checks",
			method:       http.MethodPost,
			path:         "/v1/properties",
			header:       map[string]string{constant.RequestHeaderAPIKey: apiKey},
			setup:        func(*jwtMocks.MockJWT) {},
			wantCode:     http.StatusNoContent,
			wantInternal: true,
		},
		{
			name:     "wrong api key",
			method:   http.MethodPost,
			path:     "/v1/properties",
			header:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			setup:    func(*jwtMocks.MockJWT) {},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := jwtMocks.NewMockJWT(gomock.NewController(t))
			tt.setup(tokens)

			router, got := newAuthRouter(t, tokens)

			req := httptest.NewRequestWithContext(context.Background(), tt.method, tt.path, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, got.userID)
			assert.Equal(t, tt.wantInternal, got.internal)
		})
	}
}
