package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/config"
	jwtMocks "innkeep/infras/jwt/mocks"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/permissions"
	innkeepHTTP "innkeep/transport/http"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/router"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T, metricsEnabled bool) *innkeepHTTP.HTTP {
	t.Helper()

	cfg := &config.Config{}
	cfg.Metrics.Enable = metricsEnabled
	cfg.Metrics.Path = "/metrics"

	ot := otelMocks.NewOtel()
	tokens := jwtMocks.NewMockJWT(gomock.NewController(t))

	return innkeepHTTP.New(
		cfg,
		router.New(router.DomainHandlers{}),
		middleware.NewAppMiddleware(ot, cfg, nil),
		middleware.NewAuthRoleMiddleware(tokens, ot, permissions.Get(), cfg),
	)
}

func TestServer(t *testing.T) {
	tests := []struct {
		name     string
		metrics  bool
		method   string
		path     string
		wantCode int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "api requires a token", method: http.MethodGet, path: "/v1/bookings/b1", wantCode: http.StatusUnauthorized},
		{name: "collection root requires a token", method: http.MethodGet, path: "/v1/rooms", wantCode: http.StatusUnauthorized},
		{name: "metrics exposed", metrics: true, method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK},
		{name: "metrics hidden", method: http.MethodGet, path: "/metrics", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.metrics)

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequestWithContext(context.Background(), tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestServerState(t *testing.T) {
	server := newServer(t, false)

	assert.Zero(t, server.State())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/health", nil))

	assert.Equal(t, innkeepHTTP.ServerStateReady, server.State())
}
