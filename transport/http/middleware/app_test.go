package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/metrics"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	"innkeep/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestRequestID(t *testing.T) {
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

	var inContext string

	handler := app.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inContext, _ = r.Context().Value(constant.ContextKeyRequestID).(string)
	}))

	t.Run("minted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/", nil))

		require.NotEmpty(t, inContext)
		assert.Equal(t, inContext, rec.Header().Get(constant.RequestHeaderRequestID))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/", nil)
		req.Header.Set(constant.RequestHeaderRequestID, "req-1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-1", inContext)
		assert.Equal(t, "req-1", rec.Header().Get(constant.RequestHeaderRequestID))
	})
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	tests := []struct {
		name          string
		count         int64
		err           error
		wantCode      int
		wantRemaining string
	}{
		{name: "under the limit", count: 1, wantCode: http.StatusNoContent, wantRemaining: "1"},
		{name: "at the limit", count: 2, wantCode: http.StatusNoContent, wantRemaining: "0"},
		{name: "over the limit", count: 3, wantCode: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "cache down", err: errors.New("dial tcp: refused"), wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
			cache.EXPECT().Increment(gomock.Any(), "limiter:203.0.113.7:probe", time.Minute).Return(tt.count, tt.err)

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cache)

			req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/", nil)
			req.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")
			req.Header.Set(constant.RequestHeaderUserAgent, "probe")

			rec := httptest.NewRecorder()
			app.RateLimit()(http.HandlerFunc(noContent)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}

	t.Run("disabled", func(t *testing.T) {
		app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

		rec := httptest.NewRecorder()
		app.RateLimit()(http.HandlerFunc(noContent)).
			ServeHTTP(rec, httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, nil)

	router := chi.NewRouter()
	router.Use(app.Tracing, app.Metrics)
	router.Get("/v1/rooms/{id}", noContent)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/v1/rooms/{id}", "204")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"r1", "r2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/v1/rooms/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(counter)-before, 1e-9)
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://desk.example.com"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet}

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil)

	req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://desk.example.com")

	rec := httptest.NewRecorder()
	app.CORS()(http.HandlerFunc(noContent)).ServeHTTP(rec, req)

	assert.Equal(t, "https://desk.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
