package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"tablebook/config"
	otelMocks "tablebook/infras/otel/mocks"
	cacheMocks "tablebook/shared/cache/mocks"
	"tablebook/shared/constant"
	"tablebook/transport/http/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newMiddleware(t *testing.T, maxRequests int) (middleware.AppMiddleware, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.Name = "tablebook"
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	return middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache), redisCache
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		err           error
		wantCode      int
		wantRemaining string
	}{
		{name: "first request", count: 1, wantCode: http.StatusOK, wantRemaining: "1"},
		{name: "last allowed request", count: 2, wantCode: http.StatusOK, wantRemaining: "0"},
		{name: "over the limit", count: 3, wantCode: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "redis unavailable", err: errors.New("connection refused"), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, redisCache := newMiddleware(t, 2)

			redisCache.EXPECT().
				Increment(gomock.Any(), "limiter:203.0.113.7:tablebook-test", 60).
				Return(tt.count, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/v1/reservations", nil)
			req.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")
			req.Header.Set(constant.RequestHeaderUserAgent, "tablebook-test")

			rec := httptest.NewRecorder()
			m.RateLimit()(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	m, _ := newMiddleware(t, 0)

	rec := httptest.NewRecorder()
	m.RateLimit()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reservations", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(constant.RequestHeaderRateLimit))
}

func TestRequestID(t *testing.T) {
	m, _ := newMiddleware(t, 2)

	var seen string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(constant.ContextKeyRequestID).(string)
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(constant.RequestHeaderRequestID, "req-123")

		rec := httptest.NewRecorder()
		m.RequestID(next).ServeHTTP(rec, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rec.Header().Get(constant.RequestHeaderRequestID))
	})

	t.Run("assigns id when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.RequestID(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(constant.RequestHeaderRequestID))
	})
}

func TestTracingAndMetrics_PassThrough(t *testing.T) {
	m, _ := newMiddleware(t, 2)

	teapot := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	m.Tracing(m.Metrics(teapot)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
