package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"tablebook/config"
	otelMocks "tablebook/infras/otel/mocks"
	availabilityMocks "tablebook/internal/domains/availability/mocks"
	holdMocks "tablebook/internal/domains/hold/mocks"
	reservationMocks "tablebook/internal/domains/reservation/mocks"
	"tablebook/internal/handlers/reservation"
	cacheMocks "tablebook/shared/cache/mocks"
	"tablebook/shared/constant"
	healthMocks "tablebook/shared/health/mocks"
	transport "tablebook/transport/http"
	"tablebook/transport/http/middleware"
	"tablebook/transport/http/router"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) *transport.HTTP {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvDevelopment
	cfg.App.Name = "tablebook"

	ot := otelMocks.NewOtel()

	handler := reservation.New(
		holdMocks.NewMockHoldService(ctrl),
		availabilityMocks.NewMockAvailabilityService(ctrl),
		reservationMocks.NewMockReservationService(ctrl),
		healthMocks.NewMockChecker(ctrl),
		cfg,
		ot,
	)

	r := router.New(router.DomainHandlers{Reservation: handler})

	return transport.New(cfg, r, middleware.NewAppMiddleware(ot, cfg, cacheMocks.NewMockRedisCache(ctrl)))
}

func TestHTTP_Routes(t *testing.T) {
	server := newServer(t)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(constant.RequestHeaderRequestID))
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "tablebook_http_requests_total")
	})

	t.Run("reservation ping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(`{"action":"ping"}`))
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reservations", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	assert.Equal(t, transport.ServerStateReady, server.State())
}
