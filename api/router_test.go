package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.ErrValidation))
	assert.Equal(t, http.StatusConflict, StatusFor(domain.ErrInsufficientSeats))
	assert.Equal(t, http.StatusConflict, StatusFor(domain.ErrSeatTaken))
	assert.Equal(t, http.StatusNotFound, StatusFor(domain.ErrNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(domain.ErrConflict))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(domain.ErrAuth))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("driver exploded")))
}

func TestHealth(t *testing.T) {
	logger, _ := test.NewNullLogger()

	healthy := NewRouter(RouterConfig{Checks: map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}}, Services{}, logger)

	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])

	degraded := NewRouter(RouterConfig{Checks: map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}}, Services{}, logger)

	w = httptest.NewRecorder()
	degraded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body = decode(t, w)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "connection refused", body["checks"].(map[string]any)["redis"])
}

func TestCORSPreflight(t *testing.T) {
	logger, _ := test.NewNullLogger()
	router := NewRouter(RouterConfig{AllowedOrigins: []string{"https://cloudjet.example"}}, Services{}, logger)

	req := httptest.NewRequest(http.MethodOptions, "/api/flights/search", nil)
	req.Header.Set("Origin", "https://cloudjet.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://cloudjet.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogLevelByErrorKind(t *testing.T) {
	logger, hook := test.NewNullLogger()
	bookings := new(MockBookingService)
	router := NewRouter(RouterConfig{JWTSecret: testSecret}, Services{Bookings: bookings}, logger)
	token := tokenFor(t, 3, middleware.RoleUser)

	bookings.On("CancelBooking", mock.Anything, int64(3), "CJGONE0000").Return(domain.NotFound("booking not found"))
	bookings.On("CancelBooking", mock.Anything, int64(3), "CJFULL0000").Return(domain.ErrInsufficientSeats)
	bookings.On("CancelBooking", mock.Anything, int64(3), "CJDOWN0000").Return(domain.Storage("update booking status", errors.New("conn reset")))

	tests := []struct {
		number string
		status int
		level  logrus.Level
	}{
		{"CJGONE0000", http.StatusNotFound, logrus.WarnLevel},
		{"CJFULL0000", http.StatusConflict, logrus.WarnLevel},
		{"CJDOWN0000", http.StatusInternalServerError, logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			hook.Reset()
			req := httptest.NewRequest(http.MethodPost, "/api/bookings/"+tt.number+"/cancel", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
	bookings.AssertExpectations(t)
}
