package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudjet/airbooking/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router    *gin.Engine
	bookings  *MockBookingService
	payments  *MockPaymentService
	flights   *MockFlightService
	discounts *MockDiscountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	env := &testEnv{
		bookings:  new(MockBookingService),
		payments:  new(MockPaymentService),
		flights:   new(MockFlightService),
		discounts: new(MockDiscountService),
	}
	env.router = NewRouter(RouterConfig{JWTSecret: testSecret}, Services{
		Bookings:  env.bookings,
		Payments:  env.payments,
		Flights:   env.flights,
		Discounts: env.discounts,
	}, logger)
	t.Cleanup(func() {
		env.bookings.AssertExpectations(t)
		env.payments.AssertExpectations(t)
		env.flights.AssertExpectations(t)
		env.discounts.AssertExpectations(t)
	})
	return env
}

func tokenFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
