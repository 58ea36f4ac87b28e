package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coopcontrol/internal/repository/memory"
	"github.com/mamadbah2/coopcontrol/internal/server/handlers"
	"github.com/mamadbah2/coopcontrol/internal/service/dashboard"
	"github.com/mamadbah2/coopcontrol/internal/service/metrics"
)

func newTestRouter() http.Handler {
	svc := dashboard.NewService(memory.NewRepository(), nil)
	h := handlers.NewLedgerHandler(svc, metrics.Settings{MarketPrice: decimal.NewFromInt(4), OurPrice: decimal.NewFromInt(5)}, nil, nil)
	return New(h, nil)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRoutesAreRegistered(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/api/dashboard", "/api/settings", "/api/daily-log", "/api/sales", "/api/flock"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
