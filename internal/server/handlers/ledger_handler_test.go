package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
	"github.com/mamadbah2/coopcontrol/internal/repository/memory"
	"github.com/mamadbah2/coopcontrol/internal/service/dashboard"
	"github.com/mamadbah2/coopcontrol/internal/service/metrics"
)

var testSettings = metrics.Settings{
	MarketPrice: decimal.RequireFromString("4.50"),
	OurPrice:    decimal.RequireFromString("5.00"),
}

type unreachableStore struct{}

func (unreachableStore) AppendRecord(context.Context, models.Table, []interface{}) error {
	return errors.New("dial tcp: i/o timeout")
}

func (unreachableStore) FetchAllRecords(context.Context, models.Table) ([]models.Record, error) {
	return nil, errors.New("dial tcp: i/o timeout")
}

func newEngine(store dashboard.LedgerStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewLedgerHandler(dashboard.NewService(store, nil), testSettings, nil, nil)
	h.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/api/dashboard", h.Dashboard)
	r.GET("/api/settings", h.Settings)
	r.GET("/api/daily-log", h.ListDailyLog)
	r.POST("/api/daily-log", h.CreateDailyLog)
	r.GET("/api/sales", h.ListSales)
	r.POST("/api/sales", h.CreateSale)
	r.GET("/api/flock", h.ListFlock)
	r.POST("/api/flock", h.CreateFlockEvent)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestCreateFlockEventReturnsFreshDashboard(t *testing.T) {
	r := newEngine(memory.NewRepository())

	rec, _ := do(t, r, http.MethodPost, "/api/flock", map[string]any{"date": "2025-06-01", "action": "Add Birds (+)", "quantity": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, body := do(t, r, http.MethodPost, "/api/flock", map[string]any{"date": "2025-06-02", "action": "Remove", "quantity": 3, "reason": "Fox"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entry := body["entry"].(map[string]any)
	assert.Equal(t, "Remove", entry["action"])
	view := body["dashboard"].(map[string]any)
	fl := view["flock"].(map[string]any)
	assert.EqualValues(t, 7, fl["current_size"])
	assert.Equal(t, false, fl["deficit"])
}

func TestCreateFlockEventRejectsUnknownAction(t *testing.T) {
	repo := memory.NewRepository()
	r := newEngine(repo)

	rec, body := do(t, r, http.MethodPost, "/api/flock", map[string]any{"action": "Hatched", "quantity": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "flock action")

	rows, err := repo.FetchAllRecords(context.Background(), models.TableFlock)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateFlockEventRejectsLooseLabels(t *testing.T) {
	repo := memory.NewRepository()
	r := newEngine(repo)

	for _, label := range []string{"Address", "Remove birds Added by mistake", "Added"} {
		rec, _ := do(t, r, http.MethodPost, "/api/flock", map[string]any{"action": label, "quantity": 3})
		assert.Equal(t, http.StatusBadRequest, rec.Code, label)
	}

	rec, body := do(t, r, http.MethodPost, "/api/flock", map[string]any{"action": "Remove Birds (-)", "quantity": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Remove", body["entry"].(map[string]any)["action"])

	rows, err := repo.FetchAllRecords(context.Background(), models.TableFlock)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCreateRejectsOutOfBoundsInput(t *testing.T) {
	r := newEngine(memory.NewRepository())

	tests := []struct {
		name string
		path string
		body map[string]any
	}{
		{name: "negative eggs", path: "/api/daily-log", body: map[string]any{"eggs_collected": -1}},
		{name: "bad date", path: "/api/daily-log", body: map[string]any{"date": "10/06/2025", "eggs_collected": 4}},
		{name: "zero dozens", path: "/api/sales", body: map[string]any{"customer": "Cash", "dozens_sold": 0, "total_price": "5", "status": "Paid"}},
		{name: "negative price", path: "/api/sales", body: map[string]any{"customer": "Cash", "dozens_sold": 1, "total_price": "-5", "status": "Paid"}},
		{name: "unknown status", path: "/api/sales", body: map[string]any{"customer": "Cash", "dozens_sold": 1, "total_price": "5", "status": "Maybe"}},
		{name: "missing customer", path: "/api/sales", body: map[string]any{"dozens_sold": 1, "total_price": "5", "status": "Paid"}},
		{name: "zero quantity", path: "/api/flock", body: map[string]any{"action": "Add", "quantity": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := do(t, r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateDailyLogDefaultsToToday(t *testing.T) {
	r := newEngine(memory.NewRepository())

	rec, body := do(t, r, http.MethodPost, "/api/daily-log", map[string]any{"eggs_collected": 11, "feed_bags_opened": 1, "notes": " windy "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entry := body["entry"].(map[string]any)
	assert.Equal(t, "2025-06-10T00:00:00Z", entry["date"])
	assert.Equal(t, "windy", entry["notes"])

	rec, body = do(t, r, http.MethodGet, "/api/daily-log", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["entries"], 1)
}

func TestCreateSaleWriteFailureEchoesInput(t *testing.T) {
	repo := memory.NewRepository()
	repo.FailAppends(models.TableSales, errors.New("quota exceeded"))
	r := newEngine(repo)

	rec, body := do(t, r, http.MethodPost, "/api/sales", map[string]any{"date": "2025-06-01", "customer": "Cash", "dozens_sold": 2, "total_price": "15.50", "status": "paid"})
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())

	input := body["input"].(map[string]any)
	assert.Equal(t, "Cash", input["customer"])
	assert.EqualValues(t, 2, input["dozens_sold"])
	assert.Contains(t, body["detail"], "quota exceeded")
}

func TestCreateSaleUpdatesRevenue(t *testing.T) {
	r := newEngine(memory.NewRepository())

	rec, body := do(t, r, http.MethodPost, "/api/sales", map[string]any{"date": "2025-06-01", "customer": "Cash", "dozens_sold": 2, "total_price": 15.5, "status": "Pending"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	view := body["dashboard"].(map[string]any)
	revenue := view["revenue"].(map[string]any)
	assert.Equal(t, "15.5", revenue["total_revenue"])
	assert.Equal(t, "15.5", revenue["pending_revenue"])
	assert.Len(t, view["revenue_series"], 1)
}

func TestDashboardIsolatesBadTable(t *testing.T) {
	repo := memory.NewRepository()
	repo.Seed(models.TableDailyLog, []interface{}{"2025-06-01", 10, 0, ""}, []interface{}{"2025-06-02", 12, 0, ""}, []interface{}{"2025-06-03", 8, 0, ""})
	repo.Seed(models.TableSales, []interface{}{"next week", "Cash", 1, "5", "Paid"})
	r := newEngine(repo)

	rec, body := do(t, r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	production := body["production"].(map[string]any)
	assert.EqualValues(t, 30, production["total_eggs"])
	assert.EqualValues(t, 10, production["avg_eggs_per_day"])
	assert.Nil(t, body["revenue"])

	issues := body["issues"].([]any)
	require.Len(t, issues, 1)
	assert.Equal(t, "Sales", issues[0].(map[string]any)["table"])

	rec, _ = do(t, r, http.MethodGet, "/api/sales", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDashboardEmptyAverageIsNull(t *testing.T) {
	r := newEngine(memory.NewRepository())

	rec, body := do(t, r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	production := body["production"].(map[string]any)
	assert.Contains(t, production, "avg_eggs_per_day")
	assert.Nil(t, production["avg_eggs_per_day"])
}

func TestDashboardMarketPriceOverride(t *testing.T) {
	r := newEngine(memory.NewRepository())

	rec, body := do(t, r, http.MethodGet, "/api/dashboard?market_price=4.75", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	watch := body["market_watch"].(map[string]any)
	assert.Equal(t, "4.75", watch["market_price"])
	assert.Equal(t, "0.25", watch["delta"])

	rec, body = do(t, r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	watch = body["market_watch"].(map[string]any)
	assert.Equal(t, "4.5", watch["market_price"])

	rec, _ = do(t, r, http.MethodGet, "/api/dashboard?market_price=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings(t *testing.T) {
	r := newEngine(memory.NewRepository())

	rec, body := do(t, r, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4.5", body["market_price"])
	assert.Equal(t, "5", body["our_price"])
}

func TestStoreUnavailable(t *testing.T) {
	r := newEngine(unreachableStore{})

	rec, _ := do(t, r, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = do(t, r, http.MethodGet, "/api/flock", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, body := do(t, r, http.MethodPost, "/api/flock", map[string]any{"action": "Add", "quantity": 2})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotNil(t, body["input"])
}
