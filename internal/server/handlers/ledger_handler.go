package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
	"github.com/mamadbah2/coopcontrol/internal/service/dashboard"
	"github.com/mamadbah2/coopcontrol/internal/service/metrics"
)

// DashboardService is the ledger service behind the HTTP API.
type DashboardService interface {
	Build(ctx context.Context, settings metrics.Settings) (*dashboard.Dashboard, error)
	LogDaily(ctx context.Context, entry models.DailyLogEntry) error
	LogSale(ctx context.Context, sale models.SaleEntry) error
	RecordFlockEvent(ctx context.Context, event models.FlockEvent) error
	DailyLog(ctx context.Context) ([]models.DailyLogEntry, error)
	Sales(ctx context.Context) ([]models.SaleEntry, error)
	FlockHistory(ctx context.Context) ([]models.FlockEvent, error)
}

// LedgerHandler exposes the dashboard and the three ledgers over HTTP.
type LedgerHandler struct {
	svc      DashboardService
	defaults metrics.Settings
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewLedgerHandler constructs the HTTP handler adapter. Blank dates in
// submitted entries default to today in loc.
func NewLedgerHandler(svc DashboardService, defaults metrics.Settings, loc *time.Location, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerHandler{svc: svc, defaults: defaults, loc: loc, logger: logger, now: time.Now}
}

type dailyLogRequest struct {
	Date           string `json:"date"`
	EggsCollected  int    `json:"eggs_collected" binding:"min=0"`
	FeedBagsOpened int    `json:"feed_bags_opened" binding:"min=0"`
	Notes          string `json:"notes"`
}

type saleRequest struct {
	Date       string          `json:"date"`
	Customer   string          `json:"customer" binding:"required"`
	DozensSold int             `json:"dozens_sold" binding:"required,min=1"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status" binding:"required"`
}

type flockRequest struct {
	Date     string `json:"date"`
	Action   string `json:"action" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Reason   string `json:"reason"`
}

type settingsResponse struct {
	MarketPrice decimal.Decimal `json:"market_price"`
	OurPrice    decimal.Decimal `json:"our_price"`
}

// Dashboard renders the farm overview. market_price overrides the configured
// supermarket price for this request only.
func (h *LedgerHandler) Dashboard(c *gin.Context) {
	settings := h.defaults
	if raw := strings.TrimSpace(c.Query("market_price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "market_price must be a non-negative number"})
			return
		}
		settings.MarketPrice = price
	}

	view, err := h.svc.Build(c.Request.Context(), settings)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Settings returns the configured market-watch defaults.
func (h *LedgerHandler) Settings(c *gin.Context) {
	c.JSON(http.StatusOK, settingsResponse{MarketPrice: h.defaults.MarketPrice, OurPrice: h.defaults.OurPrice})
}

// ListDailyLog returns the parsed Daily_Log.
func (h *LedgerHandler) ListDailyLog(c *gin.Context) {
	entries, err := h.svc.DailyLog(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ListSales returns the parsed Sales ledger.
func (h *LedgerHandler) ListSales(c *gin.Context) {
	entries, err := h.svc.Sales(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ListFlock returns the parsed Flock ledger.
func (h *LedgerHandler) ListFlock(c *gin.Context) {
	entries, err := h.svc.FlockHistory(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateDailyLog appends a Daily_Log row.
func (h *LedgerHandler) CreateDailyLog(c *gin.Context) {
	var req dailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	date, err := h.entryDate(req.Date)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	entry := models.DailyLogEntry{
		Date:           date,
		EggsCollected:  req.EggsCollected,
		FeedBagsOpened: req.FeedBagsOpened,
		Notes:          strings.TrimSpace(req.Notes),
	}
	if err := h.svc.LogDaily(c.Request.Context(), entry); err != nil {
		h.respondError(c, err, req)
		return
	}
	h.created(c, entry)
}

// CreateSale appends a Sales row.
func (h *LedgerHandler) CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	date, err := h.entryDate(req.Date)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	status, ok := models.ParseSaleStatus(req.Status)
	if !ok {
		h.badRequest(c, models.ErrUnknownSaleStatus)
		return
	}

	sale := models.SaleEntry{
		Date:       date,
		Customer:   strings.TrimSpace(req.Customer),
		DozensSold: req.DozensSold,
		TotalPrice: req.TotalPrice,
		Status:     status,
	}
	if err := h.svc.LogSale(c.Request.Context(), sale); err != nil {
		h.respondError(c, err, req)
		return
	}
	h.created(c, sale)
}

// CreateFlockEvent appends a Flock row.
func (h *LedgerHandler) CreateFlockEvent(c *gin.Context) {
	var req flockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	date, err := h.entryDate(req.Date)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	action, ok := models.ParseFormFlockAction(req.Action)
	if !ok {
		h.badRequest(c, models.ErrUnknownFlockAction)
		return
	}

	event := models.FlockEvent{
		Date:     date,
		Action:   action,
		Quantity: req.Quantity,
		Reason:   strings.TrimSpace(req.Reason),
	}
	if err := h.svc.RecordFlockEvent(c.Request.Context(), event); err != nil {
		h.respondError(c, err, req)
		return
	}
	h.created(c, event)
}

// created answers a successful write with the entry and a freshly folded
// dashboard.
func (h *LedgerHandler) created(c *gin.Context, entry any) {
	view, err := h.svc.Build(c.Request.Context(), h.defaults)
	if err != nil {
		h.logger.Warn("dashboard refresh after write failed", zap.Error(err))
		c.JSON(http.StatusCreated, gin.H{"entry": entry, "dashboard": nil, "dashboard_error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "dashboard": view})
}

func (h *LedgerHandler) entryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Day(h.now().In(h.loc)), nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, errors.New("date must be formatted YYYY-MM-DD")
	}
	return t, nil
}

func (h *LedgerHandler) badRequest(c *gin.Context, err error) {
	h.logger.Debug("rejected request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondError maps service errors to status codes. input, when set, is echoed
// back so a rejected write is not lost.
func (h *LedgerHandler) respondError(c *gin.Context, err error, input any) {
	switch {
	case errors.Is(err, dashboard.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrWriteFailure):
		h.logger.Error("ledger write failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "the ledger rejected the entry", "detail": err.Error(), "input": input})
	case errors.Is(err, models.ErrParse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStoreUnavailable):
		h.logger.Error("ledger store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger store unavailable"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
