package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/coopcontrol/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.LedgerHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/dashboard", handler.Dashboard)
	api.GET("/settings", handler.Settings)
	api.GET("/daily-log", handler.ListDailyLog)
	api.POST("/daily-log", handler.CreateDailyLog)
	api.GET("/sales", handler.ListSales)
	api.POST("/sales", handler.CreateSale)
	api.GET("/flock", handler.ListFlock)
	api.POST("/flock", handler.CreateFlockEvent)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// requestIDMiddleware keeps an inbound X-Request-ID or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
