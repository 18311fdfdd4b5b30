package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Default timeout values.
const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// NewRouter builds the gin engine. metrics may be nil to omit /metrics.
func NewRouter(handler *Handler, metrics http.Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))
	SetupRoutes(router, handler)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthCheck)

		search := v1.Group("/search")
		search.POST("", handler.Search)
		search.GET("", handler.Search)
	}
}

// NewServer wraps router in an http.Server listening on addr.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}
}

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
