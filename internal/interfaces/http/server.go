// Package http is the thin adapter that exposes form sessions over
// HTTP. It only translates requests into calls on the form, rate, and
// export components; no computation happens here.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lemo-maschinenbau/reisekosten/internal/export"
	"github.com/lemo-maschinenbau/reisekosten/internal/form"
	"github.com/lemo-maschinenbau/reisekosten/internal/rates"
)

// Config holds HTTP server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP adapter around the form service.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	sessions   *form.Manager
	table      *rates.Table
	exporter   *export.Exporter
	logger     *zap.Logger
}

// NewServer wires the routes and middleware.
func NewServer(
	config Config,
	sessions *form.Manager,
	table *rates.Table,
	exporter *export.Exporter,
	logger *zap.Logger,
) *Server {
	router := gin.New()

	s := &Server{
		config:   config,
		router:   router,
		sessions: sessions,
		table:    table,
		exporter: exporter,
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

// setupRoutes registers all endpoints
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/rates/countries", s.handleListCountries)
		api.GET("/rates/:country", s.handleGetRates)

		api.POST("/sessions", s.handleCreateSession)
		api.GET("/sessions/:id", s.handleGetSession)
		api.PATCH("/sessions/:id/fields", s.handleUpdateFields)
		api.POST("/sessions/:id/reset", s.handleReset)

		api.POST("/sessions/:id/costs", s.handleAddCost)
		api.PATCH("/sessions/:id/costs/:costID", s.handleUpdateCost)
		api.DELETE("/sessions/:id/costs/:costID", s.handleRemoveCost)

		api.PUT("/sessions/:id/signatures/:role", s.handleSetSignature)
		api.DELETE("/sessions/:id/signatures/:role", s.handleClearSignature)

		api.POST("/sessions/:id/export/pdf", s.handleExportPDF)
		api.POST("/sessions/:id/export/xlsx", s.handleExportWorkbook)
		api.GET("/sessions/:id/maildraft", s.handleMailDraft)
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
