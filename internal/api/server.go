package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"AlgoSentinel/internal/metrics"
	"AlgoSentinel/internal/model"
)

// ReportSource provides the most recent pipeline report.
type ReportSource interface {
	Latest() *model.Report
}

// Server is the read-only HTTP view of the latest run.
type Server struct {
	engine  *gin.Engine
	server  *http.Server
	source  ReportSource
	metrics *metrics.Metrics
	started time.Time
}

// NewServer creates the server. m may be nil, in which case /metrics is not mounted.
func NewServer(addr string, src ReportSource, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware())

	s := &Server{
		engine:  engine,
		source:  src,
		metrics: m,
		started: time.Now(),
		server: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	h := &Handler{source: s.source, started: s.started}

	api := s.engine.Group("/api")
	{
		api.GET("/signals", h.GetSignals)
		api.GET("/backtests", h.GetBacktests)
		api.GET("/backtests/:symbol", h.GetBacktest)
		api.GET("/status", h.GetStatus)
	}

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[INFO] API listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Printf("[INFO] API %s %s %d %v", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
