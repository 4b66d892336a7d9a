// Package server serves the quantum tools over HTTP.
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
//	GET  /metrics Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/njchilds90/goquantum/internal/config"
	"github.com/njchilds90/goquantum/internal/mcp"
)

const requestIDKey = "request_id"

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goquantum_tool_calls_total",
		Help: "Tool calls by tool and result.",
	}, []string{"tool", "result"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "goquantum_tool_call_duration_seconds",
		Help:    "Tool call latency.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"tool"})
)

type Server struct {
	cfg     config.Server
	tools   *mcp.Handler
	logger  *slog.Logger
	limiter *rate.Limiter
	router  *gin.Engine
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg.Server,
		tools:  &mcp.Handler{Format: cfg.Represent.Format, Logger: logger},
		logger: logger,
	}
	if cfg.Server.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), max(cfg.Server.Burst, 1))
	}
	s.router = s.routes(cfg.Tracing.ServiceName)
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(s.recovered))
	r.Use(otelgin.Middleware(serviceName))
	r.Use(s.requestID, s.accessLog)

	r.POST("/tool", s.rateLimit, s.handleTool)
	r.GET("/schema", s.handleSchema)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Run listens on the configured port until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("goquantum MCP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ============================================================
// Middleware
// ============================================================

func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.InfoContext(c.Request.Context(), "request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
		requestIDKey, c.GetString(requestIDKey))
}

func (s *Server) rateLimit(c *gin.Context) {
	if s.limiter != nil && !s.limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}
	c.Next()
}

func (s *Server) recovered(c *gin.Context, rec any) {
	s.logger.ErrorContext(c.Request.Context(), "panic in handler",
		"panic", rec, "path", c.Request.URL.Path, requestIDKey, c.GetString(requestIDKey))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleTool(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes())
	defer c.Request.Body.Close()

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req mcp.ToolRequest
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	// Ensure there's no trailing junk.
	if dec.More() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := s.tools.Handle(c.Request.Context(), req)
	tool := metricTool(req.Tool)
	toolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
	result := "ok"
	if resp.Error != "" {
		result = "error"
	}
	toolCalls.WithLabelValues(tool, result).Inc()

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(mcp.MCPToolSpec()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) maxBodyBytes() int64 {
	if s.cfg.MaxBodyBytes > 0 {
		return s.cfg.MaxBodyBytes
	}
	return 1 << 20
}

// metricTool bounds the tool label to the known tool names.
func metricTool(name string) string {
	if slices.Contains(mcp.ToolNames(), name) {
		return name
	}
	return "unknown"
}
