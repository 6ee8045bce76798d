// Package httpapi serves the extraction engine over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Kostroma329/Calendar-bot/extract"
)

const bodyLimit = "2M"

// Extractor is the part of extract.Engine the server needs.
type Extractor interface {
	Extract(text string) extract.Result
	ExtractAt(text string, ref time.Time) extract.Result
}

// Server provides the extraction endpoints.
type Server struct {
	echo      *echo.Echo
	extractor Extractor
	logger    *zap.Logger
	config    *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a server. A nil cfg listens on localhost:8080.
func NewServer(extractor Extractor, logger *zap.Logger, cfg *Config) (*Server, error) {
	if extractor == nil {
		return nil, errors.New("httpapi: extractor cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("httpapi: logger is required")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(observe(logger))

	s := &Server{
		echo:      e,
		extractor: extractor,
		logger:    logger,
		config:    cfg,
	}
	s.registerRoutes()

	return s, nil
}

// observe logs every request and records its metrics.
func observe(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			status := statusOf(c, err)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(route).Observe(duration.Seconds())

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

// statusOf returns the status the response will carry. Handler errors are
// written by echo after the middleware chain returns.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/extract", s.handleExtract)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ExtractRequest is the request body for POST /api/v1/extract.
type ExtractRequest struct {
	Text string `json:"text"`
	// Now overrides the reference instant. Optional.
	Now *time.Time `json:"now,omitempty"`
}

// ExtractResponse is the response body for POST /api/v1/extract: the
// Result fields plus the rendered summary.
type ExtractResponse struct {
	Datetime   *time.Time `json:"datetime"`
	Location   *string    `json:"location"`
	Activities []string   `json:"activities"`
	Summary    string     `json:"summary"`
}

func newExtractResponse(r extract.Result) ExtractResponse {
	resp := ExtractResponse{
		Datetime:   r.Time,
		Activities: r.Activities,
		Summary:    r.Summary(),
	}
	if r.Location != "" {
		resp.Location = &r.Location
	}
	if resp.Activities == nil {
		resp.Activities = []string{}
	}
	return resp
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	var res extract.Result
	if req.Now != nil {
		res = s.extractor.ExtractAt(req.Text, *req.Now)
	} else {
		res = s.extractor.Extract(req.Text)
	}
	recordExtraction(res)

	s.logger.Debug("extracted event",
		zap.Bool("has_time", res.HasTime()),
		zap.String("location", res.Location),
		zap.Strings("activities", res.Activities),
	)
	return c.JSON(http.StatusOK, newExtractResponse(res))
}

// Start listens until Shutdown is called. It returns http.ErrServerClosed
// after a clean shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
