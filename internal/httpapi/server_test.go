package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kostroma329/Calendar-bot/extract"
)

var ref = time.Date(2024, time.March, 10, 10, 30, 0, 0, time.UTC)

var _ Extractor = (*extract.Engine)(nil)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	engine, err := extract.New(
		extract.WithLocation(time.UTC),
		extract.WithClock(func() time.Time { return ref }),
		extract.WithFallback(nil),
	)
	require.NoError(t, err)

	server, err := NewServer(engine, zap.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func postExtract(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type panicExtractor struct{}

func (panicExtractor) Extract(string) extract.Result { panic("boom") }

func (panicExtractor) ExtractAt(string, time.Time) extract.Result { panic("boom") }

func TestNewServer(t *testing.T) {
	engine, err := extract.New()
	require.NoError(t, err)

	t.Run("creates server with valid config", func(t *testing.T) {
		cfg := &Config{Host: "0.0.0.0", Port: 9000}
		server, err := NewServer(engine, zap.NewNop(), cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg, server.config)
	})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(engine, zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", server.config.Host)
		assert.Equal(t, 8080, server.config.Port)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(engine, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when extractor is nil", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extractor cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	_, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID))
	assert.NoError(t, err, "request id should be a UUID")
}

func TestHandleExtract(t *testing.T) {
	server := setupTestServer(t)

	t.Run("extracts all fields", func(t *testing.T) {
		rec := postExtract(t, server, `{"text": "завтра в 19:00 в Троицком танцуем вальс"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"datetime": "2024-03-11T19:00:00Z",
			"location": "Троицкий",
			"activities": ["Вальс"],
			"summary": "📅 11.03.2024 19:00\n📍 Троицкий\n💃 Вальс"
		}`, rec.Body.String())
	})

	t.Run("nothing found is not an error", func(t *testing.T) {
		rec := postExtract(t, server, `{"text": "давай встретимся и потанцуем"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"datetime": null,
			"location": null,
			"activities": [],
			"summary": "📅 не указано\n📍 не указано\n💃 не распознаны"
		}`, rec.Body.String())
	})

	t.Run("reference instant override", func(t *testing.T) {
		rec := postExtract(t, server, `{"text": "завтра в 19:00", "now": "2025-01-01T10:00:00Z"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ExtractResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Datetime)
		assert.True(t, resp.Datetime.Equal(time.Date(2025, time.January, 2, 19, 0, 0, 0, time.UTC)))
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := postExtract(t, server, `{"text": `)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		rec := postExtract(t, server, `{"text": "   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "text field is required")
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		body := `{"text": "` + strings.Repeat("а", 2<<20) + `"}`
		rec := postExtract(t, server, body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestRecoverFromExtractorPanic(t *testing.T) {
	server, err := NewServer(panicExtractor{}, zap.NewNop(), nil)
	require.NoError(t, err)

	rec := postExtract(t, server, `{"text": "вальс"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetrics(t *testing.T) {
	server := setupTestServer(t)

	locations := testutil.ToFloat64(fieldsTotal.WithLabelValues(fieldLocation))
	dances := testutil.ToFloat64(fieldsTotal.WithLabelValues(fieldActivity))
	complete := testutil.ToFloat64(extractionsTotal.WithLabelValues(outcomeComplete))
	empty := testutil.ToFloat64(extractionsTotal.WithLabelValues(outcomeEmpty))
	ok := testutil.ToFloat64(requestsTotal.WithLabelValues("/api/v1/extract", "200"))
	bad := testutil.ToFloat64(requestsTotal.WithLabelValues("/api/v1/extract", "400"))

	postExtract(t, server, `{"text": "завтра в 19:00 в Троицком танцуем вальс и барыню"}`)
	postExtract(t, server, `{"text": "давай встретимся и потанцуем"}`)
	postExtract(t, server, `{}`)

	assert.Equal(t, locations+1, testutil.ToFloat64(fieldsTotal.WithLabelValues(fieldLocation)))
	assert.Equal(t, dances+2, testutil.ToFloat64(fieldsTotal.WithLabelValues(fieldActivity)))
	assert.Equal(t, complete+1, testutil.ToFloat64(extractionsTotal.WithLabelValues(outcomeComplete)))
	assert.Equal(t, empty+1, testutil.ToFloat64(extractionsTotal.WithLabelValues(outcomeEmpty)))
	assert.Equal(t, ok+2, testutil.ToFloat64(requestsTotal.WithLabelValues("/api/v1/extract", "200")))
	assert.Equal(t, bad+1, testutil.ToFloat64(requestsTotal.WithLabelValues("/api/v1/extract", "400")))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(body, []byte("eventparse_extract_fields_total")))
	assert.True(t, bytes.Contains(body, []byte("eventparse_http_requests_total")))
}

func TestStartShutdown(t *testing.T) {
	engine, err := extract.New()
	require.NoError(t, err)
	server, err := NewServer(engine, zap.NewNop(), &Config{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	require.Eventually(t, func() bool {
		return server.echo.ListenerAddr() != nil
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}
