package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestInitLoggerWritesRotatingFile(t *testing.T) {
	previous := GetLogger()
	t.Cleanup(func() { SetLogger(previous) })

	file := filepath.Join(t.TempDir(), "catalog.log")
	l, err := InitLogger(&LogConfig{Level: "info", Environment: "production", ServiceName: "test", File: file})
	require.NoError(t, err)
	l.Info("hello", zap.String("k", "v"))
	_ = l.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"test"`)
	assert.Same(t, l, GetLogger())
}

func TestMiddlewareLogsRealStatus(t *testing.T) {
	previous := GetLogger()
	t.Cleanup(func() { SetLogger(previous) })
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.NoContent(http.StatusTeapot)
	}
	e.Use(Middleware())
	e.GET("/fail", func(c echo.Context) error { return errors.New("boom") })

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusTeapot), entries[0].ContextMap()["status"])
	assert.Equal(t, "unknown", entries[0].ContextMap()["request_id"])
}
