package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func serve(t *testing.T, buf *bytes.Buffer, h echo.HandlerFunc) map[string]any {
	t.Helper()
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(buf)))
	e.GET("/v1/users/:id", h)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/u1", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	return entry
}

func TestRequestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	entry := serve(t, &buf, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if entry["level"] != "info" {
		t.Errorf("expected info level, got %v", entry["level"])
	}
	if entry["route"] != "/v1/users/:id" || entry["uri"] != "/v1/users/u1" {
		t.Errorf("unexpected route fields %v", entry)
	}
	if entry["status"] != float64(http.StatusOK) || entry["request_id"] != "req-1" {
		t.Errorf("unexpected status fields %v", entry)
	}
}

func TestRequestLogger_ClientError(t *testing.T) {
	var buf bytes.Buffer
	entry := serve(t, &buf, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	})

	if entry["level"] != "warn" || entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestRequestLogger_ServerError(t *testing.T) {
	var buf bytes.Buffer
	entry := serve(t, &buf, func(c echo.Context) error {
		return errors.New("boom")
	})

	if entry["level"] != "error" {
		t.Errorf("expected error level, got %v", entry["level"])
	}
	if msg, _ := entry["error"].(string); !strings.Contains(msg, "boom") {
		t.Errorf("expected error field, got %v", entry["error"])
	}
}
