package auditlog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medbook/booking/internal/platform/apierror"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apierror.Handler(zerolog.Nop(), false)
	NewHandler(newTestService()).RegisterRoutes(e.Group("/api"))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_AuditLogRoutes(t *testing.T) {
	e := newTestServer()
	userID := uuid.New().String()

	rec := doJSON(e, http.MethodPost, "/api/audit-logs", `{"user_id":"`+userID+`","action":"login","details":"web"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var entry map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &entry)
	id := entry["_id"].(string)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/audit-logs/" + id, http.StatusOK},
		{http.MethodGet, "/api/audit-logs/user/" + userID, http.StatusOK},
		{http.MethodGet, "/api/audit-logs/action/login", http.StatusOK},
		{http.MethodGet, "/api/audit-logs/action/logout", http.StatusNotFound},
		{http.MethodGet, "/api/audit-logs/range?startDate=2025-01-01", http.StatusBadRequest},
		{http.MethodGet, "/api/audit-logs/range?startDate=2000-01-01&endDate=2000-01-02", http.StatusNotFound},
		{http.MethodGet, "/api/audit-logs?action=login", http.StatusOK},
		{http.MethodPut, "/api/audit-logs/" + id, http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/audit-logs/" + id, http.StatusOK},
		{http.MethodGet, "/api/audit-logs/" + id, http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := doJSON(e, tt.method, tt.path, "")
		if rec.Code != tt.status {
			t.Errorf("%s %s: expected %d, got %d: %s", tt.method, tt.path, tt.status, rec.Code, rec.Body.String())
		}
	}
}
