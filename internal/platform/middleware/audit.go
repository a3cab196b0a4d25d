package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medbook/booking/internal/platform/auth"
)

// AccessEntry describes one request against the resource API.
type AccessEntry struct {
	UserID     string
	UserRole   string
	Resource   string
	ResourceID string
	Action     string // read, create, update, delete
	Method     string
	Path       string
	IPAddress  string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// Audit emits a structured access line for every /api request after the
// handler has run. The caller identity comes from auth.Identify and is empty
// for anonymous requests.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, "/api/") {
				return next(c)
			}

			err := next(c)

			entry := BuildAccessEntry(c, err)
			logger.Info().
				Str("type", "access_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("user_role", entry.UserRole).
				Str("resource", entry.Resource).
				Str("resource_id", entry.ResourceID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Time("at", entry.Timestamp).
				Msg("api_access")

			return err
		}
	}
}

// BuildAccessEntry collects the audit fields for the current request.
func BuildAccessEntry(c echo.Context, handlerErr error) AccessEntry {
	req := c.Request()
	ctx := req.Context()

	status := c.Response().Status
	if handlerErr != nil {
		status = statusFromError(handlerErr)
	}
	rid, _ := c.Get("request_id").(string)
	resource, id := splitResourcePath(req.URL.Path)

	return AccessEntry{
		UserID:     auth.UserIDFromContext(ctx),
		UserRole:   auth.RoleFromContext(ctx),
		Resource:   resource,
		ResourceID: id,
		Action:     httpMethodToAction(req.Method),
		Method:     req.Method,
		Path:       req.URL.Path,
		IPAddress:  c.RealIP(),
		RequestID:  rid,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	}
}

func httpMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// splitResourcePath maps /api/appointments/<id>/status to
// ("appointments", "<id>"). Named sub-collections such as /patient/<id> are
// reported without an id.
func splitResourcePath(path string) (resource, id string) {
	segments := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api/"), "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "unknown", ""
	}
	resource = segments[0]
	if len(segments) > 1 && isIDSegment(segments[1]) {
		id = segments[1]
	}
	return resource, id
}

var subCollections = map[string]bool{
	"email": true, "user": true, "specialty": true, "practitioner": true,
	"patient": true, "range": true, "pending": true, "status": true,
	"appointment": true, "action": true, "register": true, "login": true,
}

func isIDSegment(s string) bool {
	return s != "" && !subCollections[s]
}
